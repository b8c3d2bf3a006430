// Copyright 2026 Tomas Machalek <tomas.machalek@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"logsentry/analysis"
	"logsentry/botwatch"
	"logsentry/load"
	"logsentry/record"

	"github.com/stretchr/testify/assert"
)

const testLog = `10.0.0.1,- - [10/Oct/2023:13:55:36 +0000] "POST /login HTTP/1.1" 401 12 "-",hydra
10.0.0.1,- - [10/Oct/2023:13:55:37 +0000] "POST /login HTTP/1.1" 401 12 "-",hydra
10.0.0.2,- - [10/Oct/2023:13:55:38 +0000] "GET /index.html HTTP/1.1" 200 512 "-",Mozilla/5.0
10.0.0.3,broken body,curl/8.1
`

func prepare(t *testing.T) (*Summary, *record.Table) {
	tab, stats, err := load.Process(strings.NewReader(testLog))
	assert.NoError(t, err)
	s, err := NewSummary("test.log", tab, stats, 1, time.UTC)
	assert.NoError(t, err)
	s.BruteForce = analysis.BruteForce(tab, 1)
	s.Scanners = analysis.Scanners(tab, 5)
	s.MaliciousAgents = analysis.MaliciousAgents(tab)
	return s, tab
}

func TestNewSummary(t *testing.T) {
	s, _ := prepare(t)
	assert.NotEmpty(t, s.RunID)
	assert.Equal(t, 4, s.NumRead)
	assert.Equal(t, 4, s.NumRecords)
	assert.Equal(t, 1, s.NumUnmatched)
	assert.Equal(t, []record.ValueCount{{Value: "10.0.0.1", Count: 2}}, s.TopClientIPs)
	assert.Equal(t, []record.ValueCount{{Value: "/login", Count: 2}}, s.TopRequestURLs)
	assert.Equal(t, []record.ValueCount{{Value: "hydra", Count: 2}}, s.TopUserAgents)
}

func TestFlaggedIPs(t *testing.T) {
	s := &Summary{
		BruteForce:     analysis.DetectionResult{{IP: "a", Count: 20}, {IP: "b", Count: 11}},
		Scanners:       analysis.DetectionResult{{IP: "c", Count: 30}, {IP: "a", Count: 20}},
		Outliers:       analysis.OutlierReport{Items: []*analysis.ReqCalcItem{{IP: "d", Count: 100}}},
		RegularClients: []botwatch.IPStats{{IP: "e", Count: 12}, {IP: "b", Count: 10}},
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, s.FlaggedIPs())
	assert.True(t, s.HasFindings())
	assert.False(t, (&Summary{}).HasFindings())
}

func TestWriteText(t *testing.T) {
	s, _ := prepare(t)
	var buf bytes.Buffer
	assert.NoError(t, WriteText(&buf, s))
	out := buf.String()
	assert.Contains(t, out, s.RunID)
	assert.Contains(t, out, "Possible brute-force attempts")
	assert.Contains(t, out, "10.0.0.1")
	assert.Contains(t, out, "hydra")
}

func TestWriteDetectionCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDetectionCSV(&buf, analysis.DetectionResult{{IP: "10.0.0.1", Count: 11}})
	assert.NoError(t, err)
	assert.Equal(t, "ip,count\n10.0.0.1,11\n", buf.String())
}

func TestWriteRecordsCSVMissingValues(t *testing.T) {
	var buf bytes.Buffer
	recs := []*record.LogRecord{{RawAddress: "10.0.0.3", FullUserAgent: "curl/8.1"}}
	assert.NoError(t, WriteRecordsCSV(&buf, recs))
	rows, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "", rows[1][0])
	assert.Equal(t, "10.0.0.3", rows[1][1])
	assert.Equal(t, "", rows[1][6])
	assert.Equal(t, "curl/8.1", rows[1][9])
}

func TestWriteAll(t *testing.T) {
	s, tab := prepare(t)
	dir := filepath.Join(t.TempDir(), "out")
	assert.NoError(t, WriteAll(dir, s, tab))
	for _, name := range []string{
		SummaryTextFile, SummaryJSONFile, BruteForceFile, ScannersFile,
		MaliciousAgentsFile, StatusDistributionFile, IPDistributionFile,
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	_, err := os.Stat(filepath.Join(dir, RuleMatchesFile))
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(filepath.Join(dir, StatusDistributionFile))
	assert.NoError(t, err)
	assert.Equal(t, "response_code,count\n401,2\n-,1\n200,1\n", string(data))
}

func TestWriteRegularClientsCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteRegularClientsCSV(&buf, []botwatch.IPStats{
		{IP: "10.0.0.66", Count: 10, Mean: 2, Stdev: 0.5, FirstRequest: "a", LastRequest: "b"},
	})
	assert.NoError(t, err)
	assert.Equal(
		t,
		"ip,intervals,mean_secs,stdev_secs,first_request,last_request\n10.0.0.66,10,2.000,0.500,a,b\n",
		buf.String(),
	)
}
