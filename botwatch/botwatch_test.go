// Copyright 2022 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2022 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
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

package botwatch

import (
	"testing"
	"time"

	"logsentry/load"
	"logsentry/record"

	"github.com/stretchr/testify/assert"
)

var testConf = load.BotWatchConf{
	WatchedTimeWindowSecs: 60,
	NumRequestsThreshold:  10,
	RSDThreshold:          0.1,
}

func mkRec(ip string, t time.Time) *record.LogRecord {
	return &record.LogRecord{ClientIP: ip, RawAddress: ip, TimeRecord: &t}
}

func TestWelfordStatistics(t *testing.T) {
	wd := NewWatchdog(load.BotWatchConf{WatchedTimeWindowSecs: 100, NumRequestsThreshold: 10, RSDThreshold: 0})
	start := time.Date(2023, 10, 10, 13, 0, 0, 0, time.UTC)
	wd.Add("a", start)
	wd.Add("a", start.Add(1*time.Second))
	wd.Add("a", start.Add(4*time.Second))
	stats := wd.statistics["a"]
	assert.Equal(t, 2, stats.count)
	assert.InDelta(t, 2.0, stats.mean, 0.0001)
	assert.InDelta(t, 1.0, stats.Stdev(), 0.0001)
	assert.InDelta(t, 0.5, stats.RSD(), 0.0001)
	assert.InDelta(t, 0.5, stats.ReqPerSecond(), 0.0001)
}

func TestAnalyzeFindsRegularClient(t *testing.T) {
	start := time.Date(2023, 10, 10, 13, 0, 0, 0, time.UTC)
	tab := &record.Table{}
	for i := 0; i < 12; i++ {
		tab.Records = append(tab.Records, mkRec("10.0.0.66", start.Add(time.Duration(2*i)*time.Second)))
	}
	for i, offs := range []int{0, 1, 7, 8, 20} {
		tab.Records = append(tab.Records, mkRec("10.0.0.1", start.Add(time.Duration(offs+i)*time.Second)))
	}
	tab.Records = append(tab.Records, &record.LogRecord{RawAddress: "garbage"})

	ans := Analyze(tab, testConf)
	assert.Len(t, ans, 1)
	assert.Equal(t, "10.0.0.66", ans[0].IP)
	assert.Equal(t, 10, ans[0].Count)
	assert.InDelta(t, 2.0, ans[0].Mean, 0.0001)
	assert.InDelta(t, 0.0, ans[0].RSD(), 0.0001)
}

func TestAnalyzeIgnoresTableOrder(t *testing.T) {
	start := time.Date(2023, 10, 10, 13, 0, 0, 0, time.UTC)
	tab := &record.Table{}
	for i := 11; i >= 0; i-- {
		tab.Records = append(tab.Records, mkRec("10.0.0.66", start.Add(time.Duration(2*i)*time.Second)))
	}
	ans := Analyze(tab, testConf)
	assert.Len(t, ans, 1)
	assert.Equal(t, "10.0.0.66", tab.Records[11].ClientIP)
	assert.True(t, tab.Records[0].TimeRecord.After(*tab.Records[11].TimeRecord))
}

func TestAnalyzeSparseRequestsNotCounted(t *testing.T) {
	start := time.Date(2023, 10, 10, 13, 0, 0, 0, time.UTC)
	tab := &record.Table{}
	for i := 0; i < 30; i++ {
		tab.Records = append(tab.Records, mkRec("10.0.0.5", start.Add(time.Duration(10*i)*time.Second)))
	}
	assert.Empty(t, Analyze(tab, testConf))
}
