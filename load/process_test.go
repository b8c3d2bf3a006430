// Copyright 2026 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2026 Institute of the Czech National Corpus,
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

package load

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testLog = `192.168.1.10,- - [10/Oct/2023:13:55:36 -0700] "GET /index.html HTTP/1.1" 200 1043 "-",Mozilla/5.0
192.168.1.11,- admin [10/Oct/2023:13:55:37 -0700] "POST /login HTTP/1.1" 401 12 "http://shop.test/",sqlmap/1.6
this line has no delimiter
192.168.1.12,complete garbage,curl/8.1
192.168.1.13,- - [10/Oct/2023:13:55:38 -0700] "GET /search?q=a,b HTTP/1.1" 200 - "-",Nikto
`

func TestProcessDroppedVsDegraded(t *testing.T) {
	tab, stats, err := Process(strings.NewReader(testLog))
	assert.NoError(t, err)
	assert.Equal(t, 5, stats.NumRead)
	assert.Equal(t, 1, stats.NumDropped)
	assert.Equal(t, 1, stats.NumUnmatched)
	assert.Equal(t, 4, tab.Len())

	degraded := tab.Records[2]
	assert.Equal(t, "", degraded.ClientIP)
	assert.Equal(t, "192.168.1.12", degraded.RawAddress)
	assert.Equal(t, "curl/8.1", degraded.FullUserAgent)
	assert.Nil(t, degraded.ResponseCode)
}

func TestProcessEmbeddedDelimiter(t *testing.T) {
	tab, _, err := Process(strings.NewReader(testLog))
	assert.NoError(t, err)
	rec := tab.Records[3]
	assert.Equal(t, "192.168.1.13", rec.ClientIP)
	assert.Equal(t, "/search?q=a,b", *rec.RequestURL)
	assert.Equal(t, "/search", rec.URIPath)
	assert.Equal(t, 200, *rec.ResponseCode)
	assert.Nil(t, rec.BytesSent)
	assert.Equal(t, "Nikto", rec.FullUserAgent)
}

func TestProcessIsIdempotent(t *testing.T) {
	tab1, _, err := Process(strings.NewReader(testLog))
	assert.NoError(t, err)
	tab2, _, err := Process(strings.NewReader(testLog))
	assert.NoError(t, err)
	assert.Equal(t, tab1, tab2)
}

func TestProcessFileNotFound(t *testing.T) {
	_, _, err := ProcessFile(filepath.Join(t.TempDir(), "missing.log"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputNotFound))
}

func TestProcessFileDirectory(t *testing.T) {
	_, _, err := ProcessFile(t.TempDir())
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrInputNotFound))
}

func TestProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "access.log")
	assert.NoError(t, os.WriteFile(path, []byte(testLog), 0644))
	tab, stats, err := ProcessFile(path)
	assert.NoError(t, err)
	assert.Equal(t, 4, tab.Len())
	assert.Equal(t, 1, stats.NumDropped)
}

func TestDetectionConfDefaults(t *testing.T) {
	conf := DetectionConf{}
	conf.ApplyDefaults()
	assert.Equal(t, 10, conf.GetBruteForceThreshold())
	assert.Equal(t, 15, conf.GetScannerThreshold())
	assert.NoError(t, conf.Validate())
	conf.ClusteringDBScan = &ClusteringDBScanConf{MinDensity: 3}
	assert.Error(t, conf.Validate())
}

func TestDetectionConfZeroThresholdKept(t *testing.T) {
	var conf DetectionConf
	assert.NoError(t, json.Unmarshal([]byte(`{"bruteForceThreshold": 0, "ipOutlierMinFreq": 0}`), &conf))
	conf.ApplyDefaults()
	assert.Equal(t, 0, conf.GetBruteForceThreshold())
	assert.Equal(t, 0, conf.GetIPOutlierMinFreq())
	assert.Equal(t, DefaultScannerThreshold, conf.GetScannerThreshold())
	assert.NoError(t, conf.Validate())
}

func TestDetectionConfNegativeThreshold(t *testing.T) {
	v := -1
	conf := DetectionConf{ScannerThreshold: &v}
	conf.ApplyDefaults()
	assert.Error(t, conf.Validate())
}
