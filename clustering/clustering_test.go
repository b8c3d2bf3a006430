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

package clustering

import (
	"testing"
	"time"

	"logsentry/load"
	"logsentry/record"

	"github.com/stretchr/testify/assert"
)

func mkRec(ip string, t time.Time) *record.LogRecord {
	return &record.LogRecord{ClientIP: ip, TimeRecord: &t}
}

func TestBursts(t *testing.T) {
	t0 := time.Date(2023, time.October, 10, 13, 55, 36, 0, time.UTC)
	tab := &record.Table{}
	for i := 0; i < 6; i++ {
		tab.Records = append(tab.Records, mkRec("10.0.0.1", t0.Add(time.Duration(i)*time.Second)))
	}
	tab.Records = append(tab.Records, mkRec("10.0.0.1", t0.Add(5*time.Hour)))
	tab.Records = append(tab.Records, &record.LogRecord{ClientIP: "10.0.0.1"})
	for i := 0; i < 6; i++ {
		tab.Records = append(tab.Records, mkRec("10.0.0.2", t0.Add(time.Duration(i)*time.Second)))
	}

	ans := Bursts(tab, []string{"10.0.0.1"}, &load.ClusteringDBScanConf{MinDensity: 3, Epsilon: 60})
	if assert.Equal(t, 1, len(ans)) {
		assert.Equal(t, "10.0.0.1", ans[0].IP)
		assert.Equal(t, 6, ans[0].Size)
		assert.Equal(t, t0, ans[0].Start)
		assert.Equal(t, 5*time.Second, ans[0].Duration())
	}
}

func TestBurstsNoIPs(t *testing.T) {
	t0 := time.Date(2023, time.October, 10, 13, 55, 36, 0, time.UTC)
	tab := &record.Table{Records: []*record.LogRecord{mkRec("10.0.0.1", t0)}}
	ans := Bursts(tab, []string{}, &load.ClusteringDBScanConf{MinDensity: 3, Epsilon: 60})
	assert.Equal(t, 0, len(ans))
}
