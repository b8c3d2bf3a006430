// Copyright 2020 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2020 Institute of the Czech National Corpus,
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
	"fmt"
	"math"
	"sort"
	"time"

	"logsentry/load"
	"logsentry/record"

	"github.com/kelindar/dbscan"
)

type ClusterableRecord struct {
	idx int
	rec *record.LogRecord
}

func (cr ClusterableRecord) GetTime() time.Time {
	return cr.rec.GetTime()
}

func (cr ClusterableRecord) DistanceTo(other dbscan.Point) float64 {
	return math.Abs((other.(ClusterableRecord)).GetTime().Sub(cr.GetTime()).Seconds())
}

// Name must be unique for each point (records with the same
// time would be otherwise treated as a single point)
func (cr ClusterableRecord) Name() string {
	return fmt.Sprintf("%d@%s", cr.idx, cr.GetTime().Format(time.RFC3339))
}

// Burst is a dense series of requests from a single IP
type Burst struct {
	IP    string    `json:"ip"`
	Size  int       `json:"size"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (b Burst) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

func wrapRecords(tab *record.Table, ips map[string]bool) map[string][]dbscan.Point {
	ans := make(map[string][]dbscan.Point)
	tab.ForEach(func(i int, rec *record.LogRecord) {
		if rec.TimeRecord == nil || !ips[rec.ClientIP] {
			return
		}
		ans[rec.ClientIP] = append(ans[rec.ClientIP], ClusterableRecord{idx: i, rec: rec})
	})
	return ans
}

// Bursts searches for dense request series of the provided IPs using
// the DBSCAN algorithm applied on request times. Records with missing
// time are ignored.
func Bursts(tab *record.Table, ips []string, conf *load.ClusteringDBScanConf) []Burst {
	ipSet := make(map[string]bool)
	for _, ip := range ips {
		ipSet[ip] = true
	}
	ans := make([]Burst, 0, len(ips))
	for ip, points := range wrapRecords(tab, ipSet) {
		clusters := dbscan.Cluster(conf.MinDensity, conf.Epsilon, points...)
		for _, cl := range clusters {
			if len(cl) == 0 {
				continue
			}
			burst := Burst{IP: ip, Size: len(cl)}
			for _, p := range cl {
				t := p.(ClusterableRecord).GetTime()
				if burst.Start.IsZero() || t.Before(burst.Start) {
					burst.Start = t
				}
				if t.After(burst.End) {
					burst.End = t
				}
			}
			ans = append(ans, burst)
		}
	}
	sort.SliceStable(ans, func(i, j int) bool {
		if ans[i].IP == ans[j].IP {
			return ans[i].Start.Before(ans[j].Start)
		}
		return ans[i].IP < ans[j].IP
	})
	return ans
}
