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

// Package analysis contains heuristics searching for suspicious
// clients in a table of access log records. All the detectors are
// stateless functions of the whole table.
package analysis

import (
	"sort"

	"logsentry/record"
)

// IPCount is a number of matching requests of a client IP
type IPCount struct {
	IP    string `json:"ip"`
	Count int    `json:"count"`
}

// DetectionResult contains IPs exceeding a detector threshold
// sorted by their counts in descending order.
type DetectionResult []IPCount

// Get returns the count of the ip (if present)
func (dr DetectionResult) Get(ip string) (int, bool) {
	for _, v := range dr {
		if v.IP == ip {
			return v.Count, true
		}
	}
	return 0, false
}

func (dr DetectionResult) IPs() []string {
	ans := make([]string, len(dr))
	for i, v := range dr {
		ans[i] = v.IP
	}
	return ans
}

// countByIP counts records matching pred per client IP.
// Records without extracted IP are ignored.
func countByIP(tab *record.Table, pred func(rec *record.LogRecord) bool) map[string]int {
	ans := make(map[string]int)
	tab.ForEach(func(i int, rec *record.LogRecord) {
		if rec.ClientIP == "" || !pred(rec) {
			return
		}
		ans[rec.ClientIP]++
	})
	return ans
}

// aboveThreshold keeps only items with count strictly greater
// than the threshold. Items with the same count are ordered
// by IP.
func aboveThreshold(counts map[string]int, threshold int) DetectionResult {
	ans := make(DetectionResult, 0, len(counts)/10)
	for ip, cnt := range counts {
		if cnt > threshold {
			ans = append(ans, IPCount{IP: ip, Count: cnt})
		}
	}
	sort.SliceStable(ans, func(i, j int) bool {
		if ans[i].Count == ans[j].Count {
			return ans[i].IP < ans[j].IP
		}
		return ans[i].Count > ans[j].Count
	})
	return ans
}
