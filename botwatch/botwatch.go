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

// Package botwatch searches for clients producing dense series
// of requests with regular intervals.
package botwatch

import (
	"sort"
	"time"

	"logsentry/load"
	"logsentry/record"
)

// Watchdog evaluates request series IP by IP. Records must be
// added in chronological order.
type Watchdog struct {
	statistics map[string]*IPProcData
	suspicions map[string]IPProcData
	conf       load.BotWatchConf
}

func (wd *Watchdog) maxLogRecordsDistance() time.Duration {
	return time.Duration(
		float64(wd.conf.WatchedTimeWindowSecs) / float64(wd.conf.NumRequestsThreshold) * float64(time.Second))
}

func (wd *Watchdog) Conf() load.BotWatchConf {
	return wd.conf
}

// Add evaluates a request of the ip made at time t
func (wd *Watchdog) Add(ip string, t time.Time) {
	srec, ok := wd.statistics[ip]
	if !ok {
		srec = &IPProcData{}
		wd.statistics[ip] = srec
	}
	// here we use Welford algorithm for online variance calculation
	// more info: (https://en.wikipedia.org/wiki/Algorithms_for_calculating_variance#Online_algorithm)
	if srec.lastAccess.IsZero() {
		srec.firstAccess = t

	} else {
		if t.Sub(srec.lastAccess) <= wd.maxLogRecordsDistance() {
			srec.count++
			timeDist := float64(t.Sub(srec.lastAccess).Milliseconds()) / 1000
			delta := timeDist - srec.mean
			srec.mean += delta / float64(srec.count)
			delta2 := timeDist - srec.mean
			srec.m2 += delta * delta2
		}
		srec.lastAccess = t
		if srec.IsSuspicious(wd.conf) {
			prev, ok := wd.suspicions[ip]
			if !ok || srec.count > prev.count {
				wd.suspicions[ip] = *srec
			}
		}
		if srec.IsSuspicious(wd.conf) ||
			t.Sub(srec.firstAccess) > time.Duration(wd.conf.WatchedTimeWindowSecs)*time.Second {
			srec = &IPProcData{firstAccess: t}
			wd.statistics[ip] = srec
		}
	}
	srec.lastAccess = t
}

// GetSuspiciousRecords returns the most significant suspicious series
// of each reported IP. Items are sorted by number of requests (descending).
func (wd *Watchdog) GetSuspiciousRecords() []IPStats {
	ans := make([]IPStats, 0, len(wd.suspicions))
	for ip, rec := range wd.suspicions {
		ans = append(ans, rec.ToIPStats(ip))
	}
	sort.SliceStable(ans, func(i, j int) bool {
		if ans[i].Count == ans[j].Count {
			return ans[i].IP < ans[j].IP
		}
		return ans[i].Count > ans[j].Count
	})
	return ans
}

func NewWatchdog(conf load.BotWatchConf) *Watchdog {
	return &Watchdog{
		statistics: make(map[string]*IPProcData),
		suspicions: make(map[string]IPProcData),
		conf:       conf,
	}
}

// Analyze runs a watchdog over all the records with known client IP
// and request time. Records are processed in chronological order
// no matter how they are ordered in the table.
func Analyze(tab *record.Table, conf load.BotWatchConf) []IPStats {
	recs := tab.Filter(func(rec *record.LogRecord) bool {
		return rec.ClientIP != "" && rec.TimeRecord != nil
	}).Records
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].TimeRecord.Before(*recs[j].TimeRecord)
	})
	wd := NewWatchdog(conf)
	for _, rec := range recs {
		wd.Add(rec.ClientIP, *rec.TimeRecord)
	}
	return wd.GetSuspiciousRecords()
}
