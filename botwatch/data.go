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
	"math"
	"time"

	"logsentry/load"
)

type IPStats struct {
	IP           string  `json:"ip"`
	Mean         float64 `json:"mean"`
	Stdev        float64 `json:"stdev"`
	Count        int     `json:"count"`
	FirstRequest string  `json:"firstRequest"`
	LastRequest  string  `json:"lastRequest"`
}

// RSD returns relative standard deviation of request intervals
func (r IPStats) RSD() float64 {
	if r.Mean == 0 {
		return 0
	}
	return r.Stdev / r.Mean
}

// --------------

// IPProcData holds running statistics of intervals between
// subsequent requests of a single IP. The `count` is the number
// of evaluated intervals.
type IPProcData struct {
	count       int
	mean        float64
	m2          float64
	firstAccess time.Time
	lastAccess  time.Time
}

func (ips *IPProcData) Variance() float64 {
	if ips.count == 0 {
		return 0
	}
	return ips.m2 / float64(ips.count)
}

func (ips *IPProcData) Stdev() float64 {
	return math.Sqrt(ips.Variance())
}

// RSD returns relative standard deviation of request intervals.
// A series of requests made all at once has zero RSD.
func (ips *IPProcData) RSD() float64 {
	if ips.mean == 0 {
		return 0
	}
	return ips.Stdev() / ips.mean
}

func (ips *IPProcData) ReqPerSecond() float64 {
	dur := ips.lastAccess.Sub(ips.firstAccess).Seconds()
	if dur == 0 {
		return float64(ips.count)
	}
	return float64(ips.count) / dur
}

func (ips *IPProcData) IsSuspicious(conf load.BotWatchConf) bool {
	return ips.count >= conf.NumRequestsThreshold && ips.RSD() <= conf.RSDThreshold
}

func (ips *IPProcData) ToIPStats(ip string) IPStats {
	return IPStats{
		IP:           ip,
		Mean:         ips.mean,
		Stdev:        ips.Stdev(),
		Count:        ips.count,
		FirstRequest: ips.firstAccess.Format(time.RFC3339),
		LastRequest:  ips.lastAccess.Format(time.RFC3339),
	}
}
