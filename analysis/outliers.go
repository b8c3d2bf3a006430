// Copyright 2023 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2023 Institute of the Czech National Corpus,
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

package analysis

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"logsentry/load"
	"logsentry/record"

	"github.com/czcorpus/cnc-gokit/collections"
	"github.com/czcorpus/cnc-gokit/maths"
	"github.com/rs/zerolog/log"
)

type sitemsWrapper struct {
	data collections.BinTree[*ReqCalcItem]
}

func (w *sitemsWrapper) Get(idx int) maths.FreqInfo {
	return w.data.Get(idx)
}

func (w *sitemsWrapper) Len() int {
	return w.data.Len()
}

type ReqCalcItem struct {
	IP    string `json:"ip"`
	Count int    `json:"count"`
	Known bool   `json:"known"`
}

// Freq is implemented to satisfy cnc-gokit utils
func (rc *ReqCalcItem) Freq() int {
	return rc.Count
}

// Compare orders items by count. Items with the same count
// are ordered by IP so no two different IPs are equal.
func (rc *ReqCalcItem) Compare(other collections.Comparable) int {
	tOther := other.(*ReqCalcItem)
	if rc.Count > tOther.Count {
		return 1

	} else if rc.Count == tOther.Count {
		return strings.Compare(rc.IP, tOther.IP)
	}
	return -1
}

// OutlierReport contains IPs with unusually high number
// of requests compared to other IPs in the same log.
type OutlierReport struct {
	Threshold int            `json:"threshold"`
	NumIPs    int            `json:"numIps"`
	Items     []*ReqCalcItem `json:"items"`
}

// Outliers searches for IP addresses with number of requests
// higher than `max(ipOutlierMinFreq, Q3 + ipOutlierCoeff * IQR)`.
// For datasets too small for quartiles calculation, an empty
// report is returned.
func Outliers(tab *record.Table, conf *load.DetectionConf) (OutlierReport, error) {
	counts := countByIP(tab, func(rec *record.LogRecord) bool { return true })
	sortedItems := collections.BinTree[*ReqCalcItem]{}
	for ip, cnt := range counts {
		sortedItems.Add(&ReqCalcItem{IP: ip, Count: cnt})
	}
	ans := OutlierReport{NumIPs: sortedItems.Len(), Items: []*ReqCalcItem{}}
	qrt, err := maths.GetQuartiles[maths.FreqInfo](&sitemsWrapper{sortedItems})
	if errors.Is(err, maths.ErrTooSmallDataset) {
		log.Debug().Int("numIPs", sortedItems.Len()).Msg("too few IPs for outlier detection")
		return ans, nil

	} else if err != nil {
		return ans, fmt.Errorf("failed to calculate request quartiles: %w", err)
	}
	ans.Threshold = maths.Max(
		conf.GetIPOutlierMinFreq(),
		int(float64(qrt.Q3)+conf.GetIPOutlierCoeff()*float64(qrt.IQR())),
	)
	sortedItems.ForEach(func(i int, v *ReqCalcItem) bool {
		if v.Count > ans.Threshold {
			if collections.SliceContains(conf.BlocklistIP, v.IP) {
				v.Known = true
			}
			ans.Items = append(ans.Items, v)
		}
		return true
	})
	sort.SliceStable(ans.Items, func(i, j int) bool {
		if ans.Items[i].Count == ans.Items[j].Count {
			return ans.Items[i].IP < ans.Items[j].IP
		}
		return ans.Items[i].Count > ans.Items[j].Count
	})
	if len(ans.Items) > 0 {
		log.Info().
			Int("threshold", ans.Threshold).
			Int("numOutliers", len(ans.Items)).
			Msg("found outlier IP requests")
	}
	return ans, nil
}
