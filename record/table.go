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

package record

import (
	"fmt"
	"sort"
	"strconv"
)

// ValueCount is a value along with number of its occurrences
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// SortValueCounts sorts items by count (descending). Items with
// the same count are sorted by value to keep the result stable.
func SortValueCounts(items []ValueCount) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Value < items[j].Value
		}
		return items[i].Count > items[j].Count
	})
}

// Table is an ordered set of normalized records from
// a single batch run.
type Table struct {
	Records []*LogRecord
}

func (tab *Table) Len() int {
	return len(tab.Records)
}

// ForEach calls fn for each record in the original order
func (tab *Table) ForEach(fn func(i int, rec *LogRecord)) {
	for i, rec := range tab.Records {
		fn(i, rec)
	}
}

// Filter returns a new table with records matching the predicate
func (tab *Table) Filter(pred func(rec *LogRecord) bool) *Table {
	ans := &Table{Records: make([]*LogRecord, 0, len(tab.Records)/4)}
	for _, rec := range tab.Records {
		if pred(rec) {
			ans.Records = append(ans.Records, rec)
		}
	}
	return ans
}

// NumMatched returns number of records with successfully
// extracted fields
func (tab *Table) NumMatched() int {
	var ans int
	for _, rec := range tab.Records {
		if rec.ClientIP != "" {
			ans++
		}
	}
	return ans
}

// ValueCounts counts values of a column. Missing (empty) values
// are not counted.
func (tab *Table) ValueCounts(column string) ([]ValueCount, error) {
	switch column {
	case ColClientIP, ColRequestURL, ColFullUserAgent:
	default:
		return nil, fmt.Errorf("unsupported column for value counting: %s", column)
	}
	counts := make(map[string]int)
	for _, rec := range tab.Records {
		v := rec.StringValue(column)
		if v != "" {
			counts[v]++
		}
	}
	ans := make([]ValueCount, 0, len(counts))
	for k, v := range counts {
		ans = append(ans, ValueCount{Value: k, Count: v})
	}
	SortValueCounts(ans)
	return ans, nil
}

// TopValues returns at most n most frequent values of a column
func (tab *Table) TopValues(column string, n int) ([]ValueCount, error) {
	ans, err := tab.ValueCounts(column)
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(ans) > n {
		ans = ans[:n]
	}
	return ans, nil
}

// IPDistribution returns numbers of requests per client IP
func (tab *Table) IPDistribution() []ValueCount {
	ans, _ := tab.ValueCounts(ColClientIP)
	return ans
}

// StatusDistribution returns numbers of records per response code.
// Records with missing code are counted under the "-" value.
func (tab *Table) StatusDistribution() []ValueCount {
	counts := make(map[string]int)
	for _, rec := range tab.Records {
		if rec.ResponseCode != nil {
			counts[strconv.Itoa(*rec.ResponseCode)]++

		} else {
			counts["-"]++
		}
	}
	ans := make([]ValueCount, 0, len(counts))
	for k, v := range counts {
		ans = append(ans, ValueCount{Value: k, Count: v})
	}
	SortValueCounts(ans)
	return ans
}
