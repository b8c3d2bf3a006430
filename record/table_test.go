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
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func intPtr(v int) *int {
	return &v
}

func testTable() *Table {
	return &Table{
		Records: []*LogRecord{
			{ClientIP: "10.0.0.2", RequestURL: strPtr("/a"), ResponseCode: intPtr(200), FullUserAgent: "curl"},
			{ClientIP: "10.0.0.1", RequestURL: strPtr("/b"), ResponseCode: intPtr(404), FullUserAgent: "curl"},
			{ClientIP: "10.0.0.1", RequestURL: strPtr("/a"), ResponseCode: intPtr(200), FullUserAgent: "wget"},
			{RawAddress: "garbage", FullUserAgent: ""},
		},
	}
}

func TestValueCountsSkipsMissing(t *testing.T) {
	counts, err := testTable().ValueCounts(ColClientIP)
	assert.NoError(t, err)
	assert.Equal(t, []ValueCount{{"10.0.0.1", 2}, {"10.0.0.2", 1}}, counts)
}

func TestValueCountsUnknownColumn(t *testing.T) {
	_, err := testTable().ValueCounts("referer")
	assert.Error(t, err)
}

func TestTopValues(t *testing.T) {
	top, err := testTable().TopValues(ColFullUserAgent, 1)
	assert.NoError(t, err)
	assert.Equal(t, []ValueCount{{"curl", 2}}, top)

	top, err = testTable().TopValues(ColRequestURL, 10)
	assert.NoError(t, err)
	assert.Equal(t, []ValueCount{{"/a", 2}, {"/b", 1}}, top)
}

func TestStatusDistribution(t *testing.T) {
	dist := testTable().StatusDistribution()
	assert.Equal(t, []ValueCount{{"200", 2}, {"-", 1}, {"404", 1}}, dist)
}

func TestFilterAndNumMatched(t *testing.T) {
	tab := testTable()
	assert.Equal(t, 3, tab.NumMatched())
	sub := tab.Filter(func(rec *LogRecord) bool { return rec.HasStatus(404) })
	assert.Equal(t, 1, sub.Len())
	assert.Equal(t, "10.0.0.1", sub.Records[0].ClientIP)
	assert.Equal(t, 4, tab.Len())
}
