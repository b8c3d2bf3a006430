// Copyright 2021 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2021 Institute of the Czech National Corpus,
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

package accesslog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	entry1 = `10.0.3.50 - janedoe [17/May/2021:06:36:36 +0200] "GET /slovo-v-kostce/search/cs/za%C5%A1kolit?pos=V&lemma=za%C5%A1kolit HTTP/2.0" 200 9218 "https://prirucka.ujc.cas.cz/"`
	entry2 = `10.1.1.15 - - [17/May/2021:08:00:17 +0200] "POST /login HTTP/1.1" 401 - "-"`
	entry3 = `10.1.1.15 - - [17/May/2021:08:00:17 +0200] "\x16\x03\x01" 400 0 "-"`
	entry4 = `10.1.1.16 - - [17/May/2021:08:00:17 +0200] "GET /a HTTP/1.1" 200 12 "https://x.test/?q=a b" "extra"`
)

func TestRandomEntry(t *testing.T) {
	parser := LineParser{}
	ext := parser.ParseLine(entry1)
	assert.True(t, ext.Matched)
	assert.Equal(t, "10.0.3.50", ext.Fields.ClientIP)
	assert.Equal(t, "17/May/2021:06:36:36 +0200", ext.Fields.TimeRecord)
	assert.Equal(t, "GET", ext.Fields.HTTPMethod)
	assert.Equal(t, "/slovo-v-kostce/search/cs/za%C5%A1kolit?pos=V&lemma=za%C5%A1kolit", ext.Fields.RequestURL)
	assert.Equal(t, "HTTP/2.0", ext.Fields.HTTPVersion)
	assert.Equal(t, "200", ext.Fields.ResponseCode)
	assert.Equal(t, "9218", ext.Fields.BytesSent)
	assert.Equal(t, "https://prirucka.ujc.cas.cz/", ext.Fields.Referer)
}

// TestNonNumericBytesStillMatch tests that a non-numeric byte count
// does not break the structural match (conversion is done later).
func TestNonNumericBytesStillMatch(t *testing.T) {
	parser := LineParser{}
	ext := parser.ParseLine(entry2)
	assert.True(t, ext.Matched)
	assert.Equal(t, "401", ext.Fields.ResponseCode)
	assert.Equal(t, "-", ext.Fields.BytesSent)
	assert.Equal(t, "-", ext.Fields.Referer)
}

func TestMalformedRequestLine(t *testing.T) {
	parser := LineParser{}
	ext := parser.ParseLine(entry3)
	assert.False(t, ext.Matched)
	assert.Equal(t, Fields{}, ext.Fields)
}

func TestRefererIsNonGreedy(t *testing.T) {
	parser := LineParser{}
	ext := parser.ParseLine(entry4)
	assert.True(t, ext.Matched)
	assert.Equal(t, "https://x.test/?q=a b", ext.Fields.Referer)
}

func TestGarbageDoesNotMatch(t *testing.T) {
	parser := LineParser{}
	for _, s := range []string{"", "not a log line", "1.2.3.4 - - [x] \"GET /\" 200 1 \"-\""} {
		ext := parser.ParseLine(s)
		assert.False(t, ext.Matched)
		assert.Equal(t, Unmatched(), ext)
	}
}
