// Copyright 2019 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2019 Institute of the Czech National Corpus,
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
	"fmt"
	"regexp"

	"github.com/rs/zerolog/log"
)

// combinedLinePattern describes a combined log format line
// without the trailing user agent. Status and byte count are
// matched as raw tokens; their conversion happens later.
var combinedLinePattern = regexp.MustCompile(
	`^(\S+) (\S+) (\S+) \[([^\]]*)\] "(\S+) (\S+) (\S+)" (\S+) (\S+) "(.*?)"`)

// Fields contains raw (unconverted) values of a matching line
type Fields struct {
	ClientIP     string
	TimeRecord   string
	HTTPMethod   string
	RequestURL   string
	HTTPVersion  string
	ResponseCode string
	BytesSent    string
	Referer      string
}

// Extraction is a result of an attempt to parse a line.
// In case Matched is false, all the fields must be considered
// missing.
type Extraction struct {
	Matched bool
	Fields  Fields
}

// Unmatched returns an extraction with all the fields missing
func Unmatched() Extraction {
	return Extraction{}
}

// LineParser extracts fields from reconstructed access log lines.
type LineParser struct{}

func (lp *LineParser) match(s string) (ans Extraction, err error) {
	defer func() {
		if r := recover(); r != nil {
			ans = Unmatched()
			err = fmt.Errorf("failed to match line: %v", r)
		}
	}()
	srch := combinedLinePattern.FindStringSubmatch(s)
	if srch == nil {
		return Unmatched(), nil
	}
	ans.Matched = true
	ans.Fields = Fields{
		ClientIP:     srch[1],
		TimeRecord:   srch[4],
		HTTPMethod:   srch[5],
		RequestURL:   srch[6],
		HTTPVersion:  srch[7],
		ResponseCode: srch[8],
		BytesSent:    srch[9],
		Referer:      srch[10],
	}
	return ans, nil
}

// ParseLine parses a line reconstructed by the rawline package.
// It never fails - a line which does not match is returned as
// an unmatched extraction.
//
// data example:
//
//	203.0.113.7 - admin [16/Sep/2023:08:24:05 +0200] "POST /wp-login.php HTTP/1.1" 401 512 "-"
//
// produces client IP, time, method, URL, HTTP version, status,
// bytes and referer (the two identity fields are ignored).
func (lp *LineParser) ParseLine(s string) Extraction {
	ans, err := lp.match(s)
	if err != nil {
		log.Warn().Err(err).Msg("recovered from line extraction failure")
	}
	return ans
}
