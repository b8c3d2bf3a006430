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

// Package rawline reads comma-delimited access log exports where each
// line has the form `address,body,agent`. The outer fields never contain
// the delimiter while the body may contain any number of them.
package rawline

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	Delimiter = ","

	// replacementChar is used instead of byte sequences which are not valid UTF-8
	replacementChar = "\uFFFD"
)

// Line is a raw input line split into its three logical parts.
type Line struct {
	Address string
	Body    string
	Agent   string
}

// CombinedLine joins the address and the body back into a line
// resembling the original combined log format (minus the user agent).
func (line Line) CombinedLine() string {
	return line.Address + " " + line.Body
}

// Stats provides basic info about a finished reading.
type Stats struct {
	NumRead    int
	NumDropped int
}

// Split splits a raw line into its parts. Lines with less than
// two tokens are not usable and the function returns false for them.
//
// examples:
//
//	1.2.3.4,body,agent       => {1.2.3.4, body, agent}
//	1.2.3.4,body             => {1.2.3.4, body, body}
//	1.2.3.4,a,b,c,agent      => {1.2.3.4, "a,b,c", agent}
func Split(s string) (Line, bool) {
	tokens := strings.Split(s, Delimiter)
	if len(tokens) < 2 {
		return Line{}, false
	}
	ans := Line{
		Address: tokens[0],
		Agent:   tokens[len(tokens)-1],
	}
	if len(tokens) == 2 {
		ans.Body = tokens[1]

	} else {
		ans.Body = strings.Join(tokens[1:len(tokens)-1], Delimiter)
	}
	return ans, true
}

// Read reads all the lines provided by the reader. Lines with too few
// tokens are silently dropped. Invalid UTF-8 sequences are replaced
// by the Unicode replacement character. The only returned error is
// an I/O error of the underlying reader.
func Read(r io.Reader) ([]Line, Stats, error) {
	var stats Stats
	ans := make([]Line, 0, 1000)
	rd := bufio.NewReader(r)
	for {
		s, err := rd.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return ans, stats, err
		}
		if len(s) > 0 {
			stats.NumRead++
			s = strings.TrimRight(s, "\r\n")
			line, ok := Split(strings.ToValidUTF8(s, replacementChar))
			if ok {
				ans = append(ans, line)

			} else {
				stats.NumDropped++
				log.Debug().Int("lineNum", stats.NumRead).Msg("dropping line with too few tokens")
			}
		}
		if err != nil { // EOF
			break
		}
	}
	return ans, stats, nil
}
