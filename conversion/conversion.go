// Copyright 2017 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2017 Institute of the Czech National Corpus,
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

// Package conversion turns raw extracted fields into typed
// values. A failed conversion of a field never affects other
// fields - the value is just considered missing.
package conversion

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"logsentry/load/accesslog"
	"logsentry/load/rawline"
	"logsentry/record"
)

const (
	// AccessLogTimeLayout is the time format used by combined log format
	// (e.g. 10/Oct/2023:13:55:36 -0700)
	AccessLogTimeLayout = "02/Jan/2006:15:04:05 -0700"

	syntheticScheme = "http://"
)

var schemePrefix = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*://`)

// ParseInt converts a raw value into an integer.
// Missing or non-numeric values produce nil.
func ParseInt(v *string) *int {
	if v == nil {
		return nil
	}
	ans, err := strconv.Atoi(*v)
	if err != nil {
		return nil
	}
	return &ans
}

// ParseTime converts access log datetime into time.Time.
// Missing or unparseable values produce nil.
func ParseTime(v *string) *time.Time {
	if v == nil {
		return nil
	}
	t, err := time.Parse(AccessLogTimeLayout, *v)
	if err != nil {
		return nil
	}
	return &t
}

// splitRawURL decomposes a URL with a scheme without any decoding
// or validation. It is used for URLs Go's parser rejects (e.g. due
// to invalid percent escapes) so their path is not lost.
func splitRawURL(raw string) (netloc, path string) {
	if i := strings.Index(raw, "://"); i >= 0 {
		raw = raw[i+3:]
	}
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		return raw[:i], raw[i:]
	}
	return raw, ""
}

// DecomposeURL extracts network location and path from a request URL.
// Relative URLs (without scheme) are decomposed as if they had one
// so e.g. `/index.html?x=1` produces an empty host and `/index.html` path.
// The network location includes user info and port (if present) and
// the path is kept in its escaped form as it was requested. URLs Go
// cannot parse are split on the first `/`, `?` and `#`. For a missing
// URL, empty values are returned.
func DecomposeURL(v *string) (hostname, path string) {
	if v == nil {
		return
	}
	raw := *v
	if !schemePrefix.MatchString(raw) {
		raw = syntheticScheme + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return splitRawURL(raw)
	}
	hostname = parsed.Host
	if parsed.User != nil {
		hostname = parsed.User.String() + "@" + hostname
	}
	return hostname, parsed.EscapedPath()
}

func optString(matched bool, v string) *string {
	if !matched {
		return nil
	}
	return &v
}

// Normalize creates a typed record out of a raw line and its
// field extraction. Unmatched extractions produce a record with
// all the extracted fields missing.
func Normalize(line rawline.Line, ext accesslog.Extraction) *record.LogRecord {
	ans := &record.LogRecord{
		RawAddress:    line.Address,
		FullUserAgent: line.Agent,
		HTTPMethod:    optString(ext.Matched, ext.Fields.HTTPMethod),
		RequestURL:    optString(ext.Matched, ext.Fields.RequestURL),
		HTTPVersion:   optString(ext.Matched, ext.Fields.HTTPVersion),
		Referer:       optString(ext.Matched, ext.Fields.Referer),
	}
	if ext.Matched {
		ans.ClientIP = ext.Fields.ClientIP
	}
	ans.ResponseCode = ParseInt(optString(ext.Matched, ext.Fields.ResponseCode))
	ans.BytesSent = ParseInt(optString(ext.Matched, ext.Fields.BytesSent))
	ans.TimeRecord = ParseTime(optString(ext.Matched, ext.Fields.TimeRecord))
	ans.Hostname, ans.URIPath = DecomposeURL(ans.RequestURL)
	return ans
}
