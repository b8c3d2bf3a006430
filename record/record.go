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
	"time"
)

const (
	ColClientIP      = "client_ip"
	ColRequestURL    = "request_url"
	ColFullUserAgent = "full_user_agent"
)

// LogRecord is a normalized access log record. Values which
// could not be extracted or converted are nil. The set of fields
// is the same for all the records no matter whether the original
// line matched the expected format.
type LogRecord struct {

	// ClientIP is an extracted client address (not validated).
	// It is empty in case the line did not match.
	ClientIP string `json:"client_ip"`

	// RawAddress is the first token of the raw input line
	// and it is always present
	RawAddress string `json:"raw_address"`

	TimeRecord    *time.Time `json:"time_record"`
	HTTPMethod    *string    `json:"http_method"`
	RequestURL    *string    `json:"request_url"`
	HTTPVersion   *string    `json:"http_version"`
	ResponseCode  *int       `json:"response_code"`
	BytesSent     *int       `json:"bytes_sent"`
	Referer       *string    `json:"referer"`
	FullUserAgent string     `json:"full_user_agent"`
	Hostname      string     `json:"hostname"`
	URIPath       string     `json:"uri_path"`
}

// HasStatus tests whether the record has a known response code
// equal to one of the provided ones.
func (rec *LogRecord) HasStatus(codes ...int) bool {
	if rec.ResponseCode == nil {
		return false
	}
	for _, c := range codes {
		if *rec.ResponseCode == c {
			return true
		}
	}
	return false
}

// GetTime returns record time or zero time in case
// the time is missing
func (rec *LogRecord) GetTime() time.Time {
	if rec.TimeRecord == nil {
		return time.Time{}
	}
	return *rec.TimeRecord
}

// StringValue returns a string value of a column usable
// for value counting. Missing values are returned as empty strings.
func (rec *LogRecord) StringValue(column string) string {
	switch column {
	case ColClientIP:
		return rec.ClientIP
	case ColRequestURL:
		if rec.RequestURL != nil {
			return *rec.RequestURL
		}
	case ColFullUserAgent:
		return rec.FullUserAgent
	}
	return ""
}
