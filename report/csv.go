// Copyright 2026 Tomas Machalek <tomas.machalek@gmail.com>
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

package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"logsentry/analysis"
	"logsentry/botwatch"
	"logsentry/record"
)

func writeRows(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteDetectionCSV writes a detector output as `ip,count` rows
func WriteDetectionCSV(w io.Writer, items analysis.DetectionResult) error {
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = []string{item.IP, strconv.Itoa(item.Count)}
	}
	return writeRows(w, []string{"ip", "count"}, rows)
}

// WriteValueCountsCSV writes a distribution table with the
// provided name of the value column.
func WriteValueCountsCSV(w io.Writer, valueColumn string, items []record.ValueCount) error {
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = []string{item.Value, strconv.Itoa(item.Count)}
	}
	return writeRows(w, []string{valueColumn, "count"}, rows)
}

func optStr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// WriteRecordsCSV writes full records. Missing values are
// written as empty cells.
func WriteRecordsCSV(w io.Writer, recs []*record.LogRecord) error {
	header := []string{
		"client_ip", "raw_address", "time_record", "http_method", "request_url",
		"http_version", "response_code", "bytes_sent", "referer", "full_user_agent",
		"hostname", "uri_path",
	}
	rows := make([][]string, len(recs))
	for i, rec := range recs {
		var tm string
		if rec.TimeRecord != nil {
			tm = rec.TimeRecord.Format(timeFormat)
		}
		rows[i] = []string{
			rec.ClientIP,
			rec.RawAddress,
			tm,
			optStr(rec.HTTPMethod),
			optStr(rec.RequestURL),
			optStr(rec.HTTPVersion),
			optInt(rec.ResponseCode),
			optInt(rec.BytesSent),
			optStr(rec.Referer),
			rec.FullUserAgent,
			rec.Hostname,
			rec.URIPath,
		}
	}
	return writeRows(w, header, rows)
}

// WriteRegularClientsCSV writes statistics of clients with regular
// request intervals
func WriteRegularClientsCSV(w io.Writer, items []botwatch.IPStats) error {
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = []string{
			item.IP,
			strconv.Itoa(item.Count),
			strconv.FormatFloat(item.Mean, 'f', 3, 64),
			strconv.FormatFloat(item.Stdev, 'f', 3, 64),
			item.FirstRequest,
			item.LastRequest,
		}
	}
	return writeRows(
		w, []string{"ip", "intervals", "mean_secs", "stdev_secs", "first_request", "last_request"}, rows)
}
