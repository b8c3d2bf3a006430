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
	"fmt"
	"io"
	"strings"

	"logsentry/analysis"
	"logsentry/record"

	"github.com/czcorpus/cnc-gokit/datetime"
)

type textWriter struct {
	w   io.Writer
	err error
}

func (tw *textWriter) printf(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, format, args...)
}

func (tw *textWriter) heading(title string) {
	tw.printf("\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

func (tw *textWriter) valueCounts(items []record.ValueCount) {
	if len(items) == 0 {
		tw.printf("  (none)\n")
		return
	}
	for _, item := range items {
		tw.printf("  %8d  %s\n", item.Count, item.Value)
	}
}

func (tw *textWriter) detection(items analysis.DetectionResult) {
	if len(items) == 0 {
		tw.printf("  (none)\n")
		return
	}
	for _, item := range items {
		tw.printf("  %8d  %s\n", item.Count, item.IP)
	}
}

func (tw *textWriter) records(recs []*record.LogRecord) {
	if len(recs) == 0 {
		tw.printf("  (none)\n")
		return
	}
	for _, rec := range recs {
		ip := rec.ClientIP
		if ip == "" {
			ip = rec.RawAddress
		}
		url := "-"
		if rec.RequestURL != nil {
			url = *rec.RequestURL
		}
		tw.printf("  %-18s %s  [%s]\n", ip, url, rec.FullUserAgent)
	}
}

// WriteText writes a human readable summary of a batch run
func WriteText(w io.Writer, s *Summary) error {
	tw := &textWriter{w: w}
	tw.printf("logsentry report %s\n", s.RunID)
	tw.printf("created: %v\n", datetime.FormatDatetime(s.Created))
	tw.printf("input: %s\n", s.InputPath)
	tw.printf(
		"lines read: %d, dropped: %d, records: %d (unmatched: %d)\n",
		s.NumRead, s.NumDropped, s.NumRecords, s.NumUnmatched,
	)

	tw.heading("Top client IPs")
	tw.valueCounts(s.TopClientIPs)
	tw.heading("Top requested URLs")
	tw.valueCounts(s.TopRequestURLs)
	tw.heading("Top user agents")
	tw.valueCounts(s.TopUserAgents)

	tw.heading("Possible brute-force attempts (401/403)")
	tw.detection(s.BruteForce)
	tw.heading("Possible scanners")
	tw.detection(s.Scanners)
	tw.heading("Requests from known attack tools")
	tw.records(s.MaliciousAgents)
	if s.RuleMatches != nil {
		tw.heading("Requests matched by custom rule")
		tw.records(s.RuleMatches)
	}

	tw.heading(fmt.Sprintf("IP outliers (threshold: %d, IPs: %d)", s.Outliers.Threshold, s.Outliers.NumIPs))
	if len(s.Outliers.Items) == 0 {
		tw.printf("  (none)\n")
	}
	for _, item := range s.Outliers.Items {
		var known string
		if item.Known {
			known = " (blocklisted)"
		}
		tw.printf("  %8d  %s%s\n", item.Count, item.IP, known)
	}

	if len(s.RegularClients) > 0 {
		tw.heading("Clients with regular request intervals")
		for _, item := range s.RegularClients {
			tw.printf(
				"  %-18s %6d intervals, mean %.2fs, RSD %.3f (%s - %s)\n",
				item.IP, item.Count, item.Mean, item.RSD(), item.FirstRequest, item.LastRequest,
			)
		}
	}
	if len(s.Bursts) > 0 {
		tw.heading("Request bursts")
		for _, b := range s.Bursts {
			tw.printf(
				"  %-18s %6d requests in %v (since %v)\n",
				b.IP, b.Size, b.Duration(), datetime.FormatDatetime(b.Start),
			)
		}
	}
	if len(s.Locations) > 0 {
		tw.heading("Locations of flagged IPs")
		for _, loc := range s.Locations {
			tw.printf("  %-18s %s (%s)\n", loc.IP, loc.CountryName, loc.CountryCode)
		}
	}
	return tw.err
}
