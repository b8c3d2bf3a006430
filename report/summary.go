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
	"time"

	"logsentry/analysis"
	"logsentry/botwatch"
	"logsentry/clustering"
	"logsentry/geodata"
	"logsentry/load"
	"logsentry/record"

	"github.com/google/uuid"
)

// Summary contains everything a single batch run found out
// about the processed access log.
type Summary struct {
	RunID           string                   `json:"runId"`
	Created         time.Time                `json:"created"`
	InputPath       string                   `json:"inputPath"`
	NumRead         int                      `json:"numRead"`
	NumDropped      int                      `json:"numDropped"`
	NumUnmatched    int                      `json:"numUnmatched"`
	NumRecords      int                      `json:"numRecords"`
	TopClientIPs    []record.ValueCount      `json:"topClientIps"`
	TopRequestURLs  []record.ValueCount      `json:"topRequestUrls"`
	TopUserAgents   []record.ValueCount      `json:"topUserAgents"`
	BruteForce      analysis.DetectionResult `json:"bruteForce"`
	Scanners        analysis.DetectionResult `json:"scanners"`
	MaliciousAgents []*record.LogRecord      `json:"maliciousAgents"`
	RuleMatches     []*record.LogRecord      `json:"ruleMatches,omitempty"`
	Outliers        analysis.OutlierReport   `json:"outliers"`
	RegularClients  []botwatch.IPStats       `json:"regularClients,omitempty"`
	Bursts          []clustering.Burst       `json:"bursts,omitempty"`
	Locations       []geodata.Location       `json:"locations,omitempty"`
}

// FlaggedIPs returns unique IPs reported by the brute-force
// and scanner detectors, by the outlier search and by the regular
// client search (in this order).
func (s *Summary) FlaggedIPs() []string {
	ans := make([]string, 0, len(s.BruteForce)+len(s.Scanners))
	used := make(map[string]bool)
	add := func(ip string) {
		if !used[ip] {
			used[ip] = true
			ans = append(ans, ip)
		}
	}
	for _, ip := range s.BruteForce.IPs() {
		add(ip)
	}
	for _, ip := range s.Scanners.IPs() {
		add(ip)
	}
	for _, item := range s.Outliers.Items {
		add(item.IP)
	}
	for _, item := range s.RegularClients {
		add(item.IP)
	}
	return ans
}

// HasFindings tests whether any of the detectors reported something
func (s *Summary) HasFindings() bool {
	return len(s.BruteForce) > 0 || len(s.Scanners) > 0 || len(s.MaliciousAgents) > 0 ||
		len(s.RuleMatches) > 0 || len(s.Outliers.Items) > 0 || len(s.RegularClients) > 0
}

// NewSummary creates a summary with the aggregate part (counts
// and top-N tables) filled in. Detector outputs are expected
// to be attached by the caller.
func NewSummary(
	inputPath string,
	tab *record.Table,
	stats load.Stats,
	topN int,
	tz *time.Location,
) (*Summary, error) {
	ans := &Summary{
		RunID:        uuid.New().String(),
		Created:      time.Now().In(tz),
		InputPath:    inputPath,
		NumRead:      stats.NumRead,
		NumDropped:   stats.NumDropped,
		NumUnmatched: stats.NumUnmatched,
		NumRecords:   tab.Len(),
	}
	var err error
	ans.TopClientIPs, err = tab.TopValues(record.ColClientIP, topN)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary: %w", err)
	}
	ans.TopRequestURLs, err = tab.TopValues(record.ColRequestURL, topN)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary: %w", err)
	}
	ans.TopUserAgents, err = tab.TopValues(record.ColFullUserAgent, topN)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary: %w", err)
	}
	return ans, nil
}
