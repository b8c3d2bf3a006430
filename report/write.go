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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"logsentry/record"

	"github.com/rs/zerolog/log"
)

const (
	timeFormat = time.RFC3339

	SummaryTextFile        = "summary.txt"
	SummaryJSONFile        = "summary.json"
	BruteForceFile         = "brute_force.csv"
	ScannersFile           = "scanners.csv"
	MaliciousAgentsFile    = "malicious_agents.csv"
	RuleMatchesFile        = "rule_matches.csv"
	RegularClientsFile     = "regular_clients.csv"
	StatusDistributionFile = "status_distribution.csv"
	IPDistributionFile     = "ip_distribution.csv"
)

type reportFile struct {
	name string
	fn   func(w io.Writer) error
}

func writeFile(path string, fn func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report file %s: %w", path, err)
	}
	return f.Close()
}

// WriteAll writes all the report files into the `dir` directory
// (which is created if needed).
func WriteAll(dir string, s *Summary, tab *record.Table) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	files := []reportFile{
		{SummaryTextFile, func(w io.Writer) error { return WriteText(w, s) }},
		{SummaryJSONFile, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		}},
		{BruteForceFile, func(w io.Writer) error { return WriteDetectionCSV(w, s.BruteForce) }},
		{ScannersFile, func(w io.Writer) error { return WriteDetectionCSV(w, s.Scanners) }},
		{MaliciousAgentsFile, func(w io.Writer) error { return WriteRecordsCSV(w, s.MaliciousAgents) }},
		{StatusDistributionFile, func(w io.Writer) error {
			return WriteValueCountsCSV(w, "response_code", tab.StatusDistribution())
		}},
		{IPDistributionFile, func(w io.Writer) error {
			return WriteValueCountsCSV(w, record.ColClientIP, tab.IPDistribution())
		}},
	}
	if s.RuleMatches != nil {
		files = append(files, reportFile{RuleMatchesFile, func(w io.Writer) error { return WriteRecordsCSV(w, s.RuleMatches) }})
	}
	if s.RegularClients != nil {
		files = append(files, reportFile{RegularClientsFile, func(w io.Writer) error {
			return WriteRegularClientsCSV(w, s.RegularClients)
		}})
	}
	for _, item := range files {
		if err := writeFile(filepath.Join(dir, item.name), item.fn); err != nil {
			return err
		}
	}
	log.Info().Str("dir", dir).Int("numFiles", len(files)).Msg("report written")
	return nil
}
