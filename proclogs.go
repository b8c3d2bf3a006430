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

package main

import (
	"fmt"

	"logsentry/analysis"
	"logsentry/botwatch"
	"logsentry/clustering"
	"logsentry/config"
	"logsentry/geodata"
	"logsentry/record"
	"logsentry/report"
	"logsentry/scripting"

	"github.com/rs/zerolog/log"
)

type ProcessOptions struct {
	inputPath string
	dryRun    bool
}

// newAgentDetector creates a user agent based detector with signatures
// from the configuration extended by the ones defined in the custom
// rule script (if any).
func newAgentDetector(conf *config.Main, rule *scripting.Rule) (*analysis.AgentDetector, error) {
	signatures := conf.Detection.ToolSignatures
	if len(signatures) == 0 {
		signatures = analysis.DefaultToolSignatures
	}
	if rule != nil {
		extra, err := rule.ExtraSignatures()
		if err != nil {
			return nil, err
		}
		if len(extra) > 0 {
			log.Info().Strs("signatures", extra).Msg("using additional tool signatures from script")
			signatures = append(append([]string{}, signatures...), extra...)
		}
	}
	return analysis.NewAgentDetector(signatures), nil
}

// runDetection applies all the configured detectors to the table
// and stores their results to the summary.
func runDetection(conf *config.Main, tab *record.Table, summary *report.Summary) error {
	var rule *scripting.Rule
	if conf.ScriptPath != "" {
		var err error
		rule, err = scripting.LoadRule(conf.ScriptPath)
		if err != nil {
			return fmt.Errorf("failed to load custom rule: %w", err)
		}
		defer rule.Close()
	}
	detector, err := newAgentDetector(conf, rule)
	if err != nil {
		return fmt.Errorf("failed to prepare agent detector: %w", err)
	}

	summary.BruteForce = analysis.BruteForce(tab, conf.Detection.GetBruteForceThreshold())
	summary.Scanners = analysis.Scanners(tab, conf.Detection.GetScannerThreshold())
	summary.MaliciousAgents = detector.Detect(tab)
	if rule != nil {
		summary.RuleMatches = rule.Detect(tab)
	}
	summary.Outliers, err = analysis.Outliers(tab, conf.Detection)
	if err != nil {
		return fmt.Errorf("failed to search for outliers: %w", err)
	}
	if conf.Detection.BotWatch != nil {
		summary.RegularClients = botwatch.Analyze(tab, *conf.Detection.BotWatch)
	}
	if conf.Detection.ClusteringDBScan != nil {
		summary.Bursts = clustering.Bursts(tab, summary.FlaggedIPs(), conf.Detection.ClusteringDBScan)
	}
	log.Info().
		Int("bruteForce", len(summary.BruteForce)).
		Int("scanners", len(summary.Scanners)).
		Int("maliciousAgents", len(summary.MaliciousAgents)).
		Int("outliers", len(summary.Outliers.Items)).
		Int("regularClients", len(summary.RegularClients)).
		Msg("detection finished")
	return nil
}

func openLocator(conf *config.Main) (geodata.Locator, error) {
	if !conf.HasGeoIP() {
		return geodata.NullLocator{}, nil
	}
	return geodata.NewGeoIPLocator(conf.GeoIPDbPath)
}

// applyLocations attaches geo information for all the flagged IPs
func applyLocations(conf *config.Main, summary *report.Summary) error {
	locator, err := openLocator(conf)
	if err != nil {
		return fmt.Errorf("failed to open GeoIP database: %w", err)
	}
	defer locator.Close()
	if conf.HasGeoIP() {
		summary.Locations = geodata.LocateAll(locator, summary.FlaggedIPs())
	}
	return nil
}
