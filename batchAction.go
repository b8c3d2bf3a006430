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
	"os"
	"strconv"

	"logsentry/analysis"
	"logsentry/config"
	"logsentry/load"
	"logsentry/notifications"
	"logsentry/report"

	"github.com/rs/zerolog/log"
)

func detectionTable(title string, items analysis.DetectionResult) string {
	tbl := new(notifications.Table).Init("border-collapse: collapse")
	tbody := tbl.AddBody()
	tbody.AddTR().AddTH(title, "text-align: left").AddTH("requests", "text-align: right").Close()
	for _, item := range items {
		tbody.AddTR().
			AddTD(item.IP, "padding-right: 1em").
			AddTD(strconv.Itoa(item.Count), "text-align: right").
			Close()
	}
	tbody.Close().Close()
	return tbl.String()
}

func sendNotification(conf *config.Main, summary *report.Summary) error {
	notifier, err := notifications.NewNotifier(
		conf.EmailNotification, conf.ConomiNotification, conf.TimezoneLocation())
	if err != nil {
		return fmt.Errorf("failed to create notifier: %w", err)
	}
	paragraphs := []string{
		fmt.Sprintf(
			"<p>Processed <strong>%d</strong> records from <code>%s</code>.</p>",
			summary.NumRecords, summary.InputPath,
		),
	}
	if len(summary.BruteForce) > 0 {
		paragraphs = append(paragraphs, detectionTable("possible brute-force (IP)", summary.BruteForce))
	}
	if len(summary.Scanners) > 0 {
		paragraphs = append(paragraphs, detectionTable("possible scanner (IP)", summary.Scanners))
	}
	if len(summary.MaliciousAgents) > 0 {
		paragraphs = append(
			paragraphs,
			fmt.Sprintf(
				"<p>Found <strong>%d</strong> requests from known attack tools.</p>",
				len(summary.MaliciousAgents),
			),
		)
	}
	return notifier.SendNotification(
		fmt.Sprintf("Logsentry: suspicious clients found in %s", summary.InputPath),
		map[string]any{
			"runId":           summary.RunID,
			"inputPath":       summary.InputPath,
			"bruteForce":      len(summary.BruteForce),
			"scanners":        len(summary.Scanners),
			"maliciousAgents": len(summary.MaliciousAgents),
			"outliers":        len(summary.Outliers.Items),
		},
		paragraphs...,
	)
}

func runBatchAction(conf *config.Main, options *ProcessOptions) error {
	tab, stats, err := load.ProcessFile(conf.InputPath)
	if err != nil {
		return err
	}
	summary, err := report.NewSummary(conf.InputPath, tab, stats, conf.TopN, conf.TimezoneLocation())
	if err != nil {
		return err
	}
	if err := runDetection(conf, tab, summary); err != nil {
		return err
	}
	if err := applyLocations(conf, summary); err != nil {
		return err
	}

	if options.dryRun {
		log.Warn().Msg("using dry-run mode, output goes to stdout")
		return report.WriteText(os.Stdout, summary)
	}
	if err := report.WriteAll(conf.OutputDir, summary, tab); err != nil {
		return err
	}
	if summary.HasFindings() {
		if err := sendNotification(conf, summary); err != nil {
			log.Error().Err(err).Msg("failed to send notification")
		}
	}
	return nil
}
