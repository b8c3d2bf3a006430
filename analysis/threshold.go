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

package analysis

import (
	"logsentry/load"
	"logsentry/record"

	"github.com/rs/zerolog/log"
)

var authFailureCodes = []int{401, 403}

// BruteForce searches for IPs with more than `threshold`
// authentication failures (401, 403).
func BruteForce(tab *record.Table, threshold int) DetectionResult {
	ans := aboveThreshold(
		countByIP(tab, func(rec *record.LogRecord) bool {
			return rec.HasStatus(authFailureCodes...)
		}),
		threshold,
	)
	log.Debug().
		Int("threshold", threshold).
		Int("numFlagged", len(ans)).
		Msg("finished brute-force detection")
	return ans
}

// Scanners searches for IPs with more than `threshold` requests
// no matter what the response status was.
func Scanners(tab *record.Table, threshold int) DetectionResult {
	ans := aboveThreshold(
		countByIP(tab, func(rec *record.LogRecord) bool { return true }),
		threshold,
	)
	log.Debug().
		Int("threshold", threshold).
		Int("numFlagged", len(ans)).
		Msg("finished scanner detection")
	return ans
}

// BruteForceDefault runs BruteForce with the default threshold
func BruteForceDefault(tab *record.Table) DetectionResult {
	return BruteForce(tab, load.DefaultBruteForceThreshold)
}

// ScannersDefault runs Scanners with the default threshold
func ScannersDefault(tab *record.Table) DetectionResult {
	return Scanners(tab, load.DefaultScannerThreshold)
}
