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

package load

import (
	"errors"
	"fmt"
	"io"
	"os"

	"logsentry/conversion"
	"logsentry/load/accesslog"
	"logsentry/load/rawline"
	"logsentry/record"

	"github.com/rs/zerolog/log"
)

var (
	ErrInputNotFound = errors.New("input file not found")
)

// Stats describes a finished loading
type Stats struct {
	rawline.Stats
	NumUnmatched int
}

// ProcessLines extracts and normalizes already split lines. Each line
// produces exactly one record - lines not matching the access log
// format produce records with all the extracted fields missing.
func ProcessLines(lines []rawline.Line) (*record.Table, int) {
	parser := accesslog.LineParser{}
	tab := &record.Table{Records: make([]*record.LogRecord, len(lines))}
	var numUnmatched int
	for i, line := range lines {
		ext := parser.ParseLine(line.CombinedLine())
		if !ext.Matched {
			numUnmatched++
		}
		tab.Records[i] = conversion.Normalize(line, ext)
	}
	return tab, numUnmatched
}

// Process reads and processes all the lines from r.
func Process(r io.Reader) (*record.Table, Stats, error) {
	var stats Stats
	lines, rstats, err := rawline.Read(r)
	stats.Stats = rstats
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read input: %w", err)
	}
	tab, numUnmatched := ProcessLines(lines)
	stats.NumUnmatched = numUnmatched
	return tab, stats, nil
}

// ProcessFile reads a whole log file and returns a table of normalized
// records. Failing to open or read the file is the only error the function
// reports. In case the file does not exist, the returned error wraps
// ErrInputNotFound.
func ProcessFile(path string) (*record.Table, Stats, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, Stats{}, fmt.Errorf("%w: %s", ErrInputNotFound, path)

	} else if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to open input file %s: %w", path, err)
	}
	defer f.Close()
	finfo, err := f.Stat()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to open input file %s: %w", path, err)
	}
	if !finfo.Mode().IsRegular() {
		return nil, Stats{}, fmt.Errorf("input path %s is not a regular file", path)
	}
	tab, stats, err := Process(f)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to process %s: %w", path, err)
	}
	log.Info().
		Str("file", path).
		Int("numRead", stats.NumRead).
		Int("numDropped", stats.NumDropped).
		Int("numUnmatched", stats.NumUnmatched).
		Int("numRecords", tab.Len()).
		Msg("loaded access log")
	return tab, stats, nil
}
