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

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogging sets global zerolog level and output. With empty
// logPath, a human readable output to stderr is used. Otherwise
// JSON lines are appended to the file which is returned so it can
// be closed at the end of the run.
func SetupLogging(logPath, logLevel string) (*os.File, error) {
	lvl := zerolog.InfoLevel
	if logLevel != "" {
		var err error
		lvl, err = zerolog.ParseLevel(logLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid logLevel %s: %w", logLevel, err)
		}
	}
	zerolog.SetGlobalLevel(lvl)
	if logPath != "" {
		logf, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize log file %s: %w", logPath, err)
		}
		log.Logger = zerolog.New(logf).With().Timestamp().Logger()
		return logf, nil
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	return nil, nil
}
