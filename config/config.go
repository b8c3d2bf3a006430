// Copyright 2017 Tomas Machalek <tomas.machalek@gmail.com>
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
	"encoding/json"
	"fmt"
	"time"

	"logsentry/common"
	"logsentry/load"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/czcorpus/cnc-gokit/mail"
	conomiClient "github.com/czcorpus/conomi/client"
	"github.com/rs/zerolog/log"
)

const (
	ActionBatch   = "batch"
	ActionHelp    = "help"
	ActionVersion = "version"

	DefaultTimeZone  = "UTC"
	DefaultInputPath = "access.log"
	DefaultOutputDir = "logsentry-report"
	DefaultTopN      = 10
)

// Main describes logsentry's configuration
type Main struct {
	InputPath          string                         `json:"inputPath"`
	OutputDir          string                         `json:"outputDir"`
	TopN               int                            `json:"topN"`
	GeoIPDbPath        string                         `json:"geoIpDbPath"`
	ScriptPath         string                         `json:"scriptPath"`
	LogPath            string                         `json:"logPath"`
	LogLevel           string                         `json:"logLevel"`
	Detection          *load.DetectionConf            `json:"detection"`
	EmailNotification  *mail.NotificationConf         `json:"emailNotification"`
	ConomiNotification *conomiClient.ConomiClientConf `json:"conomiNotification"`
	TimeZone           string                         `json:"timeZone"`
}

func (c *Main) TimezoneLocation() *time.Location {
	// we can ignore the error here as we always call Validate()
	// first (which also tries to load the location and report possible
	// error)
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// HasGeoIP tests whether a GeoIP database is configured
func (c *Main) HasGeoIP() bool {
	return c.GeoIPDbPath != ""
}

func validateOptionalFile(path, name string) error {
	if path == "" {
		return nil
	}
	isf, err := fs.IsFile(path)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", name, err)
	}
	if !isf {
		return fmt.Errorf("invalid %s: '%s'", name, path)
	}
	return nil
}

// Validate checks for some essential config properties
// and fills in default values where possible.
func Validate(conf *Main) error {
	if conf.InputPath == "" {
		conf.InputPath = DefaultInputPath
		log.Warn().Str("inputPath", conf.InputPath).Msg("inputPath not specified, using default")
	}
	if conf.OutputDir == "" {
		conf.OutputDir = DefaultOutputDir
		log.Warn().Str("outputDir", conf.OutputDir).Msg("outputDir not specified, using default")
	}
	if conf.TopN < 0 {
		return fmt.Errorf("invalid topN value %d", conf.TopN)

	} else if conf.TopN == 0 {
		conf.TopN = DefaultTopN
	}
	if err := validateOptionalFile(conf.GeoIPDbPath, "geoIpDbPath"); err != nil {
		return err
	}
	if err := validateOptionalFile(conf.ScriptPath, "scriptPath"); err != nil {
		return err
	}
	if conf.Detection == nil {
		conf.Detection = &load.DetectionConf{}
	}
	conf.Detection.ApplyDefaults()
	if err := conf.Detection.Validate(); err != nil {
		return err
	}
	if conf.EmailNotification != nil && conf.ConomiNotification != nil {
		return fmt.Errorf("either emailNotification or conomiNotification can be configured")
	}
	if conf.TimeZone == "" {
		conf.TimeZone = DefaultTimeZone
		log.Warn().Str("timezone", conf.TimeZone).
			Msg("timeZone not specified, using default")
	}
	if _, err := time.LoadLocation(conf.TimeZone); err != nil {
		return fmt.Errorf("invalid timeZone %s: %w", conf.TimeZone, err)
	}
	return nil
}

// Load loads main configuration (either from a local fs or via http(s))
func Load(path string) (*Main, error) {
	rawData, err := common.LoadSupportedResource(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	var conf Main
	err = json.Unmarshal(rawData, &conf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &conf, nil
}
