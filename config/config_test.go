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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConf(t *testing.T, data string) string {
	path := filepath.Join(t.TempDir(), "conf.json")
	assert.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestLoadAndValidateDefaults(t *testing.T) {
	conf, err := Load(writeConf(t, `{"inputPath": "/var/log/access.csv"}`))
	assert.NoError(t, err)
	assert.NoError(t, Validate(conf))
	assert.Equal(t, "/var/log/access.csv", conf.InputPath)
	assert.Equal(t, DefaultOutputDir, conf.OutputDir)
	assert.Equal(t, DefaultTopN, conf.TopN)
	assert.Equal(t, 10, conf.Detection.GetBruteForceThreshold())
	assert.Equal(t, 15, conf.Detection.GetScannerThreshold())
	assert.Equal(t, DefaultTimeZone, conf.TimeZone)
}

func TestLoadDetectionOverrides(t *testing.T) {
	conf, err := Load(writeConf(t, `{
		"detection": {
			"bruteForceThreshold": 3,
			"scannerThreshold": 100,
			"toolSignatures": ["masscan"]
		},
		"timeZone": "Europe/Prague"
	}`))
	assert.NoError(t, err)
	assert.NoError(t, Validate(conf))
	assert.Equal(t, 3, conf.Detection.GetBruteForceThreshold())
	assert.Equal(t, 100, conf.Detection.GetScannerThreshold())
	assert.Equal(t, []string{"masscan"}, conf.Detection.ToolSignatures)
	assert.Equal(t, "Europe/Prague", conf.TimezoneLocation().String())
}

func TestValidateMissingGeoIPFile(t *testing.T) {
	conf := &Main{GeoIPDbPath: filepath.Join(t.TempDir(), "missing.mmdb")}
	assert.Error(t, Validate(conf))
}

func TestValidateInvalidTimezone(t *testing.T) {
	conf := &Main{TimeZone: "Mars/Olympus"}
	assert.Error(t, Validate(conf))
}

func TestLoadInvalidJSON(t *testing.T) {
	_, err := Load(writeConf(t, `{"inputPath": `))
	assert.Error(t, err)
}

func TestSetupLoggingInvalidLevel(t *testing.T) {
	_, err := SetupLogging("", "chatty")
	assert.Error(t, err)
}

func TestLoadZeroBruteForceThreshold(t *testing.T) {
	conf, err := Load(writeConf(t, `{"detection": {"bruteForceThreshold": 0}}`))
	assert.NoError(t, err)
	assert.NoError(t, Validate(conf))
	assert.Equal(t, 0, conf.Detection.GetBruteForceThreshold())
	assert.Equal(t, 15, conf.Detection.GetScannerThreshold())
}
