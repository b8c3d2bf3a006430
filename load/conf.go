// Copyright 2023 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2023 Institute of the Czech National Corpus,
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

import "errors"

const (
	DefaultBruteForceThreshold = 10
	DefaultScannerThreshold    = 15
	DefaultIPOutlierCoeff      = 1.5
	DefaultIPOutlierMinFreq    = 50
)

type ClusteringDBScanConf struct {
	MinDensity int     `json:"minDensity"`
	Epsilon    float64 `json:"epsilon"`
}

// BotWatchConf defines parameters of the detector searching for
// dense and regular request activity which is typical for scripted
// clients.
type BotWatchConf struct {

	// WatchedTimeWindowSecs specifies a time interval during which IP activities
	// are evaluated. Each new record is considered along with older records at most
	// as old as specified by this property.
	WatchedTimeWindowSecs int `json:"watchedTimeWindowSecs"`

	// NumRequestsThreshold specifies how many requests must be present during
	// WatchedTimeWindowSecs to treat the series as "bot-like"
	NumRequestsThreshold int `json:"numRequestsThreshold"`

	// RSDThreshold is a relative standard deviation (aka Coefficient of variation)
	// threshold of subsequent request intervals considered as bot-like
	RSDThreshold float64 `json:"rsdThreshold"`
}

type DetectionConf struct {

	// BruteForceThreshold specifies how many authentication failures
	// (401, 403) from a single IP are still OK. Only IPs with more
	// failures are reported.
	BruteForceThreshold *int `json:"bruteForceThreshold"`

	// ScannerThreshold specifies max. number of requests (of any status)
	// from a single IP not reported as scanning.
	ScannerThreshold *int `json:"scannerThreshold"`

	// ToolSignatures overrides the default list of offensive tool
	// user agent fragments. Matching is case-insensitive.
	ToolSignatures []string `json:"toolSignatures"`

	// IPOutlierCoeff specifies how far from the Q3 must a value be
	// to be considered an outlier (the formula is `Q3 + ipOutlierCoeff * IQR`)
	IPOutlierCoeff *float64 `json:"ipOutlierCoeff"`

	// IPOutlierMinFreq specifies minimum number of requests for
	// an IP to be actually reported as an outlier. Because in case there
	// is small traffic, even legit IP requests may be evaluated as outliers.
	IPOutlierMinFreq *int `json:"ipOutlierMinFreq"`

	// BlocklistIP is just for "known" IPs reporting (i.e. there is no
	// actual blocking involved).
	BlocklistIP []string `json:"blocklistIp"`

	// ClusteringDBScan enables search for request bursts of flagged IPs
	ClusteringDBScan *ClusteringDBScanConf `json:"clusteringDbScan"`

	// BotWatch enables search for clients with regular request intervals
	BotWatch *BotWatchConf `json:"botWatch"`
}

// ApplyDefaults fills in missing values with defaults. Zero is
// a valid configured value (e.g. a zero bruteForceThreshold reports
// any IP with at least one failure).
func (dc *DetectionConf) ApplyDefaults() {
	if dc.BruteForceThreshold == nil {
		v := DefaultBruteForceThreshold
		dc.BruteForceThreshold = &v
	}
	if dc.ScannerThreshold == nil {
		v := DefaultScannerThreshold
		dc.ScannerThreshold = &v
	}
	if dc.IPOutlierCoeff == nil {
		v := DefaultIPOutlierCoeff
		dc.IPOutlierCoeff = &v
	}
	if dc.IPOutlierMinFreq == nil {
		v := DefaultIPOutlierMinFreq
		dc.IPOutlierMinFreq = &v
	}
}

func (dc *DetectionConf) GetBruteForceThreshold() int {
	if dc.BruteForceThreshold == nil {
		return DefaultBruteForceThreshold
	}
	return *dc.BruteForceThreshold
}

func (dc *DetectionConf) GetScannerThreshold() int {
	if dc.ScannerThreshold == nil {
		return DefaultScannerThreshold
	}
	return *dc.ScannerThreshold
}

func (dc *DetectionConf) GetIPOutlierCoeff() float64 {
	if dc.IPOutlierCoeff == nil {
		return DefaultIPOutlierCoeff
	}
	return *dc.IPOutlierCoeff
}

func (dc *DetectionConf) GetIPOutlierMinFreq() int {
	if dc.IPOutlierMinFreq == nil {
		return DefaultIPOutlierMinFreq
	}
	return *dc.IPOutlierMinFreq
}

func (dc *DetectionConf) Validate() error {
	if dc.GetBruteForceThreshold() < 0 {
		return errors.New(
			"failed to validate detection config: bruteForceThreshold must be >= 0")
	}
	if dc.GetScannerThreshold() < 0 {
		return errors.New(
			"failed to validate detection config: scannerThreshold must be >= 0")
	}
	if dc.GetIPOutlierCoeff() < 0 {
		return errors.New(
			"failed to validate detection config: ipOutlierCoeff must be >= 0")
	}
	if dc.GetIPOutlierMinFreq() < 0 {
		return errors.New(
			"failed to validate detection config: ipOutlierMinFreq must be >= 0")
	}
	if dc.ClusteringDBScan != nil {
		if dc.ClusteringDBScan.Epsilon <= 0 {
			return errors.New(
				"failed to validate detection config: clusteringDbScan.epsilon must be > 0")
		}
		if dc.ClusteringDBScan.MinDensity <= 0 {
			return errors.New(
				"failed to validate detection config: clusteringDbScan.minDensity must be > 0")
		}
	}
	if dc.BotWatch != nil {
		if dc.BotWatch.WatchedTimeWindowSecs <= 0 {
			return errors.New(
				"failed to validate detection config: botWatch.watchedTimeWindowSecs must be > 0")
		}
		if dc.BotWatch.NumRequestsThreshold <= 0 {
			return errors.New(
				"failed to validate detection config: botWatch.numRequestsThreshold must be > 0")
		}
		if dc.BotWatch.RSDThreshold < 0 {
			return errors.New(
				"failed to validate detection config: botWatch.rsdThreshold must be >= 0")
		}
	}
	return nil
}
