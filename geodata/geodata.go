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

package geodata

import (
	"errors"
	"fmt"
	"net"
	"sort"

	"github.com/oschwald/geoip2-golang"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidIP = errors.New("invalid IP address")
)

// Location represents client geographical position
// information as provided by GeoIP database
type Location struct {
	IP          string  `json:"ip"`
	CountryName string  `json:"country_name"`
	CountryCode string  `json:"country_code2"`
	Latitude    float32 `json:"latitude"`
	Longitude   float32 `json:"longitude"`
	Timezone    string  `json:"timezone"`
}

// Locator is anything able to provide a location for an IP
type Locator interface {
	Locate(ip string) (Location, error)
	Close() error
}

// GeoIPLocator uses a MaxMind GeoIP2/GeoLite2 City database
type GeoIPLocator struct {
	db *geoip2.Reader
}

func (loc *GeoIPLocator) Locate(ip string) (Location, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return Location{}, fmt.Errorf("%w: %s", ErrInvalidIP, ip)
	}
	city, err := loc.db.City(parsed)
	if err != nil {
		return Location{}, fmt.Errorf("failed to fetch GeoIP data for IP %s: %w", ip, err)
	}
	return Location{
		IP:          ip,
		CountryName: city.Country.Names["en"],
		CountryCode: city.Country.IsoCode,
		Latitude:    float32(city.Location.Latitude),
		Longitude:   float32(city.Location.Longitude),
		Timezone:    city.Location.TimeZone,
	}, nil
}

func (loc *GeoIPLocator) Close() error {
	return loc.db.Close()
}

// NewGeoIPLocator opens a GeoIP database file
func NewGeoIPLocator(dbPath string) (*GeoIPLocator, error) {
	db, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open GeoIP database %s: %w", dbPath, err)
	}
	return &GeoIPLocator{db: db}, nil
}

// NullLocator is used when no GeoIP database is configured.
// It does not know any location.
type NullLocator struct{}

func (loc NullLocator) Locate(ip string) (Location, error) {
	return Location{IP: ip}, nil
}

func (loc NullLocator) Close() error {
	return nil
}

// LocateAll looks up all the provided IPs. IPs which cannot
// be located are logged and skipped. The result is sorted by IP.
func LocateAll(locator Locator, ips []string) []Location {
	ans := make([]Location, 0, len(ips))
	seen := make(map[string]bool)
	for _, ip := range ips {
		if seen[ip] {
			continue
		}
		seen[ip] = true
		location, err := locator.Locate(ip)
		if err != nil {
			log.Warn().Err(err).Str("ip", ip).Msg("failed to locate IP, skipping")
			continue
		}
		ans = append(ans, location)
	}
	sort.SliceStable(ans, func(i, j int) bool {
		return ans[i].IP < ans[j].IP
	})
	return ans
}
