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
	"strings"

	"logsentry/record"
)

// DefaultToolSignatures contains user agent fragments of well known
// offensive security tools
var DefaultToolSignatures = []string{
	"nikto", "sqlmap", "metasploit", "nessus", "dirbuster", "wpscan",
	"hydra", "havij", "zap", "burp", "nmap", "acunetix",
}

// AgentDetector searches for requests made by known offensive tools
// based on their user agent string. The signature list is copied
// on creation and it is never changed afterwards.
type AgentDetector struct {
	signatures []string
}

// Signatures returns a copy of the used signatures
func (ad *AgentDetector) Signatures() []string {
	ans := make([]string, len(ad.signatures))
	copy(ans, ad.signatures)
	return ans
}

// Match tests the agent against all the signatures (case-insensitive)
// and returns the first matching one. Empty agents never match.
func (ad *AgentDetector) Match(agent string) (string, bool) {
	if agent == "" {
		return "", false
	}
	lcAgent := strings.ToLower(agent)
	for _, sig := range ad.signatures {
		if strings.Contains(lcAgent, sig) {
			return sig, true
		}
	}
	return "", false
}

// Detect returns all the records with a matching user agent
// in their original order.
func (ad *AgentDetector) Detect(tab *record.Table) []*record.LogRecord {
	return tab.Filter(func(rec *record.LogRecord) bool {
		_, ok := ad.Match(rec.FullUserAgent)
		return ok
	}).Records
}

// NewAgentDetector creates a detector with the provided signatures.
// In case no signatures are provided, DefaultToolSignatures are used.
// Empty signatures are ignored as they would match anything.
func NewAgentDetector(signatures []string) *AgentDetector {
	if len(signatures) == 0 {
		signatures = DefaultToolSignatures
	}
	ans := &AgentDetector{signatures: make([]string, 0, len(signatures))}
	for _, sig := range signatures {
		if sig != "" {
			ans.signatures = append(ans.signatures, strings.ToLower(sig))
		}
	}
	return ans
}

// MaliciousAgents runs a detector with default signatures
func MaliciousAgents(tab *record.Table) []*record.LogRecord {
	return NewAgentDetector(nil).Detect(tab)
}
