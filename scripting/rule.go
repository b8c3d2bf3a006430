// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Institute of the Czech National Corpus,
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

package scripting

import (
	"fmt"

	"logsentry/record"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
)

const (
	ruleFnName       = "is_suspicious"
	signaturesGlobal = "signatures"
)

// Rule is a custom detection rule written in Lua. The script must
// define a function `is_suspicious(rec)` returning a boolean value.
// Optionally, it may define a global table `signatures` with additional
// user agent fragments for the malicious agent detector.
//
// example:
//
//	signatures = {"masscan", "zgrab"}
//
//	function is_suspicious(rec)
//	  return rec.response_code == 404 and string.find(rec.uri_path, "%.php$") ~= nil
//	end
//
// Rule is not safe for concurrent use.
type Rule struct {
	env    *lua.LState
	source string
}

func (r *Rule) Close() {
	r.env.Close()
}

// ExtraSignatures returns user agent signatures defined by the script
// (if any).
func (r *Rule) ExtraSignatures() ([]string, error) {
	v := r.env.GetGlobal(signaturesGlobal)
	if v == lua.LNil {
		return []string{}, nil
	}
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return []string{}, fmt.Errorf("invalid `%s` value in %s: %w", signaturesGlobal, r.source, ErrFailedTypeAssertion)
	}
	return LuaTableToSliceOfStrings(tbl)
}

// Evaluate calls the rule function for a single record
func (r *Rule) Evaluate(rec *record.LogRecord) (bool, error) {
	fnObj := r.env.GetGlobal(ruleFnName)
	err := r.env.CallByParam(
		lua.P{
			Fn:      fnObj,
			NRet:    1,
			Protect: true,
		},
		importRecord(r.env, rec),
	)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate rule %s: %w", r.source, err)
	}
	ret := r.env.Get(-1)
	r.env.Pop(1)
	return lua.LVAsBool(ret), nil
}

// Detect returns all the records the rule considers suspicious.
// Records for which the rule fails are logged and considered
// non-matching.
func (r *Rule) Detect(tab *record.Table) []*record.LogRecord {
	var numErrors int
	ans := tab.Filter(func(rec *record.LogRecord) bool {
		match, err := r.Evaluate(rec)
		if err != nil {
			if numErrors == 0 {
				log.Error().Err(err).Str("ip", rec.ClientIP).Msg("custom rule failed")
			}
			numErrors++
			return false
		}
		return match
	}).Records
	if numErrors > 0 {
		log.Warn().
			Int("numErrors", numErrors).
			Str("script", r.source).
			Msg("custom rule failed for some records")
	}
	return ans
}

func newRule(source string, load func(L *lua.LState) error) (*Rule, error) {
	L := lua.NewState()
	if err := load(L); err != nil {
		L.Close()
		return nil, fmt.Errorf("failed to process custom rule %s: %w", source, err)
	}
	if _, ok := L.GetGlobal(ruleFnName).(*lua.LFunction); !ok {
		L.Close()
		return nil, fmt.Errorf("failed to process custom rule %s: %w", source, ErrMissingRuleFunction)
	}
	return &Rule{env: L, source: source}, nil
}

// LoadRule loads a rule from a Lua script file
func LoadRule(srcPath string) (*Rule, error) {
	return newRule(srcPath, func(L *lua.LState) error {
		return L.DoFile(srcPath)
	})
}

// NewRuleFromSource creates a rule from Lua source code
func NewRuleFromSource(sourceCode string) (*Rule, error) {
	return newRule("<inline>", func(L *lua.LState) error {
		return L.DoString(sourceCode)
	})
}
