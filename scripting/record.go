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
	"time"

	"logsentry/record"

	lua "github.com/yuin/gopher-lua"
)

func optStr(v *string) lua.LValue {
	if v == nil {
		return lua.LNil
	}
	return lua.LString(*v)
}

func optInt(v *int) lua.LValue {
	if v == nil {
		return lua.LNil
	}
	return lua.LNumber(*v)
}

// importRecord creates a Lua table representing a log record.
// Missing values are represented by nil.
func importRecord(L *lua.LState, rec *record.LogRecord) *lua.LTable {
	tbl := L.NewTable()
	L.SetField(tbl, "client_ip", lua.LString(rec.ClientIP))
	L.SetField(tbl, "raw_address", lua.LString(rec.RawAddress))
	if rec.TimeRecord != nil {
		L.SetField(tbl, "time_record", lua.LString(rec.TimeRecord.Format(time.RFC3339)))
	}
	L.SetField(tbl, "http_method", optStr(rec.HTTPMethod))
	L.SetField(tbl, "request_url", optStr(rec.RequestURL))
	L.SetField(tbl, "http_version", optStr(rec.HTTPVersion))
	L.SetField(tbl, "response_code", optInt(rec.ResponseCode))
	L.SetField(tbl, "bytes_sent", optInt(rec.BytesSent))
	L.SetField(tbl, "referer", optStr(rec.Referer))
	L.SetField(tbl, "full_user_agent", lua.LString(rec.FullUserAgent))
	L.SetField(tbl, "hostname", lua.LString(rec.Hostname))
	L.SetField(tbl, "uri_path", lua.LString(rec.URIPath))
	return tbl
}
