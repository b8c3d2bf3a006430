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

package notifications

import (
	"fmt"
	"html"
	"strings"
)

type TR struct {
	tbody *TBody
}

func (tr *TR) AddTH(text string, style string) *TR {
	return tr.addCell("th", text, style)
}

func (tr *TR) AddTD(text string, style string) *TR {
	return tr.addCell("td", text, style)
}

func (tr *TR) addCell(tag, text, style string) *TR {
	if style != "" {
		tr.tbody.table.writer.WriteString(
			fmt.Sprintf("<%s style=\"%s\">%s</%s>", tag, style, html.EscapeString(text), tag))

	} else {
		tr.tbody.table.writer.WriteString(
			fmt.Sprintf("<%s>%s</%s>", tag, html.EscapeString(text), tag))
	}
	return tr
}

func (tr *TR) Close() *TBody {
	tr.tbody.table.writer.WriteString("</tr>")
	return tr.tbody
}

type TBody struct {
	table *Table
}

func (t *TBody) AddTR() *TR {
	t.table.writer.WriteString("<tr>")
	return &TR{tbody: t}
}

func (t *TBody) Close() *Table {
	t.table.writer.WriteString("</tbody>")
	return t.table
}

// Table is a simple HTML table builder used to format
// listings of suspicious IPs in e-mail notifications
// (user provided values, e.g. user agents, are escaped).
type Table struct {
	writer *strings.Builder
}

func (t *Table) Init(style string) *Table {
	t.writer = &strings.Builder{}
	t.writer.WriteString(fmt.Sprintf("<table style=\"%s\">", style))
	return t
}

func (t *Table) AddBody() *TBody {
	t.writer.WriteString("<tbody>")
	return &TBody{table: t}
}

func (t *Table) Close() {
	t.writer.WriteString("</table>")
}

func (t *Table) String() string {
	return t.writer.String()
}
