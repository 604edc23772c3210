/*
 * Copyright (C) 2026. Gardel <sunxinao@hotmail.com> and contributors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package dto

import "html/template"

// CodeResponse is one consistent snapshot of a code session.
type CodeResponse struct {
	Session     string `json:"session"`
	Code        string `json:"code"`
	Generation  uint64 `json:"generation"`
	RemainingMs int64  `json:"remainingMs"`
	Remaining   string `json:"remaining"`
	ValidityMs  int64  `json:"validityMs"`
	Copied      bool   `json:"copied"`
	CopyLabel   string `json:"copyLabel"`
	CopyClass   string `json:"copyClass,omitempty"`
	QrDataURI   string `json:"qr"`
}

// CopyRequest carries the outcome of navigator.clipboard.writeText.
// In system clipboard mode the body is ignored.
type CopyRequest struct {
	Ok    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// CodePage is the view model of the widget page.
type CodePage struct {
	Title         string
	Code          CodeResponse
	QrImage       template.URL
	QrSize        int
	BrowserCopy   bool
	ValidityLabel string
}
