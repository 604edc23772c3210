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

package model

import "time"

const (
	CopyLabel   = "Copy Code"
	CopiedLabel = "Copied!"
	CopiedClass = "copied"
)

// CopyAcknowledgment 复制按钮的 "已复制" 状态
type CopyAcknowledgment struct {
	Active bool
	until  int64
}

func (a CopyAcknowledgment) Activate(until time.Time) CopyAcknowledgment {
	a.Active = true
	a.until = until.UnixMilli()
	return a
}

func (a CopyAcknowledgment) Clear() CopyAcknowledgment {
	return CopyAcknowledgment{}
}

// Until is the moment the acknowledgment reverts, zero when inactive.
func (a CopyAcknowledgment) Until() time.Time {
	if !a.Active {
		return time.Time{}
	}
	return time.UnixMilli(a.until)
}

func (a CopyAcknowledgment) Label() string {
	if a.Active {
		return CopiedLabel
	}
	return CopyLabel
}

func (a CopyAcknowledgment) Class() string {
	if a.Active {
		return CopiedClass
	}
	return ""
}
