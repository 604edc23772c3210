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

// Code 数字验证码, 生成后不可变, 过期时整体替换
type Code string

func (c Code) String() string {
	return string(c)
}

// IsNumeric reports whether the code has the given length and only decimal digits.
func (c Code) IsNumeric(length int) bool {
	if len(c) != length {
		return false
	}
	for i := 0; i < len(c); i++ {
		if c[i] < '0' || c[i] > '9' {
			return false
		}
	}
	return true
}

// ValidityWindow 验证码有效期及剩余时间
type ValidityWindow struct {
	Duration  time.Duration
	Remaining time.Duration
}

func NewValidityWindow(duration time.Duration) (this ValidityWindow) {
	this.Duration = duration
	this.Remaining = duration
	return this
}

// Step counts the window down by one step. When the remaining time would
// drop to zero or below the window is reported as elapsed and left untouched.
func (w ValidityWindow) Step(step time.Duration) (ValidityWindow, bool) {
	if w.Remaining <= step {
		return w, true
	}
	w.Remaining -= step
	return w, false
}

func (w ValidityWindow) Reset() ValidityWindow {
	w.Remaining = w.Duration
	return w
}

// CodeState is the Active(code, remaining) state observed by the page.
// Generation increases on every replacement, so two equal codes drawn in a
// row are still told apart.
type CodeState struct {
	Code       Code
	Window     ValidityWindow
	Ack        CopyAcknowledgment
	Generation uint64
}

func (s CodeState) Remaining() time.Duration {
	return s.Window.Remaining
}
