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

import (
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestCodeIsNumeric(t *testing.T) {
	tests := []struct {
		name   string
		code   Code
		length int
		want   bool
	}{
		{name: "六位数字", code: "012345", length: 6, want: true},
		{name: "长度不符", code: "01234", length: 6, want: false},
		{name: "含字母", code: "01a345", length: 6, want: false},
		{name: "空码", code: "", length: 0, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.IsNumeric(tt.length))
		})
	}
}

func TestValidityWindowStep(t *testing.T) {
	w := NewValidityWindow(3 * time.Second)
	assert.Equal(t, 3*time.Second, w.Remaining)

	w, elapsed := w.Step(time.Second)
	assert.False(t, elapsed)
	assert.Equal(t, 2*time.Second, w.Remaining)

	w, elapsed = w.Step(time.Second)
	assert.False(t, elapsed)
	assert.Equal(t, time.Second, w.Remaining)

	w, elapsed = w.Step(time.Second)
	assert.True(t, elapsed)
	assert.Equal(t, time.Second, w.Remaining, "elapsed window must not go to zero or below")

	w = w.Reset()
	assert.Equal(t, 3*time.Second, w.Remaining)
}

func TestCopyAcknowledgment(t *testing.T) {
	var ack CopyAcknowledgment
	assert.False(t, ack.Active)
	assert.Equal(t, CopyLabel, ack.Label())
	assert.Empty(t, ack.Class())
	assert.True(t, ack.Until().IsZero())

	until := time.Now().Add(2 * time.Second)
	ack = ack.Activate(until)
	assert.True(t, ack.Active)
	assert.Equal(t, CopiedLabel, ack.Label())
	assert.Equal(t, CopiedClass, ack.Class())
	assert.Equal(t, until.UnixMilli(), ack.Until().UnixMilli())

	ack = ack.Clear()
	assert.False(t, ack.Active)
	assert.Equal(t, CopyLabel, ack.Label())
}
