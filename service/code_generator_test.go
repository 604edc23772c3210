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

package service

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestGenerateCode_RandomSource(t *testing.T) {
	src := NewRandomDigitSource()
	for i := 0; i < 1000; i++ {
		code := GenerateCode(src, 6)
		require.Len(t, code, 6)
		require.True(t, code.IsNumeric(6), "code %q is not numeric", code)
	}
}

func TestGenerateCode_RandomSourceCoversAllDigits(t *testing.T) {
	src := NewRandomDigitSource()
	seen := make(map[int]bool)
	for i := 0; i < 10000 && len(seen) < 10; i++ {
		d := src.Digit()
		require.GreaterOrEqual(t, d, 0)
		require.LessOrEqual(t, d, 9)
		seen[d] = true
	}
	assert.Len(t, seen, 10)
}

func TestGenerateCode_SequenceSource(t *testing.T) {
	tests := []struct {
		name   string
		digits []int
		length int
		want   string
	}{
		{name: "顺序", digits: []int{1, 2, 3, 4, 5, 6}, length: 6, want: "123456"},
		{name: "循环", digits: []int{7, 0}, length: 5, want: "70707"},
		{name: "越界取模", digits: []int{12, -3}, length: 2, want: "27"},
		{name: "空序列", digits: nil, length: 3, want: "000"},
		{name: "零长度", digits: []int{1}, length: 0, want: ""},
		{name: "负长度", digits: []int{1}, length: -1, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := GenerateCode(NewSequenceDigitSource(tt.digits...), tt.length)
			assert.Equal(t, tt.want, code.String())
		})
	}
}

func TestGenerateCode_SequenceSourceContinuesAcrossCalls(t *testing.T) {
	src := NewSequenceDigitSource(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	assert.Equal(t, "012345", GenerateCode(src, 6).String())
	assert.Equal(t, "678901", GenerateCode(src, 6).String())
}
