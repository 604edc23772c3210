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
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
	"qrcode-session/model"
	"sync"
)

// DigitSource 验证码的随机数来源, 每次返回 0-9 之间的一位数字
type DigitSource interface {
	Digit() int
}

type randomDigitSource struct{}

var digitBound = big.NewInt(10)

// NewRandomDigitSource draws digits from crypto/rand and falls back to
// math/rand when the system source is unavailable, so a draw never fails.
func NewRandomDigitSource() DigitSource {
	return randomDigitSource{}
}

func (randomDigitSource) Digit() int {
	n, err := rand.Int(rand.Reader, digitBound)
	if err != nil {
		return mrand.IntN(10)
	}
	return int(n.Int64())
}

type sequenceDigitSource struct {
	mu     sync.Mutex
	digits []int
	pos    int
}

// NewSequenceDigitSource replays digits in order and wraps around.
func NewSequenceDigitSource(digits ...int) DigitSource {
	return &sequenceDigitSource{digits: digits}
}

func (s *sequenceDigitSource) Digit() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.digits) == 0 {
		return 0
	}
	d := s.digits[s.pos%len(s.digits)]
	s.pos++
	return d
}

// GenerateCode draws length digits independently from src.
func GenerateCode(src DigitSource, length int) model.Code {
	if length <= 0 {
		return ""
	}
	buf := make([]byte, length)
	for i := range buf {
		d := src.Digit() % 10
		if d < 0 {
			d += 10
		}
		buf[i] = byte('0' + d)
	}
	return model.Code(buf)
}
