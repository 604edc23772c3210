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
	"encoding/base64"
	"fmt"
	lru "github.com/hashicorp/golang-lru"
	"github.com/skip2/go-qrcode"
	"strings"
)

// RecoveryLevel QR 码纠错等级, 按 L/M/Q/H 命名
type RecoveryLevel int

const (
	RecoveryLow RecoveryLevel = iota
	RecoveryMedium
	RecoveryQuartile
	RecoveryHigh
)

func ParseRecoveryLevel(level string) (RecoveryLevel, error) {
	switch strings.ToUpper(level) {
	case "L":
		return RecoveryLow, nil
	case "M":
		return RecoveryMedium, nil
	case "Q":
		return RecoveryQuartile, nil
	case "H":
		return RecoveryHigh, nil
	}
	return RecoveryHigh, fmt.Errorf("unknown QR recovery level %q", level)
}

func (l RecoveryLevel) String() string {
	switch l {
	case RecoveryLow:
		return "L"
	case RecoveryMedium:
		return "M"
	case RecoveryQuartile:
		return "Q"
	default:
		return "H"
	}
}

// go-qrcode names the 25% level High and the 30% level Highest.
func (l RecoveryLevel) qrLevel() qrcode.RecoveryLevel {
	switch l {
	case RecoveryLow:
		return qrcode.Low
	case RecoveryMedium:
		return qrcode.Medium
	case RecoveryQuartile:
		return qrcode.High
	default:
		return qrcode.Highest
	}
}

// QREncoder renders text into a PNG QR symbol of size x size pixels.
type QREncoder interface {
	Encode(text string, level RecoveryLevel, size int) ([]byte, error)
}

type goQREncoder struct{}

func NewQREncoder() QREncoder {
	return goQREncoder{}
}

func (goQREncoder) Encode(text string, level RecoveryLevel, size int) ([]byte, error) {
	png, err := qrcode.Encode(text, level.qrLevel(), size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

type qrKey struct {
	text  string
	level RecoveryLevel
	size  int
}

type cachedQREncoder struct {
	inner QREncoder
	cache *lru.Cache
}

// NewCachedQREncoder memoizes symbols of inner, which must be pure.
func NewCachedQREncoder(inner QREncoder, capacity int) (QREncoder, error) {
	cache, err := lru.New(capacity)
	if err != nil {
		return nil, fmt.Errorf("create qr cache: %w", err)
	}
	return &cachedQREncoder{inner: inner, cache: cache}, nil
}

func (e *cachedQREncoder) Encode(text string, level RecoveryLevel, size int) ([]byte, error) {
	key := qrKey{text: text, level: level, size: size}
	if value, ok := e.cache.Get(key); ok {
		if png, ok := value.([]byte); ok {
			return png, nil
		}
	}
	png, err := e.inner.Encode(text, level, size)
	if err != nil {
		return nil, err
	}
	e.cache.Add(key, png)
	return png, nil
}

func DataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
