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
	"context"
	"errors"
	"fmt"
	"github.com/atotto/clipboard"
)

var (
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
	ErrClipboardRejected    = errors.New("clipboard write rejected")
)

// Clipboard 剪贴板写入
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

type ClipboardFunc func(ctx context.Context, text string) error

func (f ClipboardFunc) WriteText(ctx context.Context, text string) error {
	return f(ctx, text)
}

type systemClipboard struct{}

// NewSystemClipboard writes to the clipboard of the host running the server.
func NewSystemClipboard() Clipboard {
	return systemClipboard{}
}

func (systemClipboard) WriteText(ctx context.Context, text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write system clipboard: %w", err)
	}
	return nil
}

// ReportedClipboard replays the outcome of a write the browser already made
// with navigator.clipboard.
type ReportedClipboard struct {
	OK      bool
	Message string
}

func (r ReportedClipboard) WriteText(_ context.Context, _ string) error {
	if r.OK {
		return nil
	}
	if r.Message == "" {
		return ErrClipboardRejected
	}
	return fmt.Errorf("%w: %s", ErrClipboardRejected, r.Message)
}
