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
	"qrcode-session/logging"
	"qrcode-session/model"
	"sync"
	"time"
)

const (
	DefaultCodeLength  = 6
	DefaultValidity    = 5 * time.Minute
	DefaultTickPeriod  = time.Second
	DefaultAckDuration = 2 * time.Second
)

var ErrSessionStopped = errors.New("code session stopped")

type CodeSessionOptions struct {
	CodeLength  int
	Validity    time.Duration
	TickPeriod  time.Duration
	AckDuration time.Duration
	Digits      DigitSource
	Clipboard   Clipboard // used by CopyCode, nil when the browser copies
	Logger      logging.Logger
}

func (o CodeSessionOptions) withDefaults() CodeSessionOptions {
	if o.CodeLength <= 0 {
		o.CodeLength = DefaultCodeLength
	}
	if o.Validity <= 0 {
		o.Validity = DefaultValidity
	}
	if o.TickPeriod <= 0 {
		o.TickPeriod = DefaultTickPeriod
	}
	if o.AckDuration <= 0 {
		o.AckDuration = DefaultAckDuration
	}
	if o.Digits == nil {
		o.Digits = NewRandomDigitSource()
	}
	if o.Logger == nil {
		o.Logger = logging.Default()
	}
	return o
}

// CodeSession owns one verification code and its countdown.
//
// Every transition (tick, regeneration, acknowledgment on and off) runs in
// a single critical section, so observers never see a new code paired with
// the old countdown. The tick driver is re-armed on every regeneration and
// released by Stop.
type CodeSession struct {
	opts CodeSessionOptions

	mu      sync.Mutex
	state   model.CodeState
	stopped bool

	ticker *time.Ticker
	quit   chan struct{}
	done   chan struct{}

	ackTimer *time.Timer
	ackSeq   uint64

	subscribers map[uint64]chan model.CodeState
	nextSub     uint64
}

// NewCodeSession mounts a session in state Active(freshCode, fullWindow).
// The countdown only advances by itself after Start.
func NewCodeSession(opts CodeSessionOptions) *CodeSession {
	opts = opts.withDefaults()
	s := &CodeSession{
		opts:        opts,
		subscribers: make(map[uint64]chan model.CodeState),
	}
	s.state = model.CodeState{
		Code:       GenerateCode(opts.Digits, opts.CodeLength),
		Window:     model.NewValidityWindow(opts.Validity),
		Generation: 1,
	}
	return s
}

func (s *CodeSession) Snapshot() model.CodeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Regenerate replaces the code and restarts the countdown from the full window.
func (s *CodeSession) Regenerate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.regenerateLocked()
	s.publishLocked()
}

// Tick advances the countdown by one tick period. A tick that would bring
// the remaining time to zero regenerates the code instead.
func (s *CodeSession) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	next, elapsed := s.state.Window.Step(s.opts.TickPeriod)
	if elapsed {
		s.regenerateLocked()
	} else {
		s.state.Window = next
	}
	s.publishLocked()
}

func (s *CodeSession) regenerateLocked() {
	s.state.Code = GenerateCode(s.opts.Digits, s.opts.CodeLength)
	s.state.Window = s.state.Window.Reset()
	s.state.Generation++
	if s.ticker != nil {
		s.ticker.Reset(s.opts.TickPeriod)
	}
}

// CopyCode writes the current code through the configured clipboard.
func (s *CodeSession) CopyCode(ctx context.Context) error {
	return s.CopyCodeWith(ctx, s.opts.Clipboard)
}

// CopyCodeWith writes the current code through cb. The write happens outside
// the state lock so a slow clipboard never holds up the countdown. On
// success the acknowledgment turns on and reverts after the ack duration;
// on failure it is logged and nothing else changes.
func (s *CodeSession) CopyCodeWith(ctx context.Context, cb Clipboard) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrSessionStopped
	}
	code := s.state.Code
	s.mu.Unlock()

	err := ErrClipboardUnavailable
	if cb != nil {
		err = cb.WriteText(ctx, code.String())
	}
	if err != nil {
		s.opts.Logger.Error(ctx, "failed to copy code", "error", err)
		return fmt.Errorf("copy code: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}
	s.acknowledgeLocked()
	s.publishLocked()
	return nil
}

func (s *CodeSession) acknowledgeLocked() {
	s.state.Ack = s.state.Ack.Activate(time.Now().Add(s.opts.AckDuration))
	if s.ackTimer != nil {
		s.ackTimer.Stop()
	}
	s.ackSeq++
	seq := s.ackSeq
	s.ackTimer = time.AfterFunc(s.opts.AckDuration, func() {
		s.clearAck(seq)
	})
}

func (s *CodeSession) clearAck(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// a newer copy owns the pending reset
	if s.stopped || seq != s.ackSeq {
		return
	}
	s.ackTimer = nil
	s.state.Ack = s.state.Ack.Clear()
	s.publishLocked()
}

// Start arms the tick driver. It is a no-op when already started or stopped.
func (s *CodeSession) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.ticker != nil {
		return
	}
	s.ticker = time.NewTicker(s.opts.TickPeriod)
	s.quit = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.ticker, s.quit, s.done)
}

func (s *CodeSession) run(ticker *time.Ticker, quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Stop releases the tick driver and any pending acknowledgment reset and
// closes all subscriptions. It waits for the driver to exit; after Stop
// returns no timer mutates the session.
func (s *CodeSession) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	var done chan struct{}
	if s.ticker != nil {
		s.ticker.Stop()
		close(s.quit)
		done = s.done
		s.ticker = nil
	}
	if s.ackTimer != nil {
		s.ackTimer.Stop()
		s.ackTimer = nil
	}
	for id, ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, id)
	}
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (s *CodeSession) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Subscribe returns a channel receiving the current state and then a state
// after every transition. Slow readers only see the latest state. The
// channel is closed by the returned cancel func or by Stop.
func (s *CodeSession) Subscribe() (<-chan model.CodeState, func()) {
	ch := make(chan model.CodeState, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = ch
	ch <- s.state
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(c)
		}
	}
}

// Subscribers is the number of open subscriptions.
func (s *CodeSession) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}

func (s *CodeSession) publishLocked() {
	for _, ch := range s.subscribers {
		select {
		case ch <- s.state:
		default:
			// drop the stale state, keep the latest
			select {
			case <-ch:
			default:
			}
			ch <- s.state
		}
	}
}

// FormatValidity renders a window length for prose, e.g. "5 minutes".
func FormatValidity(d time.Duration) string {
	unit, n := "second", int64(d/time.Second)
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		unit, n = "hour", int64(d/time.Hour)
	case d >= time.Minute && d%time.Minute == 0:
		unit, n = "minute", int64(d/time.Minute)
	}
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// FormatRemaining renders a duration as MM:SS, minutes taken modulo 60.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", (seconds/60)%60, seconds%60)
}
