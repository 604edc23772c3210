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

package router

import (
	"errors"
	"github.com/gin-gonic/gin"
	"io"
	"net/http"
	"qrcode-session/dto"
	"qrcode-session/logging"
	"qrcode-session/model"
	"qrcode-session/service"
	"qrcode-session/util"
)

const (
	SessionCookie = "code_session"
	SessionHeader = "X-Code-Session"
	SessionQuery  = "session"
)

type SessionRouter interface {
	Mount(c *gin.Context)
	Unmount(c *gin.Context)
	GetCode(c *gin.Context)
	Regenerate(c *gin.Context)
	Copy(c *gin.Context)
	QRImage(c *gin.Context)
	Events(c *gin.Context)
}

type sessionRouterImpl struct {
	sessionService service.SessionService
	renderer       *CodeRenderer
	clipboardMode  string
	logger         logging.Logger
}

func NewSessionRouter(sessionService service.SessionService, renderer *CodeRenderer, clipboardMode string, logger logging.Logger) SessionRouter {
	sessionRouter := sessionRouterImpl{
		sessionService: sessionService,
		renderer:       renderer,
		clipboardMode:  clipboardMode,
		logger:         logger,
	}
	return &sessionRouter
}

// CodeRenderer turns a state into its response. The QR symbol is derived
// from the same snapshot as the code text and the countdown.
type CodeRenderer struct {
	qrEncoder service.QREncoder
	level     service.RecoveryLevel
	size      int
}

func NewCodeRenderer(qrEncoder service.QREncoder, level service.RecoveryLevel, size int) *CodeRenderer {
	return &CodeRenderer{qrEncoder: qrEncoder, level: level, size: size}
}

func (r *CodeRenderer) Render(id string, st model.CodeState) (dto.CodeResponse, error) {
	png, err := r.qrEncoder.Encode(st.Code.String(), r.level, r.size)
	if err != nil {
		return dto.CodeResponse{}, err
	}
	return dto.CodeResponse{
		Session:     id,
		Code:        st.Code.String(),
		Generation:  st.Generation,
		RemainingMs: st.Remaining().Milliseconds(),
		Remaining:   service.FormatRemaining(st.Remaining()),
		ValidityMs:  st.Window.Duration.Milliseconds(),
		Copied:      st.Ack.Active,
		CopyLabel:   st.Ack.Label(),
		CopyClass:   st.Ack.Class(),
		QrDataURI:   service.DataURI(png),
	}, nil
}

// sessionID picks the widget a request talks to. Pages send their own id
// explicitly since tabs of one browser share the cookie.
func sessionID(c *gin.Context) string {
	if id := c.GetHeader(SessionHeader); id != "" {
		return id
	}
	if id := c.Query(SessionQuery); id != "" {
		return id
	}
	id, _ := c.Cookie(SessionCookie)
	return id
}

func setSessionCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookie, id, 0, "/", "", false, true)
}

func (s *sessionRouterImpl) lookup(c *gin.Context) (string, *service.CodeSession, bool) {
	id := sessionID(c)
	if id != "" {
		if session, ok := s.sessionService.Get(id); ok {
			return id, session, true
		}
	}
	util.HandleError(c, util.NewNotFoundError(util.MessageSessionNotFound))
	return "", nil, false
}

func (s *sessionRouterImpl) respond(c *gin.Context, status int, id string, st model.CodeState) {
	response, err := s.renderer.Render(id, st)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(status, response)
}

func (s *sessionRouterImpl) Mount(c *gin.Context) {
	id, session := s.sessionService.Mount()
	setSessionCookie(c, id)
	s.respond(c, http.StatusCreated, id, session.Snapshot())
}

func (s *sessionRouterImpl) Unmount(c *gin.Context) {
	id := sessionID(c)
	if id == "" || !s.sessionService.Unmount(id) {
		util.HandleError(c, util.NewNotFoundError(util.MessageSessionNotFound))
		return
	}
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

func (s *sessionRouterImpl) GetCode(c *gin.Context) {
	id, session, ok := s.lookup(c)
	if !ok {
		return
	}
	s.respond(c, http.StatusOK, id, session.Snapshot())
}

func (s *sessionRouterImpl) Regenerate(c *gin.Context) {
	id, session, ok := s.lookup(c)
	if !ok {
		return
	}
	if !s.sessionService.AllowRegenerate(id) {
		util.HandleError(c, util.NewTooManyRequestsError(util.MessageTooManyRequests))
		return
	}
	session.Regenerate()
	s.respond(c, http.StatusOK, id, session.Snapshot())
}

func (s *sessionRouterImpl) Copy(c *gin.Context) {
	id, session, ok := s.lookup(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	var err error
	if s.clipboardMode == util.ClipboardModeSystem {
		err = session.CopyCode(ctx)
	} else {
		request := dto.CopyRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			util.HandleError(c, util.NewIllegalArgumentError(err.Error()))
			return
		}
		err = session.CopyCodeWith(ctx, service.ReportedClipboard{OK: request.Ok, Message: request.Error})
	}
	if errors.Is(err, service.ErrSessionStopped) {
		util.HandleError(c, util.NewNotFoundError(util.MessageSessionNotFound))
		return
	}
	if err != nil {
		util.HandleError(c, util.NewClipboardError(err))
		return
	}
	s.respond(c, http.StatusOK, id, session.Snapshot())
}

func (s *sessionRouterImpl) QRImage(c *gin.Context) {
	_, session, ok := s.lookup(c)
	if !ok {
		return
	}
	st := session.Snapshot()
	png, err := s.renderer.qrEncoder.Encode(st.Code.String(), s.renderer.level, s.renderer.size)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// Events streams a snapshot after every transition until the client goes
// away or the session is unmounted.
func (s *sessionRouterImpl) Events(c *gin.Context) {
	id, session, ok := s.lookup(c)
	if !ok {
		return
	}
	updates, cancel := session.Subscribe()
	defer cancel()

	c.Header("Cache-Control", "no-store")
	c.Header("X-Accel-Buffering", "no")
	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case st, open := <-updates:
			if !open {
				return false
			}
			response, err := s.renderer.Render(id, st)
			if err != nil {
				s.logger.Error(ctx, "failed to render code event", "session", id, "error", err)
				return false
			}
			c.SSEvent("code", response)
			return true
		}
	})
}
