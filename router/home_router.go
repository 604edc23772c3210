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
	_ "embed"
	"github.com/gin-gonic/gin"
	"html/template"
	"net/http"
	"qrcode-session/dto"
	"qrcode-session/service"
	"qrcode-session/util"
)

//go:embed templates/index.html
var indexTemplate string

const indexTemplateName = "index.html"

func parseTemplates() (*template.Template, error) {
	return template.New(indexTemplateName).Parse(indexTemplate)
}

type HomeRouter interface {
	Home(c *gin.Context)
	Meta(c *gin.Context)
}

type homeRouterImpl struct {
	serverMeta     dto.ServerMeta
	sessionService service.SessionService
	renderer       *CodeRenderer
}

func NewHomeRouter(meta *dto.ServerMeta, sessionService service.SessionService, renderer *CodeRenderer) HomeRouter {
	homeRouter := homeRouterImpl{
		serverMeta:     *meta,
		sessionService: sessionService,
		renderer:       renderer,
	}
	return &homeRouter
}

// Home 首页, 每个页面挂载自己的验证码会话. 其他标签页的会话不受影响,
// 由页面关闭时的 DELETE 或空闲清理卸载
func (h *homeRouterImpl) Home(c *gin.Context) {
	id, session := h.sessionService.Mount()
	response, err := h.renderer.Render(id, session.Snapshot())
	if err != nil {
		h.sessionService.Unmount(id)
		util.HandleError(c, err)
		return
	}
	setSessionCookie(c, id)
	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, indexTemplateName, dto.CodePage{
		Title:         h.serverMeta.ServerName,
		Code:          response,
		QrImage:       template.URL(response.QrDataURI),
		QrSize:        h.serverMeta.QrSize,
		BrowserCopy:   h.serverMeta.ClipboardMode == util.ClipboardModeBrowser,
		ValidityLabel: service.FormatValidity(session.Snapshot().Window.Duration),
	})
}

func (h *homeRouterImpl) Meta(c *gin.Context) {
	c.JSON(http.StatusOK, h.serverMeta)
}
