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
	"fmt"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"qrcode-session/dto"
	"qrcode-session/logging"
	"qrcode-session/service"
	"qrcode-session/util"
	"time"
)

func InitRouters(router *gin.Engine, sessionService service.SessionService, qrEncoder service.QREncoder,
	meta *dto.ServerMeta, cfg *util.AppConfig, logger logging.Logger) error {
	templates, err := parseTemplates()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	router.SetHTMLTemplate(templates)

	level, err := service.ParseRecoveryLevel(cfg.Qr.Level)
	if err != nil {
		return err
	}
	renderer := NewCodeRenderer(qrEncoder, level, cfg.Qr.Size)
	homeRouter := NewHomeRouter(meta, sessionService, renderer)
	sessionRouter := NewSessionRouter(sessionService, renderer, cfg.Clipboard.Mode, logger)

	router.Use(cors.New(corsConfig(cfg.Server.AllowOrigins)))
	router.GET("/", homeRouter.Home)
	router.GET("/meta", homeRouter.Meta)
	api := router.Group("/api")
	{
		api.POST("/session", sessionRouter.Mount)
		api.DELETE("/session", sessionRouter.Unmount)
		api.GET("/code", sessionRouter.GetCode)
		api.POST("/code/regenerate", sessionRouter.Regenerate)
		api.POST("/code/copy", sessionRouter.Copy)
		api.GET("/code/qr.png", sessionRouter.QRImage)
		api.GET("/code/events", sessionRouter.Events)
	}
	return nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", "User-Agent", SessionHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
