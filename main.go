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

package main

import (
	"context"
	"errors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"log"
	"net/http"
	"os"
	"os/signal"
	"qrcode-session/dto"
	"qrcode-session/logging"
	"qrcode-session/router"
	"qrcode-session/service"
	"qrcode-session/util"
	"syscall"
	"time"
)

const (
	implementationName    = "qrcode-session"
	implementationVersion = "v0.1.0"
)

func main() {
	cfg, err := util.LoadConfig("config.ini")
	if err != nil {
		log.Fatal("无法读取配置文件: ", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	if err != nil {
		log.Fatal("无法初始化日志: ", err)
	}

	qrEncoder, err := service.NewCachedQREncoder(service.NewQREncoder(), cfg.Qr.CacheSize)
	if err != nil {
		log.Fatal("无法初始化二维码缓存: ", err)
	}
	codeOptions := service.CodeSessionOptions{
		CodeLength:  cfg.Code.Length,
		Validity:    cfg.Code.Validity,
		TickPeriod:  cfg.Code.Tick,
		AckDuration: cfg.Code.AckDuration,
		Digits:      service.NewRandomDigitSource(),
	}
	if cfg.Clipboard.Mode == util.ClipboardModeSystem {
		codeOptions.Clipboard = service.NewSystemClipboard()
	}
	sessionService, err := service.NewSessionService(service.SessionConfig{
		MaxSessions:     cfg.Session.MaxSessions,
		IdleTimeout:     cfg.Session.IdleTimeout,
		SweepInterval:   cfg.Session.SweepInterval,
		RegenerateRate:  cfg.Session.RegenerateRate,
		RegenerateBurst: cfg.Session.RegenerateBurst,
		Code:            codeOptions,
	}, logger)
	if err != nil {
		log.Fatal("无法初始化会话: ", err)
	}
	defer sessionService.Close()

	serverMeta := dto.ServerMeta{
		ServerName:            cfg.Server.ServerName,
		ImplementationName:    implementationName,
		ImplementationVersion: implementationVersion,
		CodeLength:            cfg.Code.Length,
		ValidityMs:            cfg.Code.Validity.Milliseconds(),
		TickMs:                cfg.Code.Tick.Milliseconds(),
		AckMs:                 cfg.Code.AckDuration.Milliseconds(),
		QrSize:                cfg.Qr.Size,
		QrLevel:               cfg.Qr.Level,
		ClipboardMode:         cfg.Clipboard.Mode,
	}
	r := gin.Default()
	err = r.SetTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		log.Fatal(err)
	}
	err = router.InitRouters(r, sessionService, qrEncoder, &serverMeta, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	srv := &http.Server{
		Addr:    cfg.Server.ServerAddress,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(ctx, "已启动", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return sessionService.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info(context.Background(), "关闭...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Error(context.Background(), "强制关闭", "error", err)
		sessionService.Close()
		os.Exit(1)
	}
	logger.Info(context.Background(), "退出")
}
