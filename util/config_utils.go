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

package util

import (
	"errors"
	"fmt"
	"gopkg.in/ini.v1"
	"os"
	"strings"
	"time"
)

type ServerCfg struct {
	ServerName     string   `ini:"server_name"`
	ServerAddress  string   `ini:"server_address"`
	TrustedProxies []string `ini:"trusted_proxies"`
	AllowOrigins   []string `ini:"allow_origins"`
}

type CodeCfg struct {
	Length      int           `ini:"length"`
	Validity    time.Duration `ini:"validity"`
	Tick        time.Duration `ini:"tick"`
	AckDuration time.Duration `ini:"ack_duration"`
}

type QrCfg struct {
	Size      int    `ini:"size"`
	Level     string `ini:"level"`
	CacheSize int    `ini:"cache_size"`
}

type SessionCfg struct {
	MaxSessions     int           `ini:"max_sessions"`
	IdleTimeout     time.Duration `ini:"idle_timeout"`
	SweepInterval   time.Duration `ini:"sweep_interval"`
	RegenerateRate  float64       `ini:"regenerate_rate"`
	RegenerateBurst int           `ini:"regenerate_burst"`
}

type ClipboardCfg struct {
	Mode string `ini:"mode"`
}

type LogCfg struct {
	Level  string `ini:"level"`
	Format string `ini:"format"`
}

const (
	ClipboardModeBrowser = "browser"
	ClipboardModeSystem  = "system"
)

type AppConfig struct {
	Server    ServerCfg
	Code      CodeCfg
	Qr        QrCfg
	Session   SessionCfg
	Clipboard ClipboardCfg
	Log       LogCfg
}

func DefaultConfig() AppConfig {
	return AppConfig{
		Server: ServerCfg{
			ServerName:    "QR Code Generator",
			ServerAddress: ":8080",
			TrustedProxies: []string{
				"127.0.0.0/8",
				"10.0.0.0/8",
				"192.168.0.0/16",
				"172.16.0.0/12",
			},
			AllowOrigins: []string{"*"},
		},
		Code: CodeCfg{
			Length:      6,
			Validity:    5 * time.Minute,
			Tick:        time.Second,
			AckDuration: 2 * time.Second,
		},
		Qr: QrCfg{
			Size:      180,
			Level:     "H",
			CacheSize: 1024,
		},
		Session: SessionCfg{
			MaxSessions:     1024,
			IdleTimeout:     30 * time.Minute,
			SweepInterval:   time.Minute,
			RegenerateRate:  1,
			RegenerateBurst: 5,
		},
		Clipboard: ClipboardCfg{Mode: ClipboardModeBrowser},
		Log:       LogCfg{Level: "info", Format: "text"},
	}
}

// LoadConfig 读取配置文件, 文件不存在时写入默认配置
func LoadConfig(path string) (*AppConfig, error) {
	cfg, err := ini.LooseLoad(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取配置文件: %w", err)
	}
	appCfg := DefaultConfig()
	sections := []struct {
		name   string
		target interface{}
	}{
		{"server", &appCfg.Server},
		{"code", &appCfg.Code},
		{"qr", &appCfg.Qr},
		{"session", &appCfg.Session},
		{"clipboard", &appCfg.Clipboard},
		{"log", &appCfg.Log},
	}
	for _, section := range sections {
		if err := cfg.Section(section.name).MapTo(section.target); err != nil {
			return nil, fmt.Errorf("无法读取配置段 [%s]: %w", section.name, err)
		}
	}
	if err := appCfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil && os.IsNotExist(err) {
		for _, section := range sections {
			_ = cfg.Section(section.name).ReflectFrom(section.target)
		}
		if err := cfg.SaveToIndent(path, " "); err != nil {
			return &appCfg, fmt.Errorf("无法保存配置文件: %w", err)
		}
	}
	return &appCfg, nil
}

func (c *AppConfig) Validate() error {
	var errs []error
	if c.Server.ServerAddress == "" {
		errs = append(errs, errors.New("server.server_address is empty"))
	}
	if len(c.Server.AllowOrigins) == 0 {
		errs = append(errs, errors.New("server.allow_origins is empty"))
	}
	for _, origin := range c.Server.AllowOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errs = append(errs, fmt.Errorf("bad origin %q in server.allow_origins", origin))
		}
	}
	if c.Code.Length <= 0 {
		errs = append(errs, errors.New("code.length must be positive"))
	}
	if c.Code.Validity <= 0 || c.Code.Tick <= 0 || c.Code.AckDuration <= 0 {
		errs = append(errs, errors.New("code durations must be positive"))
	}
	if c.Code.Tick > c.Code.Validity {
		errs = append(errs, errors.New("code.tick must not exceed code.validity"))
	}
	if c.Qr.Size <= 0 || c.Qr.CacheSize <= 0 {
		errs = append(errs, errors.New("qr.size and qr.cache_size must be positive"))
	}
	switch strings.ToUpper(c.Qr.Level) {
	case "L", "M", "Q", "H":
	default:
		errs = append(errs, fmt.Errorf("unknown qr.level %q", c.Qr.Level))
	}
	if c.Session.MaxSessions <= 0 {
		errs = append(errs, errors.New("session.max_sessions must be positive"))
	}
	if c.Session.IdleTimeout < 0 || c.Session.SweepInterval < 0 || c.Session.RegenerateRate < 0 {
		errs = append(errs, errors.New("session settings must not be negative"))
	}
	switch c.Clipboard.Mode {
	case ClipboardModeBrowser, ClipboardModeSystem:
	default:
		errs = append(errs, fmt.Errorf("unknown clipboard.mode %q", c.Clipboard.Mode))
	}
	return errors.Join(errs...)
}
