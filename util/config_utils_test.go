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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_WritesDefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)

	_, err = os.Stat(path)
	require.NoError(t, err, "default config should be saved")

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, *cfg, *reloaded)
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	content := `[server]
server_address = 127.0.0.1:9000
trusted_proxies = 127.0.0.1

[code]
length = 8
validity = 90s
tick = 500ms

[qr]
level = M

[session]
regenerate_rate = 0.5

[clipboard]
mode = system

[log]
format = json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.ServerAddress)
	assert.Equal(t, []string{"127.0.0.1"}, cfg.Server.TrustedProxies)
	assert.Equal(t, 8, cfg.Code.Length)
	assert.Equal(t, 90*time.Second, cfg.Code.Validity)
	assert.Equal(t, 500*time.Millisecond, cfg.Code.Tick)
	assert.Equal(t, 2*time.Second, cfg.Code.AckDuration, "unset keys keep defaults")
	assert.Equal(t, "M", cfg.Qr.Level)
	assert.Equal(t, 180, cfg.Qr.Size)
	assert.Equal(t, 0.5, cfg.Session.RegenerateRate)
	assert.Equal(t, ClipboardModeSystem, cfg.Clipboard.Mode)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte("[clipboard]\nmode = carrier-pigeon\n"), 0644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "clipboard.mode")
}

func TestAppConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *AppConfig) {}},
		{name: "empty address", mutate: func(c *AppConfig) { c.Server.ServerAddress = "" }, wantErr: "server_address"},
		{name: "no origins", mutate: func(c *AppConfig) { c.Server.AllowOrigins = nil }, wantErr: "allow_origins"},
		{name: "origin without scheme", mutate: func(c *AppConfig) { c.Server.AllowOrigins = []string{"example.com"} }, wantErr: "bad origin"},
		{name: "zero length", mutate: func(c *AppConfig) { c.Code.Length = 0 }, wantErr: "code.length"},
		{name: "zero tick", mutate: func(c *AppConfig) { c.Code.Tick = 0 }, wantErr: "durations"},
		{name: "tick longer than window", mutate: func(c *AppConfig) { c.Code.Tick = time.Hour }, wantErr: "code.tick"},
		{name: "bad level", mutate: func(c *AppConfig) { c.Qr.Level = "Z" }, wantErr: "qr.level"},
		{name: "no sessions", mutate: func(c *AppConfig) { c.Session.MaxSessions = 0 }, wantErr: "max_sessions"},
		{name: "negative rate", mutate: func(c *AppConfig) { c.Session.RegenerateRate = -1 }, wantErr: "negative"},
		{name: "bad mode", mutate: func(c *AppConfig) { c.Clipboard.Mode = "" }, wantErr: "clipboard.mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
