// Copyright 2025 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// configName is the base name of the optional configuration file,
// log.toml, looked up next to the executable and in the working directory.
const configName = "log"

// Config selects the sinks of the subsystem. A nil section leaves that
// sink out. In log.toml the sections appear as [console], [file], [server]
// and [websocket], plus a top level "directives" string.
type Config struct {
	// Directives is a level directive list, same grammar as SAFE_LOG.
	// When set it takes precedence over the environment.
	Directives string `mapstructure:"directives"`

	Console   *ConsoleConfig   `mapstructure:"console"`
	File      *FileConfig      `mapstructure:"file"`
	Server    *ServerConfig    `mapstructure:"server"`
	WebSocket *WebSocketConfig `mapstructure:"websocket"`
}

// ConsoleConfig configures the stdout sink.
type ConsoleConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	ShowThreadName bool `mapstructure:"show_thread_name"`
}

// FileConfig configures the file sink.
type FileConfig struct {
	Path           string `mapstructure:"path"`
	Append         bool   `mapstructure:"append"`
	ShowThreadName bool   `mapstructure:"show_thread_name"`
}

// ServerConfig configures the TCP server sink.
type ServerConfig struct {
	Addr           string `mapstructure:"addr"`
	NoDelay        bool   `mapstructure:"no_delay"`
	ShowThreadName bool   `mapstructure:"show_thread_name"`
}

// WebSocketConfig configures the web-socket sink.
type WebSocketConfig struct {
	URL       string `mapstructure:"url"`
	SessionID string `mapstructure:"session_id"`
}

// overridden merges the file configuration over the programmatic one.
// Sections present in the file replace their programmatic counterpart
// wholesale, so a path in log.toml beats the path passed to InitToFile.
func (c Config) overridden(file Config) Config {
	if file.Directives != "" {
		c.Directives = file.Directives
	}
	if file.Console != nil {
		c.Console = file.Console
	}
	if file.File != nil {
		c.File = file.File
	}
	if file.Server != nil {
		c.Server = file.Server
	}
	if file.WebSocket != nil {
		c.WebSocket = file.WebSocket
	}
	return c
}

// configDirs is swapped by tests to point the lookup at a scratch dir.
var configDirs = func() []string {
	dirs := []string{"."}
	if exe, err := os.Executable(); err == nil {
		dirs = append([]string{filepath.Dir(exe)}, dirs...)
	}
	return dirs
}

// loadConfigFile returns the parsed log.toml, or nil when no such file
// exists in any of the lookup directories.
func loadConfigFile() (*Config, error) {
	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("toml")
	for _, dir := range configDirs() {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading log configuration: %w", err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", v.ConfigFileUsed(), err)
	}
	return &cfg, nil
}
