// Copyright 2025 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Directives hold the resolved level configuration: a default level plus
// per-logger pins.
type Directives struct {
	Default logrus.Level
	Pins    map[string]logrus.Level
}

// ParseDirectives parses a comma separated directive list, e.g.
// "mod0,mod1=debug,mod2". An item of the form "name=level" pins that
// logger. A bare item naming a level changes the default level. Any other
// bare item is a logger name; it adopts the level of the next explicit pin
// in the list, or the default level if no pin follows.
func ParseDirectives(spec string) (Directives, error) {
	d := Directives{Default: DefaultLevel, Pins: map[string]logrus.Level{}}
	var grouped []string

	for _, item := range strings.Split(spec, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, levelStr, explicit := strings.Cut(item, "=")
		if explicit {
			name, levelStr = strings.TrimSpace(name), strings.TrimSpace(levelStr)
			if name == "" {
				return Directives{}, fmt.Errorf("directive %q has no logger name", item)
			}
			level, err := logrus.ParseLevel(levelStr)
			if err != nil {
				return Directives{}, fmt.Errorf("directive %q: %w", item, err)
			}
			for _, g := range grouped {
				d.Pins[g] = level
			}
			grouped = grouped[:0]
			d.Pins[name] = level
			continue
		}
		if level, err := logrus.ParseLevel(item); err == nil {
			d.Default = level
			continue
		}
		grouped = append(grouped, item)
	}

	for _, g := range grouped {
		d.Pins[g] = d.Default
	}
	return d, nil
}

// LevelFor resolves the effective level for a logger name: an exact pin
// wins, then the longest pin that is a path prefix of the name, then the
// default level.
func (d Directives) LevelFor(name string) logrus.Level {
	if level, ok := d.Pins[name]; ok {
		return level
	}
	bestLen := -1
	level := d.Default
	for pin, pinned := range d.Pins {
		if strings.HasPrefix(name, pin+"/") && len(pin) > bestLen {
			bestLen = len(pin)
			level = pinned
		}
	}
	return level
}
