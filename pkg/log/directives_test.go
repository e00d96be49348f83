// Copyright 2025 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

func TestParseDirectives(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		spec        string
		wantDefault logrus.Level
		wantPins    map[string]logrus.Level
	}{
		{
			spec:        "",
			wantDefault: logrus.WarnLevel,
			wantPins:    map[string]logrus.Level{},
		},
		{
			spec:        "foo",
			wantDefault: logrus.WarnLevel,
			wantPins:    map[string]logrus.Level{"foo": logrus.WarnLevel},
		},
		{
			spec:        "info",
			wantDefault: logrus.InfoLevel,
			wantPins:    map[string]logrus.Level{},
		},
		{
			spec:        "foo/bar=warn",
			wantDefault: logrus.WarnLevel,
			wantPins:    map[string]logrus.Level{"foo/bar": logrus.WarnLevel},
		},
		{
			spec:        "foo/bar=error,baz=debug,qux",
			wantDefault: logrus.WarnLevel,
			wantPins: map[string]logrus.Level{
				"foo/bar": logrus.ErrorLevel,
				"baz":     logrus.DebugLevel,
				"qux":     logrus.WarnLevel,
			},
		},
		{
			// Bare names adopt the level of the next explicit pin;
			// trailing ones adopt the default set by the bare level token.
			spec:        "info,foo/bar,baz=debug,a0,a1, a2 , a3",
			wantDefault: logrus.InfoLevel,
			wantPins: map[string]logrus.Level{
				"foo/bar": logrus.DebugLevel,
				"baz":     logrus.DebugLevel,
				"a0":      logrus.InfoLevel,
				"a1":      logrus.InfoLevel,
				"a2":      logrus.InfoLevel,
				"a3":      logrus.InfoLevel,
			},
		},
	} {
		got, err := ParseDirectives(tc.spec)
		if err != nil {
			t.Fatalf("ParseDirectives(%q): %v", tc.spec, err)
		}
		if got.Default != tc.wantDefault {
			t.Errorf("ParseDirectives(%q) default = %s, want %s", tc.spec, got.Default, tc.wantDefault)
		}
		if diff := cmp.Diff(tc.wantPins, got.Pins); diff != "" {
			t.Errorf("ParseDirectives(%q) pins mismatch (-want +got):\n%s", tc.spec, diff)
		}
	}
}

func TestParseDirectivesErrors(t *testing.T) {
	t.Parallel()

	for _, spec := range []string{"=debug", "foo=", "foo=noise"} {
		if _, err := ParseDirectives(spec); err == nil {
			t.Errorf("ParseDirectives(%q) succeeded, want error", spec)
		}
	}
}

func TestLevelFor(t *testing.T) {
	t.Parallel()

	d, err := ParseDirectives("debug,api=error,api/handlers=trace")
	if err != nil {
		t.Fatal(err)
	}

	for name, want := range map[string]logrus.Level{
		"api":              logrus.ErrorLevel,
		"api/auth":         logrus.ErrorLevel,
		"api/handlers":     logrus.TraceLevel,
		"api/handlers/pss": logrus.TraceLevel,
		"apiserver":        logrus.DebugLevel,
		"unrelated":        logrus.DebugLevel,
	} {
		if got := d.LevelFor(name); got != want {
			t.Errorf("LevelFor(%q) = %s, want %s", name, got, want)
		}
	}
}
