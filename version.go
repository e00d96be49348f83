// Copyright 2026 The MaidSafe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package utilities

var (
	version    = "1.0.0" // manually set semantic version number
	commitHash string    // automatically set git commit hash

	// Version is the full version string reported by binaries.
	Version = func() string {
		if commitHash != "" {
			return version + "-" + commitHash
		}
		return version + "-dev"
	}()
)
