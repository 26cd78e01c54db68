/*-
 * Copyright 2024 Square Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package platform identifies the operating system family the process is
// running on, for the purpose of locating its native certificate store.
package platform

import (
	"runtime"
	"strings"
	"sync"
)

// Platform is an operating system family with (or without) a native trust store.
type Platform int

const (
	// Other is any platform without a supported native trust store.
	Other Platform = iota
	// Mac is macOS, where the user's login keychain is consulted.
	Mac
	// Windows is Windows, where the current user's ROOT store is consulted.
	Windows
)

// Prefixes are checked in order: Mac first, then Windows.
var (
	macPrefixes     = []string{"darwin", "mac"}
	windowsPrefixes = []string{"windows"}
)

var current = sync.OnceValue(func() Platform {
	return Detect(runtime.GOOS)
})

// Current returns the platform of the running process. The result is computed
// on first use and cached for the lifetime of the process.
func Current() Platform {
	return current()
}

// Detect maps an OS-identifying string (e.g. runtime.GOOS, or a name such as
// "Mac OS X" or "Windows 10") to a Platform. Matching is a case-insensitive
// prefix match; unknown names map to Other.
func Detect(name string) Platform {
	lower := strings.ToLower(name)
	if hasAnyPrefix(lower, macPrefixes) {
		return Mac
	}
	if hasAnyPrefix(lower, windowsPrefixes) {
		return Windows
	}
	return Other
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func (p Platform) String() string {
	switch p {
	case Mac:
		return "mac"
	case Windows:
		return "windows"
	default:
		return "other"
	}
}
