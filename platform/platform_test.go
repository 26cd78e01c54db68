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

package platform

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		expected Platform
	}{
		{"darwin", Mac},
		{"Darwin", Mac},
		{"Mac OS X", Mac},
		{"MAC OS X", Mac},
		{"macOS", Mac},
		{"windows", Windows},
		{"Windows 10", Windows},
		{"WINDOWS SERVER 2019", Windows},
		{"wInDoWs", Windows},
		{"linux", Other},
		{"Linux", Other},
		{"freebsd", Other},
		{"", Other},
		{"os/2 warp", Other},
		{"my windows", Other},
		{"imac", Other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Detect(tt.name))
		})
	}
}

func TestCurrentMatchesGOOS(t *testing.T) {
	assert.Equal(t, Detect(runtime.GOOS), Current())
}

func TestCurrentIsStable(t *testing.T) {
	first := Current()

	wg := &sync.WaitGroup{}
	results := make([]Platform, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Current()
		}(i)
	}
	wg.Wait()

	for _, p := range results {
		assert.Equal(t, first, p, "platform should be computed once and never change")
	}
}

func TestPlatformString(t *testing.T) {
	assert.Equal(t, "mac", Mac.String())
	assert.Equal(t, "windows", Windows.String())
	assert.Equal(t, "other", Other.String())
	assert.Equal(t, "other", Platform(42).String())
}
