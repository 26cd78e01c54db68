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

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ghostunnel/ostrust/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ostrust.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestConfigDefaults(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	timeout, err := cfg.handshakeTimeout()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, timeout)
	assert.Equal(t, platform.Current(), cfg.targetPlatform())
	assert.False(t, cfg.Syslog)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
cacert = "/etc/ostrust/ca.pem"
platform = "windows"
timeout = "3s"
syslog = true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/etc/ostrust/ca.pem", cfg.CABundle)
	assert.Equal(t, platform.Windows, cfg.targetPlatform())
	assert.True(t, cfg.Syslog)

	timeout, err := cfg.handshakeTimeout()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, timeout)
}

func TestLoadFromFileKeepsDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "cacert = \"ca.pem\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "10s", cfg.Timeout)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.NotNil(t, err)

	_, err = LoadFromFile(writeConfig(t, "cacert = "))
	assert.NotNil(t, err, "invalid toml should be rejected")
}

func TestConfigValidate(t *testing.T) {
	assert.NotNil(t, (&Config{Platform: "plan9"}).Validate())
	assert.NotNil(t, (&Config{Timeout: "forever"}).Validate())
	assert.NotNil(t, (&Config{Timeout: "-1s"}).Validate())
	assert.Nil(t, (&Config{Platform: "mac", Timeout: "0s"}).Validate())
}

func TestFlagsOverrideConfig(t *testing.T) {
	path := writeConfig(t, `
cacert = "from-file.pem"
platform = "mac"
timeout = "3s"
`)

	c := newCLI()
	_, err := c.app.Parse([]string{"--config", path, "--cacert", "from-flag.pem", "--platform", "OTHER", "platform"})
	require.NoError(t, err)

	cfg, err := c.config()
	require.NoError(t, err)
	assert.Equal(t, "from-flag.pem", cfg.CABundle)
	assert.Equal(t, platform.Other, cfg.targetPlatform())
	assert.Equal(t, "3s", cfg.Timeout)

	assert.Len(t, cfg.options(logger), 4)
}
