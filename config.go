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
	"time"

	"github.com/ghostunnel/ostrust/client"
	"github.com/ghostunnel/ostrust/platform"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Config holds the settings that can be given in a --config file. Flags
// override values from the file.
type Config struct {
	// CABundle is the default trust store; empty means the system roots.
	CABundle string `toml:"cacert"`
	// Platform overrides the detected platform ("mac", "windows" or "other").
	Platform string `toml:"platform"`
	// Timeout bounds the TLS handshake, e.g. "10s".
	Timeout string `toml:"timeout"`
	// Syslog sends logs to syslog instead of stderr.
	Syslog bool `toml:"syslog"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() *Config {
	return &Config{
		Timeout: client.DefaultHandshakeTimeout.String(),
	}
}

// LoadFromFile reads a TOML config file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}

	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}

	return cfg, nil
}

// Validate checks values that cannot be checked while parsing.
func (c *Config) Validate() error {
	switch c.Platform {
	case "", "mac", "windows", "other":
	default:
		return errors.Errorf("invalid platform '%s', should be one of mac, windows or other", c.Platform)
	}

	timeout, err := c.handshakeTimeout()
	if err != nil {
		return err
	}
	if timeout < 0 {
		return errors.New("timeout should not be negative")
	}
	return nil
}

func (c *Config) handshakeTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return client.DefaultHandshakeTimeout, nil
	}
	timeout, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid timeout '%s'", c.Timeout)
	}
	return timeout, nil
}

// targetPlatform returns the configured platform, or the detected one.
func (c *Config) targetPlatform() platform.Platform {
	if c.Platform == "" {
		return platform.Current()
	}
	return platform.Detect(c.Platform)
}

// options translates the configuration into client options. Config must have
// been validated.
func (c *Config) options(logger client.Logger) []client.Option {
	timeout, _ := c.handshakeTimeout()

	opts := []client.Option{
		client.WithLogger(logger),
		client.WithPlatform(c.targetPlatform()),
		client.WithHandshakeTimeout(timeout),
	}
	if c.CABundle != "" {
		opts = append(opts, client.WithCABundle(c.CABundle))
	}
	return opts
}
