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

package client

import (
	"time"

	"github.com/ghostunnel/ostrust/platform"
	"github.com/ghostunnel/ostrust/truststore"
)

// Logger interface used to log information
type Logger interface {
	Printf(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Printf(format string, v ...interface{}) {}

// DefaultHandshakeTimeout bounds dialing and the TLS handshake of each connection.
const DefaultHandshakeTimeout = 10 * time.Second

// Option configures how trust is established.
type Option func(*options)

type options struct {
	algorithm    truststore.Algorithm
	defaultStore truststore.Store
	platform     platform.Platform
	stores       []truststore.Store
	storesSet    bool
	logger       Logger
	timeout      time.Duration
}

func newOptions(opts []Option) *options {
	o := &options{
		platform: platform.Current(),
		logger:   nopLogger{},
		timeout:  DefaultHandshakeTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.algorithm == nil {
		o.algorithm = truststore.PKIX(o.logger)
	}
	return o
}

// WithCABundle uses the PEM CA bundle at path as the default trust store
// instead of the system roots.
func WithCABundle(path string) Option {
	return func(o *options) {
		o.defaultStore = truststore.BundleStore(path)
	}
}

// WithDefaultStore sets the default trust store. A nil store selects the
// system roots.
func WithDefaultStore(store truststore.Store) Option {
	return func(o *options) {
		o.defaultStore = store
	}
}

// WithPlatform overrides the detected platform, and with it the native stores
// that are opened.
func WithPlatform(p platform.Platform) Option {
	return func(o *options) {
		o.platform = p
	}
}

// WithStores replaces the platform's native stores with the given ones. With
// no stores, only the default store is trusted.
func WithStores(stores ...truststore.Store) Option {
	return func(o *options) {
		o.stores = stores
		o.storesSet = true
	}
}

// WithAlgorithm sets the algorithm turning stores into verifiers.
func WithAlgorithm(alg truststore.Algorithm) Option {
	return func(o *options) {
		o.algorithm = alg
	}
}

// WithLogger logs configuration events (detected platform, opened stores).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHandshakeTimeout bounds dialing and the TLS handshake. Zero disables
// the timeout.
func WithHandshakeTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}
