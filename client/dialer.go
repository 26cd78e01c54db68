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
	"context"
	"crypto/tls"
	"net"
	"time"

	"github.com/ghostunnel/ostrust/truststore"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "tls: handshake timed out" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// ContextDialer dials plain connections. Can be a net.Dialer or a proxy dialer.
type ContextDialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// dialContextFunc adapts a function such as http.Transport.DialContext to a
// ContextDialer.
type dialContextFunc func(ctx context.Context, network, address string) (net.Conn, error)

func (f dialContextFunc) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return f(ctx, network, address)
}

type verifyingDialer struct {
	verifier *truststore.Composite
	config   *tls.Config
	timeout  time.Duration
	dialer   ContextDialer
}

// DialerWithVerifier creates a dialer that establishes TLS connections trusted
// by v. The server name defaults to the host being dialed, so that addresses
// given as IPs are verified against the certificate's IP SANs.
func DialerWithVerifier(v *truststore.Composite, config *tls.Config, timeout time.Duration, dialer ContextDialer) ContextDialer {
	return &verifyingDialer{
		verifier: v,
		config:   TLSConfig(config, v),
		timeout:  timeout,
		dialer:   dialer,
	}
}

func (d *verifyingDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	config := d.config
	if config.ServerName == "" {
		host, _, err := net.SplitHostPort(address)
		if err != nil {
			host = address
		}
		config = config.Clone()
		config.ServerName = host
		config.VerifyConnection = verifyConnection(d.verifier, host)
	}
	return dialWithDialer(ctx, d.dialer, d.timeout, network, address, config)
}

// Context-aware variant of tls.DialWithDialer that works with any ContextDialer.
func dialWithDialer(ctx context.Context, dialer ContextDialer, timeout time.Duration, network, addr string, config *tls.Config) (*tls.Conn, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, timeout, timeoutError{})
		defer cancel()
	}

	rawConn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, timeoutCause(ctx, err)
	}

	conn := tls.Client(rawConn, config)
	if err := conn.HandshakeContext(ctx); err != nil {
		rawConn.Close()
		return nil, timeoutCause(ctx, err)
	}

	return conn, nil
}

// timeoutCause replaces err with timeoutError if our own deadline expired.
func timeoutCause(ctx context.Context, err error) error {
	if _, ok := context.Cause(ctx).(timeoutError); ok {
		return timeoutError{}
	}
	return err
}
