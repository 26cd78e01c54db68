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
	"crypto/tls"
	"net"
	"net/http"

	"github.com/ghostunnel/ostrust/truststore"
	"github.com/pkg/errors"
)

// NewVerifier builds the composite verifier: the default store first,
// followed by the native stores of the platform.
func NewVerifier(opts ...Option) (*truststore.Composite, error) {
	return newOptions(opts).verifier()
}

func (o *options) verifier() (*truststore.Composite, error) {
	def, err := truststore.DefaultVerifier(o.algorithm, o.defaultStore)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load default trust store")
	}

	var native []truststore.Verifier
	if o.storesSet {
		native, err = truststore.VerifiersForStores(o.algorithm, o.stores...)
	} else {
		o.logger.Printf("using native trust stores for platform %s", o.platform)
		native, err = truststore.VerifiersFor(o.platform, o.algorithm)
	}
	if err != nil {
		return nil, err
	}

	return truststore.NewComposite(append([]truststore.Verifier{def}, native...)...), nil
}

// WithOperatingSystemTrust configures t to trust the default store and the
// native stores of the platform. It installs a TLS client config and a TLS
// dialer on t, and returns t. Stores are loaded once, here; errors opening or
// loading a store are returned.
func WithOperatingSystemTrust(t *http.Transport, opts ...Option) (*http.Transport, error) {
	if t == nil {
		return nil, errors.New("client: nil transport")
	}

	o := newOptions(opts)
	v, err := o.verifier()
	if err != nil {
		return nil, err
	}

	var dialer ContextDialer = &net.Dialer{Timeout: o.timeout}
	if t.DialContext != nil {
		dialer = dialContextFunc(t.DialContext)
	}

	config := TLSConfig(t.TLSClientConfig, v)
	t.TLSClientConfig = config
	t.DialTLSContext = DialerWithVerifier(v, config, o.timeout, dialer).DialContext

	return t, nil
}

// NewHTTPClient returns an HTTP client over a copy of http.DefaultTransport,
// configured by WithOperatingSystemTrust.
func NewHTTPClient(opts ...Option) (*http.Client, error) {
	t, err := WithOperatingSystemTrust(http.DefaultTransport.(*http.Transport).Clone(), opts...)
	if err != nil {
		return nil, err
	}
	return &http.Client{Transport: t}, nil
}

// TLSConfig returns a copy of base (which may be nil) in which v is the only
// trust decision: built-in chain verification is disabled and replaced by v,
// followed by a hostname check against the server name. The hostname check
// is not subject to the composite's fallback.
//
// The server name is base.ServerName if set, otherwise the SNI of the
// connection. Since no SNI is sent for IP addresses, connections to an IP
// address should go through DialerWithVerifier or set ServerName.
func TLSConfig(base *tls.Config, v *truststore.Composite) *tls.Config {
	var config *tls.Config
	if base == nil {
		config = &tls.Config{MinVersion: tls.VersionTLS12}
	} else {
		config = base.Clone()
	}

	config.InsecureSkipVerify = true
	config.VerifyPeerCertificate = nil
	config.VerifyConnection = verifyConnection(v, config.ServerName)
	return config
}

// verifyConnection returns a callback that verifies the peer chain with v and
// checks the leaf against serverName, or the connection's SNI if serverName is
// empty.
func verifyConnection(v *truststore.Composite, serverName string) func(tls.ConnectionState) error {
	return func(cs tls.ConnectionState) error {
		if len(cs.PeerCertificates) == 0 {
			return truststore.ErrEmptyChain
		}

		leaf := cs.PeerCertificates[0]
		if err := v.VerifyServerChain(cs.PeerCertificates, truststore.AuthType(leaf)); err != nil {
			return err
		}

		name := serverName
		if name == "" {
			name = cs.ServerName
		}
		if name == "" {
			return errors.New("client: no server name to verify certificate against")
		}
		return leaf.VerifyHostname(name)
	}
}
