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

package truststore

import (
	"crypto/x509"
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyChain is returned when asked to verify a chain without a leaf.
	ErrEmptyChain = errors.New("truststore: empty certificate chain")
	// ErrMalformedChain is returned when a chain contains nil certificates.
	ErrMalformedChain = errors.New("truststore: malformed certificate chain")
	// ErrInvalidAuthType is returned when the authentication type is empty.
	ErrInvalidAuthType = errors.New("truststore: invalid authentication type")
	// ErrUnsupported is returned for client chain verification, which is not
	// supported by this package.
	ErrUnsupported = errors.New("truststore: operation not supported")
)

// Verifier decides whether a certificate chain presented by a server is
// trusted by some certificate store. Implementations must be safe for
// concurrent use once constructed.
type Verifier interface {
	// VerifyServerChain validates the chain (leaf first) presented by a
	// server using the given authentication type. It returns nil if the
	// chain is trusted, a *TrustError if the store rejects the chain, and
	// any other error if the input itself is invalid.
	VerifyServerChain(chain []*x509.Certificate, authType string) error

	// AcceptedIssuers returns the certificate authorities this verifier
	// recognizes. The slice may be empty if the store cannot be enumerated.
	AcceptedIssuers() []*x509.Certificate
}

// TrustError is returned when a store does not trust a certificate chain.
type TrustError struct {
	// Store is the name of the rejecting store.
	Store string
	// Err is the underlying verification error from crypto/x509.
	Err error
}

func (e *TrustError) Error() string {
	return fmt.Sprintf("certificate not trusted by %s store: %s", e.Store, e.Err)
}

func (e *TrustError) Unwrap() error {
	return e.Err
}

// IsTrustError returns true if err is (or wraps) a *TrustError.
func IsTrustError(err error) bool {
	var trustErr *TrustError
	return errors.As(err, &trustErr)
}

// AuthType returns the authentication type for a leaf certificate, derived from
// its public key algorithm ("RSA", "ECDSA" or "Ed25519").
func AuthType(leaf *x509.Certificate) string {
	if leaf == nil || leaf.PublicKeyAlgorithm == x509.UnknownPublicKeyAlgorithm {
		return ""
	}
	return leaf.PublicKeyAlgorithm.String()
}

// poolVerifier verifies chains against a fixed set of roots. It is immutable
// after construction.
type poolVerifier struct {
	store   string
	roots   *x509.CertPool
	issuers []*x509.Certificate
}

func (v *poolVerifier) VerifyServerChain(chain []*x509.Certificate, authType string) error {
	if len(chain) == 0 {
		return ErrEmptyChain
	}
	for _, cert := range chain {
		if cert == nil {
			return ErrMalformedChain
		}
	}
	if authType == "" {
		return ErrInvalidAuthType
	}

	intermediates := x509.NewCertPool()
	for _, cert := range chain[1:] {
		intermediates.AddCert(cert)
	}

	_, err := chain[0].Verify(x509.VerifyOptions{
		Roots:         v.roots,
		Intermediates: intermediates,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	})
	if err != nil {
		return &TrustError{Store: v.store, Err: err}
	}
	return nil
}

func (v *poolVerifier) AcceptedIssuers() []*x509.Certificate {
	out := make([]*x509.Certificate, len(v.issuers))
	copy(out, v.issuers)
	return out
}
