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

	"github.com/pkg/errors"
)

// ErrVerifierCount is returned when an Algorithm does not produce exactly one
// verifier for a store.
var ErrVerifierCount = errors.New("truststore: expected exactly one verifier")

// ErrNilVerifier is returned when an algorithm produces a nil verifier.
var ErrNilVerifier = errors.New("truststore: algorithm produced a nil verifier")

// Algorithm turns a certificate store into verifiers. A nil store selects the
// algorithm's default trust anchors.
type Algorithm interface {
	// Name of the algorithm, for logging.
	Name() string

	// Verifiers loads the store and returns the verifiers backed by it.
	Verifiers(store Store) ([]Verifier, error)
}

type pkixAlgorithm struct {
	logger Logger
}

// PKIX returns the default algorithm: chains are built and verified with
// crypto/x509 against the certificates of the store, or against the system
// roots when no store is given. The logger may be nil.
func PKIX(logger Logger) Algorithm {
	if logger == nil {
		logger = nopLogger{}
	}
	return &pkixAlgorithm{logger: logger}
}

func (a *pkixAlgorithm) Name() string {
	return "PKIX"
}

func (a *pkixAlgorithm) Verifiers(store Store) ([]Verifier, error) {
	if store == nil {
		store = SystemStore()
	}

	certs, err := store.Certificates()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load certificates from %s store", store.Name())
	}

	var roots *x509.CertPool
	if ps, ok := store.(PoolStore); ok {
		roots, err = ps.Pool()
		if err != nil {
			return nil, errors.Wrapf(err, "unable to load %s store", store.Name())
		}
	} else {
		roots = x509.NewCertPool()
		for _, cert := range certs {
			roots.AddCert(cert)
		}
	}

	a.logger.Printf("loaded %d certificate(s) from %s store", len(certs), store.Name())

	return []Verifier{
		&poolVerifier{
			store:   store.Name(),
			roots:   roots,
			issuers: certs,
		},
	}, nil
}

// newVerifier initializes alg against store and returns the single resulting
// verifier. Any other number of verifiers is a configuration error.
func newVerifier(alg Algorithm, store Store) (Verifier, error) {
	verifiers, err := alg.Verifiers(store)
	if err != nil {
		return nil, err
	}
	if len(verifiers) != 1 {
		name := SystemStoreName
		if store != nil {
			name = store.Name()
		}
		return nil, errors.Wrapf(ErrVerifierCount, "algorithm %s produced %d verifiers for %s store", alg.Name(), len(verifiers), name)
	}
	if verifiers[0] == nil {
		return nil, errors.Wrapf(ErrNilVerifier, "algorithm %s", alg.Name())
	}
	return verifiers[0], nil
}
