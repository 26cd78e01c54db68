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
	"github.com/ghostunnel/ostrust/platform"
	"github.com/pkg/errors"
)

const (
	// KeychainStoreName is the name of the macOS login keychain store.
	KeychainStoreName = "KeychainStore"
	// WindowsRootStoreName is the name of the Windows current-user ROOT store.
	WindowsRootStoreName = "Windows-ROOT"
)

// ErrStoreUnavailable is returned when opening a native store that does not
// exist on the running platform.
var ErrStoreUnavailable = errors.New("truststore: store not available on this platform")

// Stores returns the native trust stores consulted on platform p, in order.
// Platforms without a supported native store return no stores.
func Stores(p platform.Platform) ([]Store, error) {
	var open func() (Store, error)
	var name string
	switch p {
	case platform.Mac:
		open, name = openKeychainStore, KeychainStoreName
	case platform.Windows:
		open, name = openUserRootStore, WindowsRootStoreName
	default:
		return nil, nil
	}

	store, err := open()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s trust store", name)
	}
	return []Store{store}, nil
}

// VerifiersFor returns one verifier per native trust store of platform p,
// each produced by alg. Other platforms yield an empty, non-nil slice.
func VerifiersFor(p platform.Platform, alg Algorithm) ([]Verifier, error) {
	stores, err := Stores(p)
	if err != nil {
		return nil, err
	}
	return VerifiersForStores(alg, stores...)
}

// VerifiersForStores returns one verifier per store, in order.
func VerifiersForStores(alg Algorithm, stores ...Store) ([]Verifier, error) {
	verifiers := make([]Verifier, 0, len(stores))
	for _, store := range stores {
		if store == nil {
			return nil, errors.New("truststore: nil store")
		}
		v, err := newVerifier(alg, store)
		if err != nil {
			return nil, err
		}
		verifiers = append(verifiers, v)
	}
	return verifiers, nil
}

// DefaultVerifier returns the verifier for the default trust material: store,
// or the system roots if store is nil.
func DefaultVerifier(alg Algorithm, store Store) (Verifier, error) {
	return newVerifier(alg, store)
}
