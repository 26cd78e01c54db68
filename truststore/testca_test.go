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
	"crypto/x509/pkix"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/github/fakeca"
	"github.com/stretchr/testify/require"
)

// newCA returns a self-signed root with the given common name.
func newCA(cn string) *fakeca.Identity {
	return fakeca.New(fakeca.IsCA, fakeca.Subject(pkix.Name{CommonName: cn}))
}

// issueLeaf issues an end-entity certificate from ca.
func issueLeaf(ca *fakeca.Identity, cn string) *fakeca.Identity {
	return ca.Issue(fakeca.Subject(pkix.Name{CommonName: cn}))
}

// serverChain returns the chain a server would present for leaf: the leaf and
// its intermediates, without the root.
func serverChain(leaf *fakeca.Identity) []*x509.Certificate {
	chain := leaf.Chain()
	return chain[:len(chain)-1]
}

// writeBundle writes certs as a PEM bundle in a temporary directory.
func writeBundle(t *testing.T, certs ...*x509.Certificate) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bundle.pem")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	for _, cert := range certs {
		require.NoError(t, pem.Encode(file, &pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw}))
	}
	return path
}
