//go:build !windows

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
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSecurity installs a shell script in place of security(1) that prints
// stdout and exits with the given status.
func fakeSecurity(t *testing.T, stdout string, status int) {
	t.Helper()

	dir := t.TempDir()
	data := filepath.Join(dir, "out.pem")
	require.NoError(t, os.WriteFile(data, []byte(stdout), 0600))

	script := filepath.Join(dir, "security")
	body := fmt.Sprintf("#!/bin/sh\ncat '%s'\necho 'security: SecKeychainSearchCopyNext: The specified item could not be found in the keychain.' >&2\nexit %d\n", data, status)
	require.NoError(t, os.WriteFile(script, []byte(body), 0700))

	old := securityCommand
	t.Cleanup(func() { securityCommand = old })
	securityCommand = script
}

func TestKeychainStoreEmptyKeychain(t *testing.T) {
	fakeSecurity(t, "", securityItemNotFound)

	store := &keychainStore{path: "login.keychain-db"}
	certs, err := store.Certificates()
	require.NoError(t, err, "empty keychain should not be an error")
	assert.Empty(t, certs)

	verifiers, err := PKIX(nil).Verifiers(store)
	require.NoError(t, err)
	require.Len(t, verifiers, 1)
	assert.True(t, IsTrustError(verifiers[0].VerifyServerChain(serverChain(issueLeaf(newCA("root"), "leaf")), "RSA")))
}

func TestKeychainStoreCertificates(t *testing.T) {
	ca := newCA("keychain root")
	pemData, err := os.ReadFile(writeBundle(t, ca.Certificate))
	require.NoError(t, err)
	fakeSecurity(t, string(pemData), 0)

	certs, err := (&keychainStore{path: "login.keychain-db"}).Certificates()
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.True(t, ca.Certificate.Equal(certs[0]))
	assert.Equal(t, KeychainStoreName, (&keychainStore{}).Name())
}

func TestKeychainStoreCommandFailure(t *testing.T) {
	fakeSecurity(t, "", 1)

	_, err := (&keychainStore{path: "login.keychain-db"}).Certificates()
	assert.NotNil(t, err, "other exit codes should fail")
}

func TestKeychainStoreMissingCommand(t *testing.T) {
	defer func(cmd string) { securityCommand = cmd }(securityCommand)
	securityCommand = "/does/not/exist"

	_, err := (&keychainStore{path: "login.keychain-db"}).Certificates()
	require.Error(t, err)
}
