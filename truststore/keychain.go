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
	"bytes"
	"crypto/x509"
	"os/exec"

	"github.com/pkg/errors"
)

// Exit status of security(1) for errSecItemNotFound, returned by
// find-certificate when the keychain holds no certificates.
const securityItemNotFound = 44

var securityCommand = "/usr/bin/security"

type keychainStore struct {
	path string
}

func (s *keychainStore) Name() string {
	return KeychainStoreName
}

// Certificates exports all certificates from the keychain as PEM. Certificates
// that crypto/x509 cannot parse are skipped. An empty keychain has no
// certificates.
func (s *keychainStore) Certificates() ([]*x509.Certificate, error) {
	out, err := exec.Command(securityCommand, "find-certificate", "-a", "-p", s.path).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == securityItemNotFound && len(bytes.TrimSpace(out)) == 0 {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "unable to read certificates from keychain '%s'", s.path)
	}

	certs, _ := decodeCertificates(out)
	return certs, nil
}
