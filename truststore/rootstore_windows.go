//go:build windows

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
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

type userRootStore struct {
	system string
}

// openUserRootStore checks that the current user's ROOT system store can be
// opened.
func openUserRootStore() (Store, error) {
	s := &userRootStore{system: "ROOT"}
	handle, err := s.open()
	if err != nil {
		return nil, err
	}
	windows.CertCloseStore(handle, 0)
	return s, nil
}

func (s *userRootStore) open() (windows.Handle, error) {
	name, err := windows.UTF16PtrFromString(s.system)
	if err != nil {
		return 0, err
	}

	handle, err := windows.CertOpenStore(
		windows.CERT_STORE_PROV_SYSTEM_W,
		0,
		0,
		windows.CERT_SYSTEM_STORE_CURRENT_USER|windows.CERT_STORE_READONLY_FLAG,
		uintptr(unsafe.Pointer(name)))
	if err != nil {
		return 0, errors.Wrapf(err, "unable to open current user %s certificate store", s.system)
	}
	return handle, nil
}

func (s *userRootStore) Name() string {
	return WindowsRootStoreName
}

// Certificates enumerates the store. Certificates that crypto/x509 cannot
// parse are skipped.
func (s *userRootStore) Certificates() ([]*x509.Certificate, error) {
	handle, err := s.open()
	if err != nil {
		return nil, err
	}
	defer windows.CertCloseStore(handle, 0)

	var certs []*x509.Certificate
	var ctx *windows.CertContext
	for {
		ctx, err = windows.CertEnumCertificatesInStore(handle, ctx)
		if err != nil {
			if errors.Is(err, windows.Errno(windows.CRYPT_E_NOT_FOUND)) || errors.Is(err, windows.ERROR_NO_MORE_FILES) {
				break
			}
			return nil, errors.Wrapf(err, "unable to enumerate current user %s certificate store", s.system)
		}

		// The context is freed on the next iteration, copy the DER bytes out.
		der := bytes.Clone(unsafe.Slice(ctx.EncodedCert, ctx.Length))
		cert, err := x509.ParseCertificate(der)
		if err != nil {
			continue
		}
		certs = append(certs, cert)
	}

	return certs, nil
}
