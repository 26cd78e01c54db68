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
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// SystemStoreName is the name of the store holding Go's default trust anchors.
const SystemStoreName = "system"

// Store is a named source of trusted certificates.
type Store interface {
	// Name identifies the store in logs and trust errors.
	Name() string

	// Certificates returns the certificates in the store.
	Certificates() ([]*x509.Certificate, error)
}

// PoolStore is implemented by stores whose certificates cannot be fully
// enumerated, but which can provide a pool to verify against (e.g. the
// platform verifier backing x509.SystemCertPool on macOS and Windows).
type PoolStore interface {
	Store

	// Pool returns the pool to verify chains against.
	Pool() (*x509.CertPool, error)
}

// Possible certificate bundle files for the system store; stop after finding one.
var systemBundleFiles = []string{
	"/etc/ssl/certs/ca-certificates.crt",                // Debian/Ubuntu/Gentoo etc.
	"/etc/pki/tls/certs/ca-bundle.crt",                  // Fedora/RHEL 6
	"/etc/ssl/ca-bundle.pem",                            // OpenSUSE
	"/etc/pki/tls/cacert.pem",                           // OpenELEC
	"/etc/pki/ca-trust/extracted/pem/tls-ca-bundle.pem", // CentOS/RHEL 7
	"/etc/ssl/cert.pem",                                 // Alpine Linux, OpenBSD
	"/usr/local/share/certs/ca-root-nss.crt",            // FreeBSD
}

// Possible directories with certificate files for the system store; all are read.
var systemCertDirs = []string{
	"/etc/ssl/certs",     // SLES10/SLES11
	"/etc/pki/tls/certs", // Fedora/RHEL
}

type systemStore struct {
	bundleFiles []string
	certDirs    []string
}

// SystemStore returns the store of Go's default trust anchors, as used by
// crypto/tls when no roots are configured. Verification uses
// x509.SystemCertPool. Certificates are enumerated from the same sources
// crypto/x509 reads on Unix: the first CA bundle file found, plus every
// file in the certificate directories. SSL_CERT_FILE and SSL_CERT_DIR
// replace the defaults. On platforms where roots come from the OS verifier
// the enumeration may be empty.
func SystemStore() Store {
	files := systemBundleFiles
	if file := os.Getenv("SSL_CERT_FILE"); file != "" {
		files = []string{file}
	}
	dirs := systemCertDirs
	if dir := os.Getenv("SSL_CERT_DIR"); dir != "" {
		dirs = strings.Split(dir, ":")
	}
	return &systemStore{bundleFiles: files, certDirs: dirs}
}

func (s *systemStore) Name() string {
	return SystemStoreName
}

func (s *systemStore) Pool() (*x509.CertPool, error) {
	pool, err := x509.SystemCertPool()
	if err != nil {
		return nil, errors.Wrap(err, "unable to load system roots")
	}
	return pool, nil
}

func (s *systemStore) Certificates() ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	seen := map[string]bool{}
	add := func(data []byte) {
		decoded, _ := decodeCertificates(data)
		for _, cert := range decoded {
			if !seen[string(cert.Raw)] {
				seen[string(cert.Raw)] = true
				certs = append(certs, cert)
			}
		}
	}

	for _, file := range s.bundleFiles {
		data, err := os.ReadFile(file)
		if err == nil {
			add(data)
			break
		}
	}

	for _, dir := range s.certDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
			if err == nil {
				add(data)
			}
		}
	}

	return certs, nil
}

type bundleStore struct {
	path string
}

// BundleStore returns a store backed by a PEM-encoded CA bundle file.
func BundleStore(path string) Store {
	return &bundleStore{path: path}
}

func (s *bundleStore) Name() string {
	return s.path
}

func (s *bundleStore) Certificates() ([]*x509.Certificate, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read CA bundle '%s'", s.path)
	}

	certs, errs := decodeCertificates(data)
	if len(errs) > 0 {
		return nil, errors.Wrapf(errs[0], "unable to parse CA bundle '%s'", s.path)
	}
	if len(certs) == 0 {
		return nil, errors.Errorf("no certificates found in CA bundle '%s'", s.path)
	}
	return certs, nil
}

type staticStore struct {
	name  string
	certs []*x509.Certificate
}

// NewStore returns an in-memory store holding the given certificates.
func NewStore(name string, certs ...*x509.Certificate) Store {
	return &staticStore{
		name:  name,
		certs: append([]*x509.Certificate(nil), certs...),
	}
}

func (s *staticStore) Name() string {
	return s.name
}

func (s *staticStore) Certificates() ([]*x509.Certificate, error) {
	return append([]*x509.Certificate(nil), s.certs...), nil
}

// decodeCertificates parses all CERTIFICATE blocks in PEM data. Blocks of
// other types are ignored; certificates that fail to parse are reported in
// errs and skipped.
func decodeCertificates(data []byte) (certs []*x509.Certificate, errs []error) {
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		certs = append(certs, cert)
	}
	return
}
