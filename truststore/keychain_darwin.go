//go:build darwin

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
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// openKeychainStore locates the current user's login keychain.
func openKeychainStore() (Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "unable to locate login keychain")
	}

	path := filepath.Join(home, "Library", "Keychains", "login.keychain-db")
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(err, "unable to open login keychain")
	}

	return &keychainStore{path: path}, nil
}
