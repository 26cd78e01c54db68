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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRootStore(t *testing.T) {
	store, err := openUserRootStore()
	require.NoError(t, err)
	assert.Equal(t, WindowsRootStoreName, store.Name())

	certs, err := store.Certificates()
	require.NoError(t, err)
	for _, cert := range certs {
		assert.NotEmpty(t, cert.Raw)
	}
}
