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

// Package client configures HTTP clients to trust the operating system's
// native certificate store in addition to a default trust store.
//
// Trust decisions are made by a single truststore.Composite, consulted from
// the TLS handshake via tls.Config.VerifyConnection:
//
//	t, err := client.WithOperatingSystemTrust(http.DefaultTransport.(*http.Transport).Clone())
//	if err != nil {
//		return err
//	}
//	c := &http.Client{Transport: t}
package client
