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
	"fmt"
	"time"
)

// Composite is a Verifier that trusts a chain if any of its member verifiers
// does. Members are consulted in order and the first acceptance wins. A
// Composite is immutable and safe for concurrent use.
type Composite struct {
	verifiers []Verifier
}

var _ Verifier = (*Composite)(nil)

// NewComposite returns a Composite over the given verifiers, in order. It
// panics if no verifiers are given or any of them is nil.
func NewComposite(verifiers ...Verifier) *Composite {
	if len(verifiers) == 0 {
		panic("truststore: composite verifier needs at least one verifier")
	}
	for i, v := range verifiers {
		if v == nil {
			panic(fmt.Sprintf("truststore: composite verifier member %d is nil", i))
		}
	}
	return &Composite{
		verifiers: append([]Verifier(nil), verifiers...),
	}
}

// VerifyServerChain tries each member in order. A *TrustError from any member
// but the last moves on to the next one. The last member's result is
// returned unchanged, so a rejection names the last store consulted. Errors
// that are not trust errors (malformed input) are returned immediately.
func (c *Composite) VerifyServerChain(chain []*x509.Certificate, authType string) (err error) {
	defer func(start time.Time) {
		verifyTimer.UpdateSince(start)
		recordResult(err)
	}(time.Now())

	last := len(c.verifiers) - 1
	for _, v := range c.verifiers[:last] {
		err = v.VerifyServerChain(chain, authType)
		if err == nil || !IsTrustError(err) {
			return err
		}
	}
	return c.verifiers[last].VerifyServerChain(chain, authType)
}

// VerifyClientChain is not supported; the composite is only used to verify
// servers.
func (c *Composite) VerifyClientChain(chain []*x509.Certificate, authType string) error {
	unsupportedCounter.Inc(1)
	return ErrUnsupported
}

// AcceptedIssuers returns the accepted issuers of all members, concatenated
// in member order. Duplicates are kept.
func (c *Composite) AcceptedIssuers() []*x509.Certificate {
	var issuers []*x509.Certificate
	for _, v := range c.verifiers {
		issuers = append(issuers, v.AcceptedIssuers()...)
	}
	if issuers == nil {
		issuers = []*x509.Certificate{}
	}
	return issuers
}

// Len returns the number of member verifiers.
func (c *Composite) Len() int {
	return len(c.verifiers)
}
