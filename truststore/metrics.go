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
	"github.com/rcrowley/go-metrics"
)

var (
	acceptCounter      = metrics.GetOrRegisterCounter("trust.verify.accept", metrics.DefaultRegistry)
	rejectCounter      = metrics.GetOrRegisterCounter("trust.verify.reject", metrics.DefaultRegistry)
	errorCounter       = metrics.GetOrRegisterCounter("trust.verify.error", metrics.DefaultRegistry)
	unsupportedCounter = metrics.GetOrRegisterCounter("trust.verify.unsupported", metrics.DefaultRegistry)
	verifyTimer        = metrics.GetOrRegisterTimer("trust.verify", metrics.DefaultRegistry)
)

// recordResult counts the outcome of one composite verification.
func recordResult(err error) {
	switch {
	case err == nil:
		acceptCounter.Inc(1)
	case IsTrustError(err):
		rejectCounter.Inc(1)
	default:
		errorCounter.Inc(1)
	}
}
