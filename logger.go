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

package main

import (
	"fmt"
	"log"
	"os"

	gsyslog "github.com/hashicorp/go-syslog"
	"github.com/pkg/errors"
)

const logFlags = log.LstdFlags | log.Lmicroseconds

// Global logger instance
var logger = log.New(os.Stderr, "", logFlags)

func initLogger(useSyslog bool) error {
	if useSyslog {
		syslogWriter, err := gsyslog.NewLogger(gsyslog.LOG_NOTICE, "DAEMON", "ostrust")
		if err != nil {
			return errors.Wrap(err, "unable to set up syslog")
		}
		logger = log.New(syslogWriter, "", logFlags)
	}

	// Set log prefix to process ID
	logger.SetPrefix(fmt.Sprintf("[%5d] ", os.Getpid()))
	return nil
}
