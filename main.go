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
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/ghostunnel/ostrust/client"
	"github.com/ghostunnel/ostrust/truststore"
	"github.com/pkg/errors"
	"github.com/rcrowley/go-metrics"
	certigo "github.com/square/certigo/lib"
)

// These are initialized via -ldflags
var buildRevision = "unknown"
var buildCompiler = "unknown"

// Overridden in tests
var exitFunc = os.Exit

type cli struct {
	app *kingpin.Application

	configPath    *string
	caBundlePath  *string
	platformName  *string
	timeout       *string
	useSyslog     *bool
	dumpMetrics   *bool
	metricsPrefix *string
	width         *int
	verbose       *bool

	platformCommand *kingpin.CmdClause

	issuersCommand *kingpin.CmdClause
	issuersJSON    *bool

	fetchCommand *kingpin.CmdClause
	fetchURL     *string
	fetchChain   *bool
}

func newCLI() *cli {
	c := &cli{}
	c.app = kingpin.New("ostrust", "Inspect and exercise TLS trust in the operating system's certificate store.")
	c.app.Version(fmt.Sprintf("rev %s built with %s", buildRevision, buildCompiler))

	c.configPath = c.app.Flag("config", "Path to TOML config file (keys: cacert, platform, timeout, syslog).").PlaceHolder("PATH").String()
	c.caBundlePath = c.app.Flag("cacert", "Path to CA bundle used as the default trust store (PEM/X509, default: system roots).").PlaceHolder("PATH").String()
	c.platformName = c.app.Flag("platform", "Override the detected platform (mac, windows or other).").PlaceHolder("NAME").String()
	c.timeout = c.app.Flag("timeout", "Timeout for dialing and the TLS handshake (e.g. 10s).").PlaceHolder("DURATION").String()
	c.useSyslog = c.app.Flag("syslog", "Send logs to syslog instead of stderr.").Bool()
	c.dumpMetrics = c.app.Flag("metrics", "Print collected trust metrics as JSON after the command.").Bool()
	c.metricsPrefix = c.app.Flag("metrics-prefix", fmt.Sprintf("Set prefix string for all reported metrics (default: %s).", defaultMetricsPrefix)).PlaceHolder("PREFIX").Default(defaultMetricsPrefix).String()

	c.width = c.app.Flag("width", "Wrap certificate output to this many columns.").Default("80").Int()
	c.verbose = c.app.Flag("verbose", "Print all certificate fields.").Short('v').Bool()

	c.platformCommand = c.app.Command("platform", "Show the detected platform and the trust stores it consults.")

	c.issuersCommand = c.app.Command("issuers", "List the certificate authorities accepted by the composite verifier.")
	c.issuersJSON = c.issuersCommand.Flag("json", "Print issuers as JSON.").Bool()

	c.fetchCommand = c.app.Command("fetch", "Fetch a URL with operating system trust and print the result.")
	c.fetchURL = c.fetchCommand.Arg("url", "HTTPS URL to fetch.").Required().String()
	c.fetchChain = c.fetchCommand.Flag("show-chain", "Print the certificate chain presented by the server.").Bool()

	return c
}

func (c *cli) display() displayOptions {
	return displayOptions{width: *c.width, verbose: *c.verbose}
}

// config merges the config file (if any) with flags. Flags win.
func (c *cli) config() (*Config, error) {
	cfg := Defaults()
	if *c.configPath != "" {
		var err error
		cfg, err = LoadFromFile(*c.configPath)
		if err != nil {
			return nil, err
		}
	}

	if *c.caBundlePath != "" {
		cfg.CABundle = *c.caBundlePath
	}
	if *c.platformName != "" {
		cfg.Platform = strings.ToLower(*c.platformName)
	}
	if *c.timeout != "" {
		cfg.Timeout = *c.timeout
	}
	if *c.useSyslog {
		cfg.Syslog = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "error: no command provided, try --help\n")
		exitFunc(1)
		return
	}

	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		exitFunc(1)
	}
}

func run(args []string, out io.Writer) (err error) {
	c := newCLI()
	command, err := c.app.Parse(args)
	if err != nil {
		return errors.Errorf("%s, try --help", err)
	}

	cfg, err := c.config()
	if err != nil {
		return err
	}
	if err := initLogger(cfg.Syslog); err != nil {
		return err
	}

	if *c.dumpMetrics {
		defer func() {
			merr := newMetricsConfig(metrics.DefaultRegistry, *c.metricsPrefix).writeMetrics(out)
			if err == nil {
				err = merr
			}
		}()
	}

	opts := cfg.options(logger)
	switch command {
	case c.platformCommand.FullCommand():
		return runPlatform(out, cfg)
	case c.issuersCommand.FullCommand():
		return runIssuers(out, opts, *c.issuersJSON, c.display())
	case c.fetchCommand.FullCommand():
		return runFetch(out, opts, *c.fetchURL, *c.fetchChain, c.display())
	}

	return errors.Errorf("unknown command '%s'", command)
}

func runPlatform(out io.Writer, cfg *Config) error {
	p := cfg.targetPlatform()
	fmt.Fprintf(out, "platform: %s\n", p)

	defaultStore := truststore.SystemStoreName
	if cfg.CABundle != "" {
		defaultStore = cfg.CABundle
	}
	fmt.Fprintf(out, "default store: %s\n", defaultStore)

	stores, err := truststore.Stores(p)
	if err != nil {
		return err
	}
	if len(stores) == 0 {
		fmt.Fprintf(out, "native stores: none\n")
		return nil
	}

	names := make([]string, 0, len(stores))
	for _, store := range stores {
		names = append(names, store.Name())
	}
	fmt.Fprintf(out, "native stores: %s\n", strings.Join(names, ", "))
	return nil
}

func runIssuers(out io.Writer, opts []client.Option, asJSON bool, display displayOptions) error {
	v, err := client.NewVerifier(opts...)
	if err != nil {
		return err
	}

	issuers := v.AcceptedIssuers()
	if asJSON {
		objects := make([]interface{}, 0, len(issuers))
		for _, cert := range issuers {
			objects = append(objects, certigo.EncodeX509ToObject(cert))
		}
		return writeJSON(out, objects)
	}

	for i, cert := range issuers {
		fmt.Fprintf(out, "** ISSUER %d **\n", i+1)
		display.writeCertificate(out, cert)
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "%d accepted issuer(s)\n", len(issuers))
	return nil
}

func runFetch(out io.Writer, opts []client.Option, url string, showChain bool, display displayOptions) error {
	if !strings.HasPrefix(url, "https://") {
		return errors.Errorf("url '%s' should start with https://", url)
	}

	httpClient, err := client.NewHTTPClient(opts...)
	if err != nil {
		return err
	}

	resp, err := httpClient.Get(url)
	if err != nil {
		if truststore.IsTrustError(err) {
			return errors.Wrapf(err, "untrusted server certificate for %s", url)
		}
		return err
	}
	defer resp.Body.Close()

	n, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return errors.Wrap(err, "reading response")
	}

	fmt.Fprintf(out, "%s %s (%d bytes)\n", resp.Proto, resp.Status, n)
	if showChain && resp.TLS != nil {
		fmt.Fprintln(out, certigo.EncodeTLSInfoToText(resp.TLS, nil))
		for i, cert := range resp.TLS.PeerCertificates {
			fmt.Fprintf(out, "** CERTIFICATE %d **\n", i+1)
			display.writeCertificate(out, cert)
			fmt.Fprintln(out)
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("server returned %s", resp.Status)
	}
	return nil
}
