//go:build mage

package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Go mg.Namespace
type Test mg.Namespace

var Default = Go.Build

// Platforms with a native trust store, plus linux as the fallback platform.
var crossPlatforms = []string{"darwin/amd64", "darwin/arm64", "windows/amd64", "linux/amd64"}

// printf prints the given format and args if verbose mode is enabled.
func printf(format string, args ...interface{}) {
	if mg.Verbose() {
		fmt.Printf(format, args...)
	}
}

func ldflags() string {
	return fmt.Sprintf("-X main.buildRevision=%s -X main.buildCompiler=%s", getVersion(), runtime.Version())
}

// Build builds the ostrust binary.
func (Go) Build(ctx context.Context) error {
	return sh.Run("go", "build", "-ldflags", ldflags(), "-o", "ostrust", ".")
}

// Cross builds ostrust for every supported platform, so that the keychain and
// Windows store code is compiled even when not running on those platforms.
func (Go) Cross(ctx context.Context) error {
	for _, target := range crossPlatforms {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled: %w", err)
		}

		goos, goarch, _ := strings.Cut(target, "/")
		printf("Building for %s...\n", target)

		env := map[string]string{"GOOS": goos, "GOARCH": goarch, "CGO_ENABLED": "0"}
		out := fmt.Sprintf("dist/ostrust-%s-%s", goos, goarch)
		if goos == "windows" {
			out += ".exe"
		}
		if err := sh.RunWith(env, "go", "build", "-ldflags", ldflags(), "-o", out, "."); err != nil {
			return err
		}
	}
	return nil
}

// Unit runs the unit tests with coverage.
func (Test) Unit(ctx context.Context) error {
	printf("Running unit tests...\n")

	if err := os.MkdirAll("coverage", 0755); err != nil {
		return fmt.Errorf("failed to create coverage directory: %w", err)
	}

	return sh.Run("go", "test", "-v", "-covermode=count", "-coverprofile=coverage/unit-test.profile", "./...")
}

// Vet runs go vet for every supported platform.
func (Test) Vet(ctx context.Context) error {
	for _, target := range crossPlatforms {
		goos, goarch, _ := strings.Cut(target, "/")
		if err := sh.RunWith(map[string]string{"GOOS": goos, "GOARCH": goarch}, "go", "vet", "./..."); err != nil {
			return err
		}
	}
	return nil
}

// Fetch builds ostrust and fetches a URL with operating system trust, to
// check the native store of the machine running the build. The URL is read
// from OSTRUST_FETCH_URL.
func (Test) Fetch(ctx context.Context) error {
	mg.CtxDeps(ctx, Go.Build)

	url := os.Getenv("OSTRUST_FETCH_URL")
	if url == "" {
		url = "https://www.google.com"
	}
	return sh.RunV("./ostrust", "--metrics", "fetch", "--show-chain", url)
}

// Clean removes build artifacts.
func (Go) Clean(ctx context.Context) error {
	for _, path := range []string{"ostrust", "dist", "coverage"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// getVersion gets the version from git describe.
func getVersion() string {
	if version := os.Getenv("VERSION"); version != "" {
		return version
	}
	output, err := sh.Output("git", "describe", "--always", "--dirty")
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(output)
}
