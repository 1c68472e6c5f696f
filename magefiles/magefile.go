//go:build mage

// Package main provides build targets for the catalog project using Mage.
//
// Usage:
//
//	mage build          Compile the catalog binary to bin/
//	mage test           Run all tests (postgres tests need CATALOG_POSTGRES_DSN)
//	mage testUnit       Run tests for every package except internal/postgres
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install catalog to GOPATH/bin
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo       = "go"
	binLint     = "golangci-lint"
	binaryName  = "catalog"
	binaryDir   = "bin"
	cmdDir      = "./cmd/catalog"
	versionVar  = "github.com/mesh-intelligence/catalog/internal/cli.Version"
	postgresPkg = "/internal/postgres"
)

// ldflags stamps the version from $CATALOG_VERSION, or `git describe` when
// unset, into the binary.
func ldflags() string {
	version := os.Getenv("CATALOG_VERSION")
	if version == "" {
		out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
		if err != nil || out == "" {
			return ""
		}
		version = strings.TrimPrefix(out, "v")
	}
	return fmt.Sprintf("-X %s=%s", versionVar, version)
}

// Build compiles the catalog binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v", "-o", filepath.Join(binaryDir, binaryName)}
	if flags := ldflags(); flags != "" {
		args = append(args, "-ldflags", flags)
	}
	return sh.RunV(binGo, append(args, cmdDir)...)
}

// Test runs all tests.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// TestUnit runs every package's tests except the postgres store, which needs
// a database.
func TestUnit() error {
	pkgs, err := sh.Output(binGo, "list", "./...")
	if err != nil {
		return err
	}
	var unitPkgs []string
	for _, pkg := range strings.Split(pkgs, "\n") {
		if pkg != "" && !strings.HasSuffix(pkg, postgresPkg) {
			unitPkgs = append(unitPkgs, pkg)
		}
	}
	if len(unitPkgs) == 0 {
		fmt.Println("No unit test packages found.")
		return nil
	}
	args := append([]string{"test"}, unitPkgs...)
	return sh.RunV(binGo, args...)
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV(binLint, "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
