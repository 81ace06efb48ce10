//go:build mage

// Package main provides build targets for tinyj using Mage.
//
// Usage:
//
//	mage build        Compile tinyj to bin/
//	mage test:all     Run all tests
//	mage test:unit    Run tests with the race detector
//	mage test:cover   Write coverage.out and print a summary
//	mage lint         Run golangci-lint
//	mage clean        Remove build artifacts
//	mage install      Install tinyj to GOPATH/bin
//	mage stats        Print Go LOC and documentation word counts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "tinyj"
	binaryDir  = "bin"
	cmdDir     = "./cmd/tinyj"
)

// Default target when mage runs without arguments.
var Default = Build

// Build compiles the tinyj binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	for _, p := range []string{binaryDir, coverFile} {
		if err := os.RemoveAll(p); err != nil {
			return err
		}
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
