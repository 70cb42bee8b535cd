//go:build tools
// +build tools

// Package tasklab pins the code generators run by `go generate` (mockgen)
// so that go.mod and go.sum track them like any other dependency.
package tasklab

import (
	_ "go.uber.org/mock/mockgen"
)
