// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"log/slog"

	"github.com/enactflow/enact/pkg/registry"
)

func NewRegistry(log *slog.Logger, deps registry.Dependencies) *registry.Registry {
	reg := registry.NewRegistry(log)

	reg.RegisterDefaults(deps)

	return reg
}
