package sqlite

import (
	"slices"

	"github.com/aretw0/introspection"
)

// BackendState exposes internal state for observability.
type BackendState struct {
	DSN        string `json:"dsn"`
	Open       bool   `json:"open"`
	ReadOnly   bool   `json:"read_only"`
	Migrations []int  `json:"migrations"`
}

// State implements introspection.Introspectable.
func (b *Backend) State() any {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return BackendState{
		DSN:        b.DSN(),
		Open:       b.db != nil,
		ReadOnly:   b.config.ReadOnly,
		Migrations: slices.Clone(b.migrations),
	}
}

// ComponentType implements introspection.Component.
func (b *Backend) ComponentType() string {
	return "sqlite"
}

var _ introspection.Introspectable = (*Backend)(nil)
var _ introspection.Component = (*Backend)(nil)
