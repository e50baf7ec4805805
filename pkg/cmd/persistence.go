// Package cmd provides common initialization helpers for the command-line
// binaries.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stayops/stayops/pkg/persistence"
	"github.com/stayops/stayops/pkg/persistence/file"
	"github.com/stayops/stayops/pkg/persistence/postgresql"
)

// NewPersistence selects the persistence backend from the database URL
// scheme. "postgres://" and "postgresql://" select PostgreSQL; anything else
// falls back to file persistence.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) persistence.Persistence {
	scheme, _, _ := strings.Cut(databaseURL, "://")

	switch scheme {
	case "postgres", "postgresql":
		p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to create PostgreSQL persistence: %w", err))
		}

		return p
	default:
		return file.NewPersistence(databaseURL)
	}
}
