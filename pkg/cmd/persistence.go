// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/versify/automation/pkg/persistence"
	"github.com/versify/automation/pkg/persistence/file"
	"github.com/versify/automation/pkg/persistence/postgresql"
	"github.com/versify/automation/pkg/persistence/redis"
)

// PersistenceProvider picks the backend from the URL scheme. A bare path is
// treated as a file store.
func PersistenceProvider(databaseURL string) string {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	switch scheme {
	case "postgres", "postgresql":
		return "postgres"
	case "redis", "rediss":
		return "redis"
	case "file":
		return "file"
	default:
		return scheme
	}
}

func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch provider := PersistenceProvider(databaseURL); provider {
	case "file":
		return file.NewPersistence(databaseURL), nil
	case "postgres":
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	case "redis":
		return redis.NewPersistence(ctx, logger, databaseURL)
	default:
		return nil, fmt.Errorf("unsupported persistence provider %q", provider)
	}
}
