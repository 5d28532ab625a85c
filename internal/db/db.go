// Package db opens the storage backend named by the DB_URI scheme.
package db

import (
	"context"
	"fmt"
	"strings"

	"bazar-backend/internal/config"
	"bazar-backend/internal/store"
	"bazar-backend/internal/store/memstore"
	"bazar-backend/internal/store/mongostore"
	"bazar-backend/internal/store/sqlstore"

	"github.com/rs/zerolog"
)

const (
	BackendMongo  = "mongodb"
	BackendMySQL  = "mysql"
	BackendMemory = "memory"
)

// Backend reports which store a DB_URI selects and the address to hand to
// its driver.
func Backend(uri string) (kind, addr string, err error) {
	switch {
	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		return BackendMongo, uri, nil
	case strings.HasPrefix(uri, "mysql://"):
		return BackendMySQL, strings.TrimPrefix(uri, "mysql://"), nil
	case strings.HasPrefix(uri, "memory://"):
		return BackendMemory, "", nil
	default:
		return "", "", fmt.Errorf("unsupported DB_URI scheme in %q", redact(uri))
	}
}

// Open connects to the backend, pings it and prepares its schema: indexes for
// MongoDB, migrations for MySQL.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (store.Store, error) {
	kind, addr, err := Backend(cfg.DBUri)
	if err != nil {
		return nil, err
	}

	var st store.Store
	switch kind {
	case BackendMongo:
		st, err = mongostore.Open(ctx, addr, cfg.DBName)
	case BackendMySQL:
		st, err = sqlstore.Open(ctx, addr)
	case BackendMemory:
		logger.Warn().Msg("Using in-memory store, data is lost on restart")
		st = memstore.New()
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", kind, err)
	}

	logger.Info().Str("backend", kind).Str("uri", redact(cfg.DBUri)).Msg("Connected to database")
	return st, nil
}

// redact hides the password part of a connection URI.
func redact(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	creds, host, ok := strings.Cut(rest, "@")
	if !ok {
		return uri
	}
	if user, _, hasPass := strings.Cut(creds, ":"); hasPass {
		return scheme + "://" + user + ":***@" + host
	}
	return uri
}
