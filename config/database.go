package config

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"
)

// ConnectDatabase blocks until the pool answers a ping or the retries run out.
// The pool itself is opened once in Load and closed once at shutdown.
func ConnectDatabase(ctx context.Context, db *sql.DB) error {
	operation := func() (struct{}, error) {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("failed to reach database, retrying")
			return struct{}{}, err
		}
		return struct{}{}, nil
	}

	if _, err := retry(ctx, operation); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Msg("connected to database")
	return nil
}
