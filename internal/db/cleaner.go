package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartScanHistoryCleaner prunes old phishing scan records on an interval
func StartScanHistoryCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-retention)
				res, err := db.ExecContext(ctx, `
                    DELETE FROM phishing_scans
                     WHERE created_at < $1
                `, cutoff)
				if err != nil {
					log.Error("failed to clean phishing scan history", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned phishing scan history", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
