package jobs

import (
	"context"
	"log"
	"time"

	"zerowaste/internal/config"
	"zerowaste/internal/repository"
)

// StartPurgeJobは期限切れのblacklistエントリとrefreshセッションを
// 定期的に削除するgoroutineを起動する。ctxのcancelで止まる。
func StartPurgeJob(ctx context.Context, cfg config.Config, revocations repository.RevocationRepository, sessions repository.RefreshSessionRepository) {
	interval := cfg.PurgeInterval
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				now := time.Now().UTC()
				tickCtx, cancel := context.WithTimeout(ctx, 30*time.Second)

				purged, err := revocations.PurgeExpired(tickCtx, now)
				if err != nil {
					log.Printf("purge job: revocations: %v", err)
				}

				deleted, err := sessions.DeleteExpired(tickCtx, now)
				if err != nil {
					log.Printf("purge job: refresh sessions: %v", err)
				}

				cancel()
				if purged > 0 || deleted > 0 {
					log.Printf("purge job: removed %d revocation entries, %d refresh sessions", purged, deleted)
				}
			}
		}
	}()
}
