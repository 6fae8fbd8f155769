package main

import (
	"log"
	"time"

	"github.com/muzansiddig/Veritas-Legal/internal/config"
	"github.com/muzansiddig/Veritas-Legal/internal/domain"
	"github.com/muzansiddig/Veritas-Legal/internal/infra/analysis"
	"github.com/muzansiddig/Veritas-Legal/internal/infra/blob"
	"github.com/muzansiddig/Veritas-Legal/internal/infra/db"
	"github.com/muzansiddig/Veritas-Legal/internal/infra/export"
	httpinfra "github.com/muzansiddig/Veritas-Legal/internal/infra/http"
	"github.com/muzansiddig/Veritas-Legal/internal/infra/ratelimit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	store, err := db.NewStore(cfg)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}
	if err := store.Migrate(); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	blobs, err := blob.NewFSStore(cfg.BlobDir)
	if err != nil {
		log.Fatalf("failed to init blob store: %v", err)
	}

	analyzer := analysis.NewMockAnalyzer(time.Duration(cfg.AnalysisLatencyMS) * time.Millisecond)

	var limiter domain.RateLimiter
	if cfg.RateLimitRequests > 0 {
		if cfg.RedisAddr != "" {
			limiter, err = ratelimit.NewRedisLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, nil)
			if err != nil {
				log.Fatalf("failed to init redis rate limiter: %v", err)
			}
		} else {
			limiter = ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{})
		}
	}

	srv := httpinfra.NewServer(cfg, store, blobs, analyzer, export.NewPDFRenderer(), limiter)
	if err := srv.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
