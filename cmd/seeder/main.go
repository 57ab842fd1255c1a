// Seeder bulk-loads legacy-shaped post payloads from a JSON file,
// pushing each through the same normalization and write path as the API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"chileadicto/internal/adapters/observability"
	"chileadicto/internal/adapters/postgrest"
	"chileadicto/internal/app"
	"chileadicto/internal/domain"
	"chileadicto/internal/shared"
	storerepo "chileadicto/internal/storage/postgrest"
)

func main() {
	var (
		file = flag.String("file", "posts.json", "JSON array of raw post payloads")
		site = flag.String("site", "", "site tag (defaults to DEFAULT_SITE)")
	)
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if *site == "" {
		*site = cfg.DefaultSite
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("read input failed")
	}
	var payloads []map[string]any
	if err := json.Unmarshal(raw, &payloads); err != nil {
		log.Fatal().Err(err).Msg("input must be a JSON array of objects")
	}

	store, err := postgrest.New(cfg.StoreURL, cfg.StoreKey, cfg.StoreRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("store client init failed")
	}
	repo := storerepo.New(store)
	posts := app.NewPostService(repo, repo)

	log.Info().Str("site", *site).Int("payloads", len(payloads)).Int("workers", cfg.SeedWorkers).Msg("seeder starting")

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	for i, payload := range payloads {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}
		wg.Add(1)
		go func(n int, p map[string]any) {
			defer wg.Done()
			defer sem.Release(1)

			slug, err := posts.Create(ctx, *site, p)
			switch {
			case errors.Is(err, domain.ErrSlugConflict):
				log.Warn().Int("index", n).Msg("skipped: slug already present")
			case err != nil:
				log.Warn().Int("index", n).Err(err).Msg("create failed")
			default:
				log.Info().Int("index", n).Str("slug", slug).Msg("created")
			}
		}(i, payload)
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}
