package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"chileadicto/internal/adapters/blobstore"
	server "chileadicto/internal/adapters/http_server"
	"chileadicto/internal/adapters/observability"
	"chileadicto/internal/adapters/postgrest"
	redisad "chileadicto/internal/adapters/redis"
	"chileadicto/internal/app"
	"chileadicto/internal/shared"
	storerepo "chileadicto/internal/storage/postgrest"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, observability.MetricsHandler(reg))

	store, err := postgrest.New(cfg.StoreURL, cfg.StoreKey, cfg.StoreRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("store client init failed")
	}
	repo := storerepo.New(store)

	blobs, err := blobstore.New(cfg.StorageURL, cfg.StoreKey, cfg.StorageBucket)
	if err != nil {
		log.Fatal().Err(err).Msg("blob storage init failed")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// deps
	posts := app.NewPostService(repo, repo)
	catalog := app.NewCatalogService(repo)
	media := app.NewMediaService(blobs, cache, cfg.MediaCacheTTL)

	// http
	srv := server.New(cfg.DefaultSite)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Posts:    posts,
		Catalog:  catalog,
		Media:    media,
		AdminKey: cfg.AdminKey,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Str("site", cfg.DefaultSite).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
