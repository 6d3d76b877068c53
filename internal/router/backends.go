package router

import (
	"context"
	"net/http"
	"time"

	"pet-adoption/internal/adapters/auth/local"
	"pet-adoption/internal/adapters/baas"
	"pet-adoption/internal/adapters/cache/rediscache"
	memstore "pet-adoption/internal/adapters/objectstore/memory"
	miniostore "pet-adoption/internal/adapters/objectstore/minio"
	"pet-adoption/internal/adapters/shelterapi"
	mem "pet-adoption/internal/adapters/storage/memory"
	pg "pet-adoption/internal/adapters/storage/postgres"
	"pet-adoption/internal/domain/comments"
	"pet-adoption/internal/domain/favorites"
	"pet-adoption/internal/domain/posts"
	"pet-adoption/internal/domain/profiles"
	"pet-adoption/internal/domain/shelter"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/auth"
	"pet-adoption/internal/ports/objectstore"
)

const filesPrefix = "/files"

type backends struct {
	favorites favorites.Repository
	posts     posts.Repository
	comments  comments.Repository
	profiles  profiles.Repository

	objects objectstore.Store
	files   http.Handler // solo con el store en memoria

	auth   auth.Provider
	source shelter.Source
}

// buildBackends elige implementación por capa:
// tablas BaaS > Postgres > memoria; objetos BaaS > MinIO > memoria; auth BaaS > local.
func buildBackends(opts Options, log logger.Logger) backends {
	var b backends
	cfg := opts.Config

	var client *baas.Client
	if cfg.BaaS.Enabled() {
		c, err := baas.NewClient(baas.Config{
			URL:        cfg.BaaS.URL,
			AnonKey:    cfg.BaaS.AnonKey,
			ServiceKey: cfg.BaaS.ServiceKey,
			Bucket:     cfg.BaaS.Bucket,
			Timeout:    cfg.BaaS.Timeout,
		})
		if err != nil {
			log.Warn("baas disabled", map[string]any{"err": err})
		} else {
			client = c
		}
	}

	// Tablas
	switch {
	case client != nil:
		b.favorites = baas.NewFavoritesRepo(client)
		b.posts = baas.NewPostsRepo(client)
		b.comments = baas.NewCommentsRepo(client)
		b.profiles = baas.NewProfilesRepo(client)
		log.Info("tables backend", map[string]any{"backend": "baas"})
	case opts.DB != nil:
		b.favorites = pg.NewFavoritesRepo(opts.DB)
		b.posts = pg.NewPostsRepo(opts.DB)
		b.comments = pg.NewCommentsRepo(opts.DB)
		b.profiles = pg.NewProfilesRepo(opts.DB)
		log.Info("tables backend", map[string]any{"backend": "postgres"})
	default:
		b.favorites = mem.NewFavoritesRepo()
		b.posts = mem.NewPostsRepo()
		b.comments = mem.NewCommentsRepo()
		b.profiles = mem.NewProfilesRepo()
		log.Info("tables backend", map[string]any{"backend": "memory"})
	}

	// Objetos
	switch {
	case client != nil:
		b.objects = baas.NewStorage(client)
	case cfg.MinIO.Enabled():
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		store, err := miniostore.New(ctx, miniostore.Config{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
			PublicURL: cfg.MinIO.PublicURL,
		})
		cancel()
		if err == nil {
			b.objects = store
			break
		}
		log.Warn("minio unavailable, using memory object store", map[string]any{"err": err})
	}
	if b.objects == nil {
		store := memstore.New(filesPrefix)
		b.objects = store
		b.files = http.StripPrefix(filesPrefix, store)
	}

	// Auth
	switch {
	case opts.AuthProvider != nil:
		b.auth = opts.AuthProvider
	case client != nil:
		b.auth = baas.NewAuthProvider(client)
	case opts.Redis != nil:
		b.auth = local.NewProvider(local.NewRedisSessions(opts.Redis))
	default:
		b.auth = local.NewProvider(local.NewMemorySessions())
	}

	b.source = buildSource(opts, log)
	return b
}

func buildSource(opts Options, log logger.Logger) shelter.Source {
	if opts.AnimalSource != nil {
		return opts.AnimalSource
	}

	cfg := opts.Config.Shelter
	api := shelterapi.NewClient(shelterapi.Config{
		BaseURL:   cfg.URL,
		APIKey:    cfg.APIKey,
		PageSize:  cfg.PageSize,
		PageIndex: cfg.PageNo,
		Timeout:   cfg.Timeout,
		RPS:       cfg.RPS,
	}, log)
	if !api.IsConfigured() {
		log.Warn("SHELTER_API_KEY not set, serving sample animals", nil)
		return mem.NewAnimalSource(mem.SampleAnimals())
	}

	if opts.Redis == nil {
		return api
	}
	return rediscache.New(api, opts.Redis, cfg.CacheTTL, log)
}
