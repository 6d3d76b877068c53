package router

import (
	"database/sql"
	"net/http"

	_ "pet-adoption/docs"
	"pet-adoption/internal/config"
	"pet-adoption/internal/domain/accounts"
	"pet-adoption/internal/domain/comments"
	"pet-adoption/internal/domain/favorites"
	"pet-adoption/internal/domain/posts"
	"pet-adoption/internal/domain/profiles"
	"pet-adoption/internal/domain/shelter"
	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/validation"
	"pet-adoption/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Config config.Config
	Logger logger.Logger // nil => nop

	// Opcionales. Si no vienen: tablas en memoria, sin cache, auth local.
	DB    *sql.DB
	Redis *redis.Client

	// Para tests: pisan lo que diga la config.
	AnimalSource shelter.Source
	AuthProvider auth.Provider
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	b := buildBackends(opts, log)

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.Config.HTTP.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Debug-User-ID", "X-Debug-User-Email", "X-Debug-User-Nickname"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(log))
	r.Use(middleware.Recover(log))

	r.Use(middleware.AuthContext(b.auth, opts.Config.HTTP.DevAuth))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	if b.files != nil {
		r.Handle(filesPrefix+"/*", b.files)
	}

	v := validation.New()

	// Services por módulo
	shelterSvc := shelter.NewService(b.source)
	favoritesSvc := favorites.NewService(b.favorites)
	postsSvc := posts.NewService(b.posts)
	commentsSvc := comments.NewService(b.comments, postsSvc)
	profilesSvc := profiles.NewService(b.profiles, b.objects)
	accountsSvc := accounts.NewService(b.auth, profilesSvc, v, opts.Config.BaaS.RedirectURL)

	postsSvc.SetCommentPurger(commentsSvc)
	commentsSvc.SetAvatarLookup(profilesSvc)
	postsSvc.SetLogger(log)
	profilesSvc.SetLogger(log)

	// Rutas por módulo
	shelter.RegisterRoutes(r, shelterSvc, favoritesSvc, v)
	favorites.RegisterRoutes(r, favoritesSvc, shelterSvc)
	posts.RegisterRoutes(r, postsSvc, v)
	comments.RegisterRoutes(r, commentsSvc, v)
	profiles.RegisterRoutes(r, profilesSvc, v)
	accounts.RegisterRoutes(r, accountsSvc)

	return r
}
