package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/parisbet/backend/internal/auth"
	"github.com/parisbet/backend/internal/bet"
	"github.com/parisbet/backend/internal/config"
	"github.com/parisbet/backend/internal/middleware"
	"github.com/parisbet/backend/internal/ranking"
	"github.com/parisbet/backend/internal/store"
)

// identityStore is the union of everything the handlers and engines
// need from the identity store.
type identityStore interface {
	auth.UserStore
	bet.UserStore
	ranking.StatsSource
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// ── Identity store ───────────────────────────────────────
	var users identityStore
	if cfg.PostgresDSN != "" {
		pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("postgres connect: %v", err)
		}
		defer pgPool.Close()
		pgStore := store.NewPostgresUserStore(pgPool)
		if err := pgStore.Migrate(ctx); err != nil {
			log.Fatalf("postgres migrate: %v", err)
		}
		users = pgStore
	} else {
		log.Printf("POSTGRES_DSN not set, using in-memory identity store")
		users = store.NewMemoryUserStore()
	}

	// ── Bet store ────────────────────────────────────────────
	var bets bet.BetStore
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatalf("mongo connect: %v", err)
		}
		defer mongoClient.Disconnect(ctx)
		bets = store.NewMongoBetStore(mongoClient.Database(cfg.MongoDB))
	} else {
		log.Printf("MONGO_URI not set, using in-memory bet store")
		bets = store.NewMemoryBetStore()
	}

	// ── Session registry ─────────────────────────────────────
	var sessions auth.SessionRegistry
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis connect: %v", err)
		}
		defer rdb.Close()
		sessions = auth.NewRedisSessionRegistry(rdb, cfg.SessionTTL)
	} else {
		log.Printf("REDIS_ADDR not set, using in-memory session registry")
		sessions = auth.NewMemorySessionRegistry()
	}

	// ── Engines & handlers ───────────────────────────────────
	betEngine := bet.NewEngine(bets, users)
	rankingEngine := ranking.NewEngine(users)

	authHandler := auth.NewHandler(users, sessions)
	betHandler := bet.NewHandler(betEngine)
	rankingHandler := ranking.NewHandler(rankingEngine)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"Hello from Paris Backend!"}`))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"healthy"}`))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/users", authHandler.Users)
		r.With(middleware.RequireAuth(sessions)).Get("/me", authHandler.Me)
	})

	r.With(middleware.RequireAuth(sessions)).Get("/api/profile", authHandler.Profile)

	r.Route("/api/bets", func(r chi.Router) {
		r.Get("/", betHandler.List)
		r.Get("/{id}", betHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(sessions))
			r.Post("/", betHandler.Create)
			r.Post("/{id}/vote", betHandler.Vote)
			r.Post("/{id}/resolve", betHandler.Resolve)
			r.Post("/{id}/cancel", betHandler.Cancel)
		})
	})

	r.Get("/api/ranking", rankingHandler.Get)

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("Paris backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
