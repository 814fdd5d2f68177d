package main

import (
	"database/sql"
	"net/http"
	"time"

	"medalert/internal/adapters/auth/jwtauth"
	"medalert/internal/adapters/storage/postgres"
	"medalert/internal/config"
	"medalert/internal/platform/logger"
	"medalert/internal/ports/auth"
	"medalert/internal/router"

	"go.uber.org/zap"
)

func main() {
	log := logger.NewFromEnv()
	defer func() { _ = log.Sync() }()

	cfg := config.Load(log)

	var db *sql.DB
	if cfg.DBDSN != "" {
		opened, err := postgres.Open(cfg.DBDSN)
		if err != nil {
			log.Fatal("could not open database", zap.Error(err))
		}
		db = opened
		defer func() { _ = db.Close() }()
	}

	var (
		verifier auth.AuthVerifier
		issuer   auth.TokenIssuer
	)
	if cfg.JWTSecret != "" {
		jwtSvc := jwtauth.New(cfg.JWTSecret, cfg.TokenTTL)
		verifier = jwtSvc
		issuer = jwtSvc
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		TokenIssuer:  issuer,
		DB:           db,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server error", zap.Error(err))
	}
}
