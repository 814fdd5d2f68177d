package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Addr string

	// DSN de Postgres. Vacío => repos in-memory (modo dev/demo).
	DBDSN string

	// Secreto HS256 para tokens. Vacío => modo dev con X-Debug-User-ID.
	JWTSecret string
	TokenTTL  time.Duration
}

const defaultTokenTTL = 7 * 24 * time.Hour

// Load lee .env (si existe) y arma la config desde env.
// Nada es fatal acá: los vacíos habilitan los modos dev descritos arriba.
func Load(log *zap.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using system env")
	}

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	cfg := &Config{
		Addr:      addr,
		DBDSN:     os.Getenv("DB_DSN"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  parseTTL(os.Getenv("TOKEN_TTL_HOURS"), log),
	}

	if cfg.DBDSN == "" {
		log.Warn("DB_DSN not set, falling back to in-memory storage")
	}
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, auth runs in debug-header mode")
	}

	return cfg
}

func parseTTL(s string, log *zap.Logger) time.Duration {
	if s == "" {
		return defaultTokenTTL
	}
	h, err := strconv.Atoi(s)
	if err != nil || h <= 0 {
		log.Warn("invalid TOKEN_TTL_HOURS, using default", zap.String("value", s))
		return defaultTokenTTL
	}
	return time.Duration(h) * time.Hour
}
