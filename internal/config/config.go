package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port      string
	DBDSN     string
	JWTSecret string
	JWTTTL    time.Duration
	LogFile   string
}

func Load() Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DSN", "marketbay.db") // sqlite file in project root
	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("JWT_TTL", "1h")
	v.SetDefault("LOG_FILE", "")

	cfg := Config{
		Port:      v.GetString("PORT"),
		DBDSN:     v.GetString("DB_DSN"),
		JWTSecret: v.GetString("JWT_SECRET"),
		JWTTTL:    v.GetDuration("JWT_TTL"),
		LogFile:   v.GetString("LOG_FILE"),
	}
	if cfg.JWTTTL <= 0 {
		cfg.JWTTTL = time.Hour
	}
	log.Printf("[config] PORT=%s DB_DSN=%s JWT_TTL=%s LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.JWTTTL, cfg.LogFile)
	return cfg
}
