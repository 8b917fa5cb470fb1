package config

import (
	"os"
	"strconv"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	Backend     string // memory | redis | mongo | postgres
	MongoURI    string
	MongoDB     string
	PostgresURL string
	RedisAddr   string
	RedisPass   string
	RedisDB     int
	Neo4jURI    string
	Neo4jUser   string
	Neo4jPass   string
	NatsURL     string
	JWTSecret   string
	UploadDir   string
	AllowOrigin string
}

func Load() Config {
	return Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		Backend:     env("PLACES_BACKEND", "memory"),
		MongoURI:    os.Getenv("MONGODB_URI"),
		MongoDB:     env("MONGODB_DATABASE", "travel"),
		PostgresURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:     atoi("REDIS_DB", 0),
		Neo4jURI:    os.Getenv("NEO4J_URI"),
		Neo4jUser:   os.Getenv("NEO4J_USER"),
		Neo4jPass:   os.Getenv("NEO4J_PASS"),
		NatsURL:     os.Getenv("NATS_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		UploadDir:   env("UPLOAD_DIR", "static/uploads"),
		AllowOrigin: env("CORS_ALLOW_ORIGIN", "http://localhost:3000"),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
