package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
)

type Config struct {
	Port      string
	DBDSN     string
	MediaDir  string
	LogFile   string
	JWTSecret string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "bookswap.db"
	} // sqlite file in project root
	media := os.Getenv("MEDIA_DIR")
	if media == "" {
		media = "./media"
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./bookswap.log"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// Tokens signed with a throwaway secret stop verifying on restart.
		// Fine for local runs; make it loud so nobody ships it.
		secret = randomSecret()
		log.Println("[config] JWT_SECRET not set; using an ephemeral secret")
	}

	cfg := Config{Port: port, DBDSN: dsn, MediaDir: media, LogFile: logFile, JWTSecret: secret}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile)
	return cfg
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatal(err)
	}
	return hex.EncodeToString(b)
}
