// cmd/gridsolverd/main.go
//
// HTTP service entrypoint: loads the default dictionary, opens the SQLite
// store, and serves the solve/puzzle API.

package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wrieger93/gridsolver/assets"
	"github.com/wrieger93/gridsolver/internal/dict"
	"github.com/wrieger93/gridsolver/internal/httpserver"
	"github.com/wrieger93/gridsolver/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	words, err := assets.DefaultWords()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read embedded word list")
	}
	d, err := dict.New(words)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build default dictionary")
	}

	st, err := store.Open(getEnv("DB_PATH", "./data/gridsolver.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer st.Close()

	srv := httpserver.New(st, d)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Int("words", d.Len()).Msg("starting gridsolverd")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
