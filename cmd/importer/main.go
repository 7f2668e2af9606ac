package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-service/internal/config"
	"github.com/gokatarajesh/trivia-service/internal/db/postgres"
	"github.com/gokatarajesh/trivia-service/internal/db/repository"
	"github.com/gokatarajesh/trivia-service/internal/importer"
	"github.com/gokatarajesh/trivia-service/internal/logging"
	"github.com/gokatarajesh/trivia-service/internal/question/external"
)

func main() {
	var (
		amount     = flag.Int("amount", 20, "Number of questions to request (OpenTDB caps this at 50)")
		difficulty = flag.String("difficulty", "", "Optional difficulty filter: easy, medium or hard")
	)
	flag.Parse()

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load("configs/.env"); err != nil {
			log.Warn().Err(err).Msg("could not load .env file")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger := logging.New(cfg.Name+"-importer", cfg.Env)

	pg := cfg.Postgres
	pool, err := postgres.NewPool(ctx, postgres.DSN(pg.Host, pg.Port, pg.User, pg.Password, pg.Database, pg.SSLMode), postgres.PoolConfig{
		MaxConns: 2,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer pool.Close()

	client := external.NewOpenTDBClient(cfg.Import.OpenTDBURL, &http.Client{Timeout: cfg.Import.HTTPTimeout})
	im := importer.New(client, repository.NewQuestionRepository(pool), logger)

	if _, err := im.Run(ctx, *amount, *difficulty); err != nil {
		logger.Fatal().Err(err).Msg("import failed")
	}
}
