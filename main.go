package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"paygate-bot/bot"
	"paygate-bot/env"
	"paygate-bot/model"
	"paygate-bot/store"
	"paygate-bot/userclient"
)

const (
	dbMaxRetries = 5
	dbRetryDelay = 5 * time.Second
)

func main() {
	env.Load()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	token := env.Get("BOT_TOKEN", "")
	if token == "" {
		log.Fatal().Msg("BOT_TOKEN is not set")
	}
	appID := env.GetInt("API_ID", 0)
	appHash := env.Get("API_HASH", "")
	if appID == 0 || appHash == "" {
		log.Fatal().Msg("API_ID / API_HASH are not set")
	}

	db, err := openDatabase(log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	users := userclient.NewMTProto(appID, appHash, env.Get("SESSION_FILE", "account.session"), log)
	if err := users.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("user client start failed")
	}
	defer users.Close()

	checkEvery := time.Duration(env.GetInt("CHECK_INTERVAL_MINUTES", 60)) * time.Minute
	b, err := bot.New(token, store.New(db), users, checkEvery, log)
	if err != nil {
		log.Fatal().Err(err).Msg("bot setup failed")
	}

	// Scheduler: the sweep runs every minute, the interval check per
	// channel lives inside CheckChannels.
	c := cron.New()
	c.AddFunc("* * * * *", b.CheckChannels)
	c.Start()

	log.Info().Msg("Bot started...")
	b.Start()
}

func openDatabase(log zerolog.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		env.Get("DB_HOST", "localhost"),
		env.Get("DB_PORT", "5432"),
		env.Get("POSTGRES_USER", "postgres"),
		env.Get("POSTGRES_PASSWORD", "postgres"),
		env.Get("POSTGRES_DB", "telegram_bot_db"),
	)

	var db *gorm.DB
	var err error
	for i := 0; i < dbMaxRetries; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			return db, nil
		}
		log.Warn().Err(err).Msgf("database connect (try %d/%d)", i+1, dbMaxRetries)
		if i < dbMaxRetries-1 {
			time.Sleep(dbRetryDelay)
		}
	}
	return nil, err
}
