package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/userhub/go-token-service/internal/config"
	"github.com/userhub/go-token-service/store"
	"github.com/userhub/go-token-service/store/redisstore"
	"github.com/userhub/go-token-service/token"
	"github.com/userhub/go-token-service/token/signing"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("error running token service")
	}
	log.Info().Msg("token service stopped")
}

func run() error {
	c := config.New()
	displayAppname(c.GetAppName())

	if err := config.Validate(c); err != nil {
		return err
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.GetRedisAddr(),
		Password: c.GetRedisPassword(),
		DB:       c.GetRedisDB(),
	})
	defer client.Close()

	kv := store.WithTimeout(redisstore.New(client), c.GetStoreTimeout())
	if err := kv.Ping(context.Background()); err != nil {
		return err
	}
	log.Info().Str("addr", c.GetRedisAddr()).Msg("connected to store")

	accessSigner := signing.NewHMACSigner(
		c.GetAccessTokenSecret(), signing.KindAccess,
		c.GetAccessTokenExpiry(), c.GetIssuer(), c.GetAudience(),
	)
	refreshSigner := signing.NewHMACSigner(
		c.GetRefreshTokenSecret(), signing.KindRefresh,
		c.GetRefreshTokenExpiry(), c.GetIssuer(), c.GetAudience(),
	)

	manager, err := token.New(kv, accessSigner, refreshSigner,
		token.WithOneTimeTokenTTLs(c.GetMagicLinkExpiry(), c.GetEmailVerificationExpiry()),
		token.WithSweepBatchSize(c.GetSweepBatchSize()),
	)
	if err != nil {
		return err
	}

	sweeper := token.NewSweeper(manager, c.GetSweepInterval())
	sweeper.Start()
	log.Info().Dur("interval", c.GetSweepInterval()).Msg("cleanup sweeper started")

	waitForStopSignal()
	sweeper.Stop()
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
