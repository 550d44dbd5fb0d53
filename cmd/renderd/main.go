package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/slamfeed/carousel/internal/api"
	"github.com/slamfeed/carousel/internal/config"
	"github.com/slamfeed/carousel/internal/layout"
	"github.com/slamfeed/carousel/internal/render"
	"github.com/slamfeed/carousel/internal/storage"
	"github.com/slamfeed/carousel/internal/worker"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	log.Info().Msg("starting render daemon")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load AWS config")
	}
	store := storage.New(s3.NewFromConfig(awsCfg), cfg.TargetBucket, cfg.AssetTimeout)

	titleFont, err := layout.LoadFont(layout.TitleFontPaths(cfg.FontDir)...)
	if err != nil {
		log.Fatal().Err(err).Msg("title font unavailable")
	}
	subtitleFont, err := layout.LoadFont(layout.SubtitleFontPaths(cfg.FontDir)...)
	if err != nil {
		log.Fatal().Err(err).Msg("subtitle font unavailable")
	}

	engine := worker.NewEngine(
		store,
		render.NewFFmpeg(cfg.FFmpegPath, cfg.FFprobePath),
		titleFont,
		subtitleFont,
	)

	handler := api.NewHandler(engine)
	router := api.NewRouter(handler, api.RouterConfig{
		APIKey:             cfg.APIKey,
		CorsAllowedOrigins: cfg.CorsAllowedOrigins,
	})

	if cfg.APIKey == "" {
		log.Warn().Msg("no RENDER_API_KEY set, API is unprotected (dev mode)")
	}

	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("render API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server exited")
}
