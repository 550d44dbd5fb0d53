package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/slamfeed/carousel/internal/config"
	"github.com/slamfeed/carousel/internal/layout"
	"github.com/slamfeed/carousel/internal/models"
	"github.com/slamfeed/carousel/internal/render"
	"github.com/slamfeed/carousel/internal/signaller"
	"github.com/slamfeed/carousel/internal/storage"
	"github.com/slamfeed/carousel/internal/worker"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load AWS config")
	}

	store := storage.New(s3.NewFromConfig(awsCfg), cfg.TargetBucket, cfg.AssetTimeout)
	sig := signaller.New(sfn.NewFromConfig(awsCfg), cfg.TaskToken)

	// Missing fonts are a deployment defect, not a per-job condition.
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

	handler := func(ctx context.Context, event models.Event) (*models.Result, error) {
		result, err := engine.Run(ctx, &event)
		if err != nil {
			log.Error().Err(err).Msg("render job failed")
			sig.Failure(ctx, err.Error())
			return models.ErrorResult(err), nil
		}
		sig.Success(ctx, result)
		return result, nil
	}

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(handler)
		return
	}

	// Script mode: the event arrives through the environment and the result
	// goes to stdout.
	if cfg.EventJSON == "" {
		log.Fatal().Msg("EVENT_JSON is required outside Lambda")
	}
	var event models.Event
	if err := json.Unmarshal([]byte(cfg.EventJSON), &event); err != nil {
		log.Fatal().Err(err).Msg("invalid EVENT_JSON")
	}

	result, _ := handler(ctx, event)
	out, _ := json.Marshal(result)
	fmt.Println(string(out))

	if result.Status != models.StatusRendered {
		os.Exit(1)
	}
}
