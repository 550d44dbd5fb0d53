// Package signaller reports job completion back to the surrounding workflow
// via a Step Functions task token. When no token is configured the engine is
// in local mode and the signaller is a no-op.
package signaller

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/rs/zerolog/log"

	"github.com/slamfeed/carousel/internal/models"
)

type Signaller struct {
	client *sfn.Client
	token  string
}

// New returns a signaller bound to token. An empty token disables signalling.
func New(client *sfn.Client, token string) *Signaller {
	return &Signaller{client: client, token: token}
}

func (s *Signaller) Enabled() bool {
	return s != nil && s.token != ""
}

// Success sends the job result to the workflow. Failures to signal are logged
// but never fail the job — the result was already produced.
func (s *Signaller) Success(ctx context.Context, result *models.Result) {
	if !s.Enabled() {
		return
	}
	output, err := json.Marshal(result)
	if err != nil {
		log.Warn().Err(err).Msg("cannot marshal result for task success")
		return
	}
	_, err = s.client.SendTaskSuccess(ctx, &sfn.SendTaskSuccessInput{
		TaskToken: aws.String(s.token),
		Output:    aws.String(string(output)),
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to send task success")
		return
	}
	log.Info().Msg("reported task success to workflow")
}

// Failure sends a short error cause to the workflow.
func (s *Signaller) Failure(ctx context.Context, cause string) {
	if !s.Enabled() {
		return
	}
	_, err := s.client.SendTaskFailure(ctx, &sfn.SendTaskFailureInput{
		TaskToken: aws.String(s.token),
		Error:     aws.String("RenderFailed"),
		Cause:     aws.String(cause),
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to send task failure")
		return
	}
	log.Info().Str("cause", cause).Msg("reported task failure to workflow")
}
