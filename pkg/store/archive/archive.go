package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/de-tools/emotion-atlas/pkg/metrics"
)

// Archiver keeps a copy of rendered analysis reports outside the database.
type Archiver interface {
	Archive(ctx context.Context, key string, body []byte) error
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Settings struct {
	Bucket           string
	Prefix           string
	Region           string
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

type s3Archiver struct {
	client   putObjectAPI
	settings Settings
	breaker  *gobreaker.CircuitBreaker[*s3.PutObjectOutput]
}

// NewS3Archiver builds an archiver from the default AWS credential chain.
func NewS3Archiver(ctx context.Context, settings Settings) (Archiver, error) {
	if settings.Bucket == "" {
		return nil, fmt.Errorf("archive bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if settings.Region != "" {
		opts = append(opts, awsconfig.WithRegion(settings.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newS3Archiver(ctx, s3.NewFromConfig(cfg), settings), nil
}

func newS3Archiver(ctx context.Context, client putObjectAPI, settings Settings) *s3Archiver {
	if settings.FailureThreshold == 0 {
		settings.FailureThreshold = 5
	}
	if settings.OpenTimeout == 0 {
		settings.OpenTimeout = 30 * time.Second
	}
	logger := zerolog.Ctx(ctx)

	cb := gobreaker.NewCircuitBreaker[*s3.PutObjectOutput](gobreaker.Settings{
		Name:        "report-archive",
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.ArchiveBreakerState.Set(breakerStateValue(to))
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("archive circuit breaker changed state")
		},
	})

	return &s3Archiver{
		client:   client,
		settings: settings,
		breaker:  cb,
	}
}

func (a *s3Archiver) Archive(ctx context.Context, key string, body []byte) error {
	objectKey := path.Join(a.settings.Prefix, key)

	_, err := a.breaker.Execute(func() (*s3.PutObjectOutput, error) {
		return a.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(a.settings.Bucket),
			Key:         aws.String(objectKey),
			Body:        bytes.NewReader(body),
			ContentType: aws.String("application/json"),
		})
	})

	switch {
	case err == nil:
		metrics.RecordArchiveUpload("ok")
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordArchiveUpload("rejected")
	default:
		metrics.RecordArchiveUpload("error")
	}
	return fmt.Errorf("archive s3://%s/%s: %w", a.settings.Bucket, objectKey, err)
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

type noopArchiver struct{}

// NewNoop returns an Archiver that drops everything.
func NewNoop() Archiver {
	return noopArchiver{}
}

func (noopArchiver) Archive(context.Context, string, []byte) error {
	return nil
}
