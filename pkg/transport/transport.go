// Package transport implements the transmission and identity collaborators
// on top of the AWS SDK. Each sender wraps one service API behind a narrow
// interface so tests can substitute fakes.
package transport

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// Config carries the AWS client settings shared by every sender plus the
// per-service destination (exactly one of QueueURL, TopicARN, StreamName is
// used depending on the target).
type Config struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	QueueURL   string
	TopicARN   string
	StreamName string
}

func loadAWSConfig(ctx context.Context, cfg Config, serviceID string) (aws.Config, error) {
	if cfg.Region == "" {
		return aws.Config{}, fmt.Errorf("transport: region required")
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	}
	if cfg.Endpoint != "" {
		customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			if service == serviceID {
				return aws.Endpoint{
					URL:           cfg.Endpoint,
					PartitionID:   "aws",
					SigningRegion: cfg.Region,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, config.WithEndpointResolverWithOptions(customResolver))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("transport: load aws config: %w", err)
	}
	return awsCfg, nil
}

// failureReason folds an AWS batch error code and message into one string.
func failureReason(code, message *string) string {
	c := aws.ToString(code)
	m := aws.ToString(message)
	switch {
	case c != "" && m != "":
		return c + ": " + m
	case c != "":
		return c
	default:
		return m
	}
}
