package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/abk7777/aws-json-dataset/pkg/batch"
)

type awsSNSAPI interface {
	PublishBatch(ctx context.Context, params *sns.PublishBatchInput, optFns ...func(*sns.Options)) (*sns.PublishBatchOutput, error)
}

type snsSender struct {
	topicARN string
	api      awsSNSAPI
}

// NewSNSSender returns a sender that publishes batch entries with
// PublishBatch. A successful call may still carry per-entry failures; the
// caller must inspect the result rather than assume full delivery.
func NewSNSSender(ctx context.Context, cfg Config) (batch.Sender, error) {
	if cfg.TopicARN == "" {
		return nil, errors.New("transport: sns topic arn required")
	}
	awsCfg, err := loadAWSConfig(ctx, cfg, sns.ServiceID)
	if err != nil {
		return nil, err
	}
	return newSNSSenderWithAPI(cfg.TopicARN, sns.NewFromConfig(awsCfg)), nil
}

func newSNSSenderWithAPI(topicARN string, api awsSNSAPI) batch.Sender {
	return &snsSender{topicARN: topicARN, api: api}
}

func (s *snsSender) Send(ctx context.Context, entries []batch.Entry) (batch.Result, error) {
	reqEntries := make([]types.PublishBatchRequestEntry, len(entries))
	for i, entry := range entries {
		reqEntries[i] = types.PublishBatchRequestEntry{
			Id:      aws.String(entry.ID),
			Message: aws.String(string(entry.Body)),
		}
	}

	resp, err := s.api.PublishBatch(ctx, &sns.PublishBatchInput{
		TopicArn:                   aws.String(s.topicARN),
		PublishBatchRequestEntries: reqEntries,
	})
	if err != nil {
		return batch.Result{}, fmt.Errorf("sns publish batch: %w", err)
	}

	var res batch.Result
	for _, ok := range resp.Successful {
		res.Successful = append(res.Successful, aws.ToString(ok.Id))
	}
	for _, f := range resp.Failed {
		res.Failed = append(res.Failed, batch.Failure{
			ID:     aws.ToString(f.Id),
			Reason: failureReason(f.Code, f.Message),
		})
	}
	return res, nil
}
