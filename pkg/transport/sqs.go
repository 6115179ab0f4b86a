package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/abk7777/aws-json-dataset/pkg/batch"
)

type awsSQSAPI interface {
	SendMessageBatch(ctx context.Context, params *sqs.SendMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error)
}

type sqsSender struct {
	queueURL string
	api      awsSQSAPI
}

// NewSQSSender returns a sender that enqueues batch entries with
// SendMessageBatch.
func NewSQSSender(ctx context.Context, cfg Config) (batch.Sender, error) {
	if cfg.QueueURL == "" {
		return nil, errors.New("transport: sqs queue url required")
	}
	awsCfg, err := loadAWSConfig(ctx, cfg, sqs.ServiceID)
	if err != nil {
		return nil, err
	}
	return newSQSSenderWithAPI(cfg.QueueURL, sqs.NewFromConfig(awsCfg)), nil
}

func newSQSSenderWithAPI(queueURL string, api awsSQSAPI) batch.Sender {
	return &sqsSender{queueURL: queueURL, api: api}
}

func (s *sqsSender) Send(ctx context.Context, entries []batch.Entry) (batch.Result, error) {
	reqEntries := make([]types.SendMessageBatchRequestEntry, len(entries))
	for i, entry := range entries {
		reqEntries[i] = types.SendMessageBatchRequestEntry{
			Id:          aws.String(entry.ID),
			MessageBody: aws.String(string(entry.Body)),
		}
	}

	resp, err := s.api.SendMessageBatch(ctx, &sqs.SendMessageBatchInput{
		QueueUrl: aws.String(s.queueURL),
		Entries:  reqEntries,
	})
	if err != nil {
		return batch.Result{}, fmt.Errorf("sqs send message batch: %w", err)
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
