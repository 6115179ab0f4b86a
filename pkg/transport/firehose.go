package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/firehose"
	"github.com/aws/aws-sdk-go-v2/service/firehose/types"

	"github.com/abk7777/aws-json-dataset/pkg/batch"
)

type awsFirehoseAPI interface {
	PutRecordBatch(ctx context.Context, params *firehose.PutRecordBatchInput, optFns ...func(*firehose.Options)) (*firehose.PutRecordBatchOutput, error)
}

type firehoseSender struct {
	streamName string
	api        awsFirehoseAPI
}

// NewFirehoseSender returns a sender that streams batch entries with
// PutRecordBatch. Records are newline-terminated so the delivery stream's
// output stays line-delimited.
func NewFirehoseSender(ctx context.Context, cfg Config) (batch.Sender, error) {
	if cfg.StreamName == "" {
		return nil, errors.New("transport: firehose stream name required")
	}
	awsCfg, err := loadAWSConfig(ctx, cfg, firehose.ServiceID)
	if err != nil {
		return nil, err
	}
	return newFirehoseSenderWithAPI(cfg.StreamName, firehose.NewFromConfig(awsCfg)), nil
}

func newFirehoseSenderWithAPI(streamName string, api awsFirehoseAPI) batch.Sender {
	return &firehoseSender{streamName: streamName, api: api}
}

func (s *firehoseSender) Send(ctx context.Context, entries []batch.Entry) (batch.Result, error) {
	records := make([]types.Record, len(entries))
	for i, entry := range entries {
		data := make([]byte, 0, len(entry.Body)+1)
		data = append(data, entry.Body...)
		data = append(data, '\n')
		records[i] = types.Record{Data: data}
	}

	resp, err := s.api.PutRecordBatch(ctx, &firehose.PutRecordBatchInput{
		DeliveryStreamName: aws.String(s.streamName),
		Records:            records,
	})
	if err != nil {
		return batch.Result{}, fmt.Errorf("firehose put record batch: %w", err)
	}

	// Firehose reports outcomes positionally: RequestResponses[i] answers
	// records[i], with ErrorCode set on the rejected ones.
	var res batch.Result
	for i, rr := range resp.RequestResponses {
		if aws.ToString(rr.ErrorCode) != "" {
			res.Failed = append(res.Failed, batch.Failure{
				ID:     entries[i].ID,
				Reason: failureReason(rr.ErrorCode, rr.ErrorMessage),
			})
			continue
		}
		res.Successful = append(res.Successful, entries[i].ID)
	}
	return res, nil
}
