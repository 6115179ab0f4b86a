package transport

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/abk7777/aws-json-dataset/pkg/batch"
)

type fakeSNSAPI struct {
	input *sns.PublishBatchInput
	out   *sns.PublishBatchOutput
}

func (f *fakeSNSAPI) PublishBatch(ctx context.Context, params *sns.PublishBatchInput, optFns ...func(*sns.Options)) (*sns.PublishBatchOutput, error) {
	f.input = params
	return f.out, nil
}

func TestSNSSenderMapsEntriesAndResult(t *testing.T) {
	api := &fakeSNSAPI{
		out: &sns.PublishBatchOutput{
			Successful: []types.PublishBatchResultEntry{{Id: aws.String("0")}},
			Failed: []types.BatchResultErrorEntry{
				{Id: aws.String("1"), Code: aws.String("InternalError")},
			},
		},
	}
	sender := newSNSSenderWithAPI("arn:aws:sns:us-east-1:123:topic", api)

	res, err := sender.Send(context.Background(), []batch.Entry{
		{ID: "0", Body: []byte(`{"a":1}`)},
		{ID: "1", Body: []byte(`{"b":2}`)},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if got := aws.ToString(api.input.TopicArn); got != "arn:aws:sns:us-east-1:123:topic" {
		t.Fatalf("unexpected topic arn: %s", got)
	}
	if aws.ToString(api.input.PublishBatchRequestEntries[0].Message) != `{"a":1}` {
		t.Fatalf("entry 0 mismapped: %#v", api.input.PublishBatchRequestEntries[0])
	}
	if len(res.Successful) != 1 || res.Successful[0] != "0" {
		t.Fatalf("unexpected successful ids: %v", res.Successful)
	}
	if len(res.Failed) != 1 || res.Failed[0].Reason != "InternalError" {
		t.Fatalf("unexpected failures: %#v", res.Failed)
	}
}
