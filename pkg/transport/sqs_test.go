package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/abk7777/aws-json-dataset/pkg/batch"
)

type fakeSQSAPI struct {
	input *sqs.SendMessageBatchInput
	out   *sqs.SendMessageBatchOutput
	err   error
}

func (f *fakeSQSAPI) SendMessageBatch(ctx context.Context, params *sqs.SendMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error) {
	f.input = params
	return f.out, f.err
}

func TestSQSSenderMapsEntriesAndResult(t *testing.T) {
	api := &fakeSQSAPI{
		out: &sqs.SendMessageBatchOutput{
			Successful: []types.SendMessageBatchResultEntry{
				{Id: aws.String("0")},
				{Id: aws.String("1")},
			},
			Failed: []types.BatchResultErrorEntry{
				{Id: aws.String("2"), Code: aws.String("ThrottlingException"), Message: aws.String("rate exceeded")},
			},
		},
	}
	sender := newSQSSenderWithAPI("https://sqs.us-east-1.amazonaws.com/123/queue", api)

	entries := []batch.Entry{
		{ID: "0", Body: []byte(`{"a":1}`)},
		{ID: "1", Body: []byte(`{"b":2}`)},
		{ID: "2", Body: []byte(`{"c":3}`)},
	}
	res, err := sender.Send(context.Background(), entries)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if got := aws.ToString(api.input.QueueUrl); got != "https://sqs.us-east-1.amazonaws.com/123/queue" {
		t.Fatalf("unexpected queue url: %s", got)
	}
	if len(api.input.Entries) != 3 {
		t.Fatalf("expected 3 request entries, got %d", len(api.input.Entries))
	}
	if aws.ToString(api.input.Entries[1].Id) != "1" || aws.ToString(api.input.Entries[1].MessageBody) != `{"b":2}` {
		t.Fatalf("entry 1 mismapped: %#v", api.input.Entries[1])
	}

	if len(res.Successful) != 2 || res.Successful[0] != "0" {
		t.Fatalf("unexpected successful ids: %v", res.Successful)
	}
	if len(res.Failed) != 1 || res.Failed[0].ID != "2" || res.Failed[0].Reason != "ThrottlingException: rate exceeded" {
		t.Fatalf("unexpected failures: %#v", res.Failed)
	}
}

func TestSQSSenderWrapsAPIError(t *testing.T) {
	apiErr := errors.New("access denied")
	sender := newSQSSenderWithAPI("url", &fakeSQSAPI{err: apiErr})

	_, err := sender.Send(context.Background(), []batch.Entry{{ID: "0", Body: []byte(`{}`)}})
	if !errors.Is(err, apiErr) {
		t.Fatalf("expected wrapped api error, got %v", err)
	}
}
