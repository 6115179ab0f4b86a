package service

import (
	"errors"
	"reflect"
	"testing"
)

func TestValidateUnknownService(t *testing.T) {
	_, err := Validate("unknown_service", 100)
	if !errors.Is(err, ErrUnknownService) {
		t.Fatalf("expected ErrUnknownService, got %v", err)
	}
}

func TestValidateRecordTooLarge(t *testing.T) {
	_, err := Validate(SQS, 300_000)
	var tooLarge *RecordTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("expected RecordTooLargeError, got %v", err)
	}
	if tooLarge.Service != SQS || tooLarge.Limit != 256_000 || tooLarge.Size != 300_000 {
		t.Fatalf("unexpected error fields: %#v", tooLarge)
	}
}

func TestValidateOK(t *testing.T) {
	desc, err := Validate(Firehose, 500_000)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if desc.Name != Firehose || desc.MaxBatchRecords != 500 || desc.MaxBatchBytes != 4_000_000 {
		t.Fatalf("unexpected descriptor: %#v", desc)
	}
}

func TestAvailableForStrictLimit(t *testing.T) {
	// At exactly the sqs/sns record limit, only firehose can carry it.
	if got := AvailableFor(256_000); !reflect.DeepEqual(got, []string{Firehose}) {
		t.Fatalf("AvailableFor(256000) = %v", got)
	}
	if got := AvailableFor(1_000); !reflect.DeepEqual(got, []string{Firehose, SNS, SQS}) {
		t.Fatalf("AvailableFor(1000) = %v", got)
	}
	if got := AvailableFor(1_000_000); len(got) != 0 {
		t.Fatalf("AvailableFor(1000000) = %v, want none", got)
	}
}

func TestNames(t *testing.T) {
	if got := Names(); !reflect.DeepEqual(got, []string{Firehose, SNS, SQS}) {
		t.Fatalf("Names() = %v", got)
	}
}
