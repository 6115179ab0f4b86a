// Package service holds the static per-service size limits for downstream
// AWS transports and the validation gate that must pass before batching.
package service

import (
	"errors"
	"fmt"
	"sort"
)

// Supported service names.
const (
	SQS      = "sqs"
	SNS      = "sns"
	Firehose = "firehose"
)

// Descriptor captures a downstream service's batching limits in bytes.
type Descriptor struct {
	Name            string
	MaxRecordBytes  int
	MaxBatchBytes   int
	MaxBatchRecords int
}

// registry is populated once and read-only thereafter.
var registry = map[string]Descriptor{
	SQS:      {Name: SQS, MaxRecordBytes: 256_000, MaxBatchBytes: 256_000, MaxBatchRecords: 10},
	SNS:      {Name: SNS, MaxRecordBytes: 256_000, MaxBatchBytes: 256_000, MaxBatchRecords: 10},
	Firehose: {Name: Firehose, MaxRecordBytes: 1_000_000, MaxBatchBytes: 4_000_000, MaxBatchRecords: 500},
}

// ErrUnknownService is returned when a name has no registry entry.
var ErrUnknownService = errors.New("unknown service")

// RecordTooLargeError reports a record that exceeds a service's per-record
// limit.
type RecordTooLargeError struct {
	Service string
	Limit   int
	Size    int
}

func (e *RecordTooLargeError) Error() string {
	return fmt.Sprintf("record size %d exceeds %s limit of %d bytes", e.Size, e.Service, e.Limit)
}

// Lookup returns the descriptor for name.
func Lookup(name string) (Descriptor, bool) {
	desc, ok := registry[name]
	return desc, ok
}

// Names returns the supported service names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFor returns the services whose per-record limit strictly exceeds
// maxRecordBytes, i.e. the services that can legally carry a dataset whose
// largest record is that size.
func AvailableFor(maxRecordBytes int) []string {
	var names []string
	for name, desc := range registry {
		if maxRecordBytes < desc.MaxRecordBytes {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Validate is the single gate that must run before batching: it confirms the
// service exists and that the dataset's largest record fits its per-record
// limit.
func Validate(name string, maxRecordBytes int) (Descriptor, error) {
	desc, ok := registry[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownService, name)
	}
	if maxRecordBytes > desc.MaxRecordBytes {
		return Descriptor{}, &RecordTooLargeError{Service: name, Limit: desc.MaxRecordBytes, Size: maxRecordBytes}
	}
	return desc, nil
}
