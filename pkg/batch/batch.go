// Package batch partitions a dataset's records into size-bounded batches and
// dispatches them, in order, to a transmission collaborator.
package batch

import (
	"fmt"
	"strconv"

	"github.com/abk7777/aws-json-dataset/pkg/dataset"
	"github.com/abk7777/aws-json-dataset/pkg/service"
)

// Entry is one record inside a batch. ID is the entry's stable position
// within its batch, used downstream as a correlation id.
type Entry struct {
	ID   string
	Body []byte
}

// Batch is an ordered, non-empty slice of the dataset's records. Bytes is
// the cumulative size of all entry bodies.
type Batch struct {
	Index   int
	Entries []Entry
	Bytes   int
}

// MissingRecordsError reports a reconciliation mismatch between the records
// emitted across all batches and the source dataset's record count. It
// signals an internal inconsistency, not a recoverable condition.
type MissingRecordsError struct {
	Expected int
	Actual   int
}

func (e *MissingRecordsError) Error() string {
	return fmt.Sprintf("missing records: expected %d, batched %d", e.Expected, e.Actual)
}

// Iterator lazily partitions a dataset into batches honoring a service
// descriptor's count and cumulative byte limits. It borrows the dataset and
// never mutates it. Batches come out in input order; every record lands in
// exactly one batch.
type Iterator struct {
	ds      *dataset.Dataset
	desc    service.Descriptor
	pos     int
	index   int
	emitted int
}

// NewIterator returns an iterator over ds parameterized by desc.
func NewIterator(ds *dataset.Dataset, desc service.Descriptor) *Iterator {
	return &Iterator{ds: ds, desc: desc}
}

// Next returns the next batch, or ok=false when the dataset is exhausted.
//
// Greedy single pass with per-record marginal accounting: a record is
// admitted while the batch stays within both limits; otherwise the batch is
// closed and the record opens the next one. The first record of a batch is
// always admitted, so a record larger than the batch limit is emitted alone
// rather than split (the per-record validation gate should have rejected it
// before batching ever started).
func (it *Iterator) Next() (Batch, bool) {
	n := it.ds.NumRecords()
	if it.pos >= n {
		return Batch{}, false
	}

	b := Batch{Index: it.index}
	for it.pos < n {
		size := it.ds.Size(it.pos)
		if len(b.Entries) > 0 &&
			(len(b.Entries) >= it.desc.MaxBatchRecords || b.Bytes+size > it.desc.MaxBatchBytes) {
			break
		}
		b.Entries = append(b.Entries, Entry{
			ID:   strconv.Itoa(len(b.Entries)),
			Body: it.ds.Payload(it.pos),
		})
		b.Bytes += size
		it.pos++
	}

	it.index++
	it.emitted += len(b.Entries)
	return b, true
}

// Emitted reports the total records emitted across all batches so far.
func (it *Iterator) Emitted() int {
	return it.emitted
}

// reconcile checks that every input record was emitted exactly once.
func reconcile(expected, actual int) error {
	if expected != actual {
		return &MissingRecordsError{Expected: expected, Actual: actual}
	}
	return nil
}
