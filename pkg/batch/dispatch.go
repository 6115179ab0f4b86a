package batch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/abk7777/aws-json-dataset/pkg/dataset"
	"github.com/abk7777/aws-json-dataset/pkg/service"
)

// Failure identifies one rejected entry within a batch.
type Failure struct {
	ID     string
	Reason string
}

// Result is the transmission collaborator's per-batch response. Entries in
// Failed were rejected by the downstream service even though the call itself
// succeeded.
type Result struct {
	Successful []string
	Failed     []Failure
}

// Sender transmits one fully materialized batch and reports per-entry
// success or failure. Implementations do not retry.
type Sender interface {
	Send(ctx context.Context, entries []Entry) (Result, error)
}

// BatchFailure records what went wrong with one batch: either a
// transport-level error (Err non-nil) or a partial failure (Failed
// non-empty).
type BatchFailure struct {
	Batch  int
	Err    error
	Failed []Failure
}

// Report summarizes a dispatch run. Confirmed counts only the entries the
// collaborator acknowledged, never the entries merely attempted.
type Report struct {
	Batches   int
	Records   int
	Confirmed int
	Failures  []BatchFailure
}

// Dispatcher hands batches to a Sender strictly in input order. OnBatch, if
// set, is invoked after every send with the batch, the collaborator's
// result, and any transport error.
type Dispatcher struct {
	Sender  Sender
	OnBatch func(Batch, Result, error)
}

// Dispatch partitions ds per desc and sends each batch in order. Assembly of
// the next batch overlaps the in-flight send; sends themselves never
// overlap, since downstream ordering semantics depend on submission order.
//
// Failed or partially failed batches are recorded in the report and do not
// stop later batches; nothing is retried. Cancellation stops before the next
// send but lets an in-flight send finish on its own terms. After the pass
// the emitted record count is reconciled against the dataset; a mismatch
// returns a MissingRecordsError.
func (d *Dispatcher) Dispatch(ctx context.Context, ds *dataset.Dataset, desc service.Descriptor) (Report, error) {
	it := NewIterator(ds, desc)
	batches := make(chan Batch, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(batches)
		for {
			b, ok := it.Next()
			if !ok {
				return nil
			}
			select {
			case batches <- b:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	var report Report
	g.Go(func() error {
		for b := range batches {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := d.Sender.Send(gctx, b.Entries)
			if d.OnBatch != nil {
				d.OnBatch(b, res, err)
			}
			report.Batches++
			report.Records += len(b.Entries)
			report.Confirmed += len(res.Successful)
			if err != nil {
				report.Failures = append(report.Failures, BatchFailure{Batch: b.Index, Err: err})
				continue
			}
			if len(res.Failed) > 0 {
				report.Failures = append(report.Failures, BatchFailure{Batch: b.Index, Failed: res.Failed})
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return report, err
	}
	if err := reconcile(ds.NumRecords(), it.Emitted()); err != nil {
		return report, err
	}
	return report, nil
}
