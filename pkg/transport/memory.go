package transport

import (
	"context"
	"sync"

	"github.com/abk7777/aws-json-dataset/pkg/batch"
)

// MemorySender accepts every entry and keeps what it received. It backs
// dry runs and tests when no AWS destination is configured.
type MemorySender struct {
	mu      sync.Mutex
	batches [][]batch.Entry
}

// NewMemorySender returns an in-memory sender.
func NewMemorySender() *MemorySender {
	return &MemorySender{}
}

func (m *MemorySender) Send(ctx context.Context, entries []batch.Entry) (batch.Result, error) {
	if err := ctx.Err(); err != nil {
		return batch.Result{}, err
	}

	kept := make([]batch.Entry, len(entries))
	copy(kept, entries)

	m.mu.Lock()
	m.batches = append(m.batches, kept)
	m.mu.Unlock()

	res := batch.Result{Successful: make([]string, len(entries))}
	for i, entry := range entries {
		res.Successful[i] = entry.ID
	}
	return res, nil
}

// Batches returns everything sent so far, in order.
func (m *MemorySender) Batches() [][]batch.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]batch.Entry, len(m.batches))
	copy(out, m.batches)
	return out
}
