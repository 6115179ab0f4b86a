package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
)

// Record is a single key-value object in a dataset. No schema is enforced
// beyond "is an object".
type Record map[string]any

// ErrInvalidDataset is returned when input does not decode to a top-level
// JSON array of objects.
var ErrInvalidDataset = errors.New("invalid dataset: JSON must contain an array of objects")

// SizedRecord pairs a record with the byte size of its serialized form.
type SizedRecord struct {
	Record Record
	Size   int
}

// Dataset owns a validated, immutable record sequence and its derived size
// data. Each record's serialization is computed once at construction; the
// same bytes back every size check, Save, and transmission, so size
// accounting always matches the actual payload.
type Dataset struct {
	records []Record
	encoded [][]byte
	path    string

	ascOnce  sync.Once
	asc      []SizedRecord
	descOnce sync.Once
	desc     []SizedRecord
}

// New constructs a dataset from exactly one source: a record slice or a file
// path. Supplying both or neither is a usage error. An explicitly empty
// (non-nil) slice constructs an empty dataset.
func New(records []Record, path string) (*Dataset, error) {
	if records != nil && path != "" {
		return nil, errors.New("dataset: records and path are mutually exclusive")
	}
	if records == nil && path == "" {
		return nil, errors.New("dataset: either records or path is required")
	}

	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		records = loaded
	}

	encoded := make([][]byte, len(records))
	for i, rec := range records {
		body, err := MarshalRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("dataset: encode record %d: %w", i, err)
		}
		encoded[i] = body
	}

	return &Dataset{records: records, encoded: encoded, path: path}, nil
}

// FromRecords constructs a dataset from an in-memory record slice.
func FromRecords(records []Record) (*Dataset, error) {
	return New(records, "")
}

// Open constructs a dataset from a local JSON file.
func Open(path string) (*Dataset, error) {
	return New(nil, path)
}

// Load reads a local JSON file and validates its shape. The top-level value
// must be an array and every element an object; anything else fails with
// ErrInvalidDataset. There is no lenient mode: one bad element rejects the
// whole file.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	return Decode(data)
}

// Decode validates raw JSON as a dataset.
func Decode(data []byte) ([]Record, error) {
	var top any
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	items, ok := top.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level element is %T", ErrInvalidDataset, top)
	}
	records := make([]Record, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrInvalidDataset, i)
		}
		records[i] = Record(obj)
	}
	return records, nil
}

// NumRecords reports the record count, fixed at construction.
func (d *Dataset) NumRecords() int {
	return len(d.records)
}

// Records returns the record sequence in original order.
func (d *Dataset) Records() []Record {
	return d.records
}

// Record returns the record at index i.
func (d *Dataset) Record(i int) Record {
	return d.records[i]
}

// Payload returns the cached canonical serialization of record i. These are
// the exact bytes handed to the transmission collaborator.
func (d *Dataset) Payload(i int) []byte {
	return d.encoded[i]
}

// Size returns the byte size of record i's serialization.
func (d *Dataset) Size(i int) int {
	return len(d.encoded[i])
}

// SortedBySize returns the records paired with their sizes, sorted by size.
// The sort is stable: equal-size records keep their original relative order.
// Each direction is computed once and cached for the dataset's lifetime.
func (d *Dataset) SortedBySize(ascending bool) []SizedRecord {
	if ascending {
		d.ascOnce.Do(func() {
			d.asc = d.sortBySize(func(a, b int) bool { return a < b })
		})
		return d.asc
	}
	d.descOnce.Do(func() {
		d.desc = d.sortBySize(func(a, b int) bool { return a > b })
	})
	return d.desc
}

func (d *Dataset) sortBySize(less func(a, b int) bool) []SizedRecord {
	sized := make([]SizedRecord, len(d.records))
	for i, rec := range d.records {
		sized[i] = SizedRecord{Record: rec, Size: d.Size(i)}
	}
	sort.SliceStable(sized, func(i, j int) bool {
		return less(sized[i].Size, sized[j].Size)
	})
	return sized
}

// MaxRecordSize returns the largest record serialization in bytes. An empty
// dataset has no maximum and returns an error.
func (d *Dataset) MaxRecordSize() (int, error) {
	if len(d.records) == 0 {
		return 0, errors.New("dataset: empty dataset has no max record size")
	}
	sorted := d.SortedBySize(true)
	return sorted[len(sorted)-1].Size, nil
}

// Save writes the full record sequence to path as a pretty-printed JSON
// array, reusing the cached per-record serializations.
func (d *Dataset) Save(path string) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, body := range d.encoded {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(body)
	}
	buf.WriteByte(']')

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buf.Bytes(), "", "    "); err != nil {
		return fmt.Errorf("dataset: format %s: %w", path, err)
	}
	pretty.WriteByte('\n')

	if err := os.WriteFile(path, pretty.Bytes(), 0644); err != nil {
		return fmt.Errorf("dataset: write %s: %w", path, err)
	}
	return nil
}
