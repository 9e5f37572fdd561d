// Package replay implements a bounded experience buffer for training data
// collection. Records are schemaless maps so collaborators can extend them
// without engine changes; persistence is line-delimited JSON.
package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	rand "math/rand/v2"
	"os"
	"sync"

	"github.com/cardstream/holdem/internal/randutil"
)

// Record is one training observation
type Record map[string]any

// Buffer is a fixed-capacity FIFO of records with seeded sampling
type Buffer struct {
	mu       sync.Mutex
	capacity int
	entries  []Record
	rng      *rand.Rand
}

// New creates a buffer. Capacity must be positive.
func New(capacity int, seed int64) (*Buffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("replay capacity must be positive, got %d", capacity)
	}
	return &Buffer{
		capacity: capacity,
		entries:  make([]Record, 0, capacity),
		rng:      randutil.New(seed),
	}, nil
}

// Capacity returns the maximum number of retained records
func (b *Buffer) Capacity() int { return b.capacity }

// Len returns the current number of records
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Add appends a record, evicting the oldest when full
func (b *Buffer) Add(rec Record) {
	b.mu.Lock()
	defer b.mu.Unlock()

	copied := make(Record, len(rec))
	for k, v := range rec {
		copied[k] = v
	}
	if len(b.entries) == b.capacity {
		copy(b.entries, b.entries[1:])
		b.entries[len(b.entries)-1] = copied
		return
	}
	b.entries = append(b.entries, copied)
}

// Sample returns up to n records drawn without replacement
func (b *Buffer) Sample(n int) ([]Record, error) {
	if n <= 0 {
		return nil, fmt.Errorf("sample size must be positive, got %d", n)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.entries) == 0 {
		return nil, nil
	}
	if n > len(b.entries) {
		n = len(b.entries)
	}

	perm := b.rng.Perm(len(b.entries))
	out := make([]Record, n)
	for i := 0; i < n; i++ {
		out[i] = b.entries[perm[i]]
	}
	return out, nil
}

// Save writes the buffer as JSONL
func (b *Buffer) Save(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, rec := range b.entries {
		if err := enc.Encode(rec); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a JSONL file into a new buffer, keeping the newest records when
// the file exceeds capacity. A zero capacity sizes the buffer to the file.
func Load(path string, capacity int, seed int64) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		entries = append(entries, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if capacity <= 0 {
		capacity = len(entries)
		if capacity == 0 {
			capacity = 1
		}
	}

	buf, err := New(capacity, seed)
	if err != nil {
		return nil, err
	}
	start := 0
	if len(entries) > capacity {
		start = len(entries) - capacity
	}
	for _, rec := range entries[start:] {
		buf.Add(rec)
	}
	return buf, nil
}
