package graph

import (
	"strconv"

	"go.uber.org/atomic"
)

// DefaultPrefix is put in front of every minted id.
const DefaultPrefix = "Node_"

// Counter mints ids for freshly created nodes and edges. It is a plain value:
// Next never changes the receiver.
type Counter struct {
	Prefix string `json:"prefix"`
	N      int64  `json:"next"`
}

func NewCounter() Counter {
	return Counter{Prefix: DefaultPrefix}
}

// CounterFrom seeds a counter one past the highest trailing number found in
// ids, so that ids minted afterwards never collide with them.
func CounterFrom(ids []string) Counter {
	c := NewCounter()
	max := int64(-1)
	for _, id := range ids {
		if n, ok := trailingNumber(id); ok && n > max {
			max = n
		}
	}
	c.N = max + 1
	return c
}

// Next returns the id at the current position and the advanced counter.
func (c Counter) Next() (string, Counter) {
	prefix := c.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	id := prefix + strconv.FormatInt(c.N, 10)
	c.N++
	return id, c
}

// Peek is the number the next id will carry.
func (c Counter) Peek() int64 {
	return c.N
}

func trailingNumber(id string) (int64, bool) {
	end := len(id)
	start := end
	for start > 0 && id[start-1] >= '0' && id[start-1] <= '9' {
		start--
	}
	if start == end {
		return 0, false
	}
	n, err := strconv.ParseInt(id[start:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SharedCounter is a process-wide id source for surfaces that keep one live
// graph. Mint only moves forward; Reset replaces the position after an import.
type SharedCounter struct {
	prefix string
	n      *atomic.Int64
}

func NewSharedCounter(c Counter) *SharedCounter {
	prefix := c.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &SharedCounter{prefix: prefix, n: atomic.NewInt64(c.N)}
}

func (s *SharedCounter) Mint() string {
	n := s.n.Inc() - 1
	return s.prefix + strconv.FormatInt(n, 10)
}

func (s *SharedCounter) Reset(c Counter) {
	s.n.Store(c.N)
}

// Snapshot returns the current position as a Counter value.
func (s *SharedCounter) Snapshot() Counter {
	return Counter{Prefix: s.prefix, N: s.n.Load()}
}
