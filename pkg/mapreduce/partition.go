package mapreduce

import (
	"errors"
	"fmt"

	"github.com/dtnitsch/chat-stats/models"
)

var ErrInvalidWorkerCount = errors.New("worker count must be at least 1")

// Chunk is the half-open message range [Start, End) handled by one worker.
type Chunk struct {
	Start int
	End   int
}

// Len returns the number of messages in the chunk.
func (c Chunk) Len() int {
	return c.End - c.Start
}

// Partition splits n messages into exactly workers contiguous, non-overlapping
// chunks of n/workers messages each. The n%workers leftover messages either
// go one apiece to the first chunks (TailDistribute) or are left out of every
// chunk (TailDrop). With more workers than messages some chunks are empty.
func Partition(n, workers int, tail models.TailPolicy) ([]Chunk, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWorkerCount, workers)
	}
	if !tail.IsValid() {
		return nil, fmt.Errorf("unknown tail policy %q", tail)
	}

	size := n / workers
	remainder := n % workers
	if tail == models.TailDrop {
		remainder = 0
	}

	chunks := make([]Chunk, workers)
	start := 0
	for i := range chunks {
		end := start + size
		if i < remainder {
			end++
		}
		chunks[i] = Chunk{Start: start, End: end}
		start = end
	}
	return chunks, nil
}

// Dropped returns how many trailing messages the chunks leave uncovered.
func Dropped(n int, chunks []Chunk) int {
	if len(chunks) == 0 {
		return n
	}
	return n - chunks[len(chunks)-1].End
}
