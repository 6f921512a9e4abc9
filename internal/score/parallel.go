package score

import (
	"runtime"
	"sync"

	"github.com/crispri-tools/sgrna-design/internal/annotate"
)

// WorkItem holds an annotated candidate ready for scoring.
type WorkItem struct {
	Seq  int
	Cand *annotate.Annotated
}

// WorkResult holds the scoring output for a single candidate.
type WorkResult struct {
	Seq    int
	Scored *Scored
	Err    error
}

// ParallelScore scores work items using a pool of workers sharing the
// read-only index. Results are sent to the returned channel in arrival
// order (not sequence order); use OrderedCollect to consume them in
// sequence-number order. If workers is 0, runtime.NumCPU() is used.
func (s *Scorer) ParallelScore(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				sc, err := s.Score(item.Cand)
				results <- WorkResult{Seq: item.Seq, Scored: sc, Err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order. It
// buffers out-of-order results in a pending map and emits them as soon as
// the next expected sequence number is available. Blocks until the results
// channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
