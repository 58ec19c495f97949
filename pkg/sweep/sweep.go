package sweep

import (
	"cmp"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	syncutil "github.com/projectdiscovery/utils/sync"
)

// Worker probes items using a handle it owns for its whole lifetime.
type Worker[T any] interface {
	Probe(item T) bool
	Close() error
}

// Opener acquires a probe handle for one worker.
type Opener[T any] func() (Worker[T], error)

// Options tunes a sweep.
type Options[T comparable] struct {
	MaxWorkers int
	SpawnDelay time.Duration
	// OnResult is called under the result lock for every probed item.
	OnResult func(item T, alive bool)
	// OnWorkerError is called once per worker whose handle could not be opened.
	OnWorkerError func(err error)
}

// Result holds the outcome of a sweep. It must only be read after Run returns.
type Result[T comparable] struct {
	Statuses map[T]bool
	Total    int
	Alive    int
	Duration time.Duration
}

// Run probes every item using exactly opts.MaxWorkers workers.
func Run[T comparable](items []T, open Opener[T], opts Options[T]) (*Result[T], error) {
	workers := max(opts.MaxWorkers, 1)

	awg, err := syncutil.New(syncutil.WithSize(workers))
	if err != nil {
		return nil, err
	}

	result := &Result[T]{
		Statuses: make(map[T]bool, len(items)),
		Total:    len(items),
	}
	start := time.Now()

	var (
		cursor atomic.Int64
		mu     sync.Mutex
	)

	for i := 0; i < workers; i++ {
		awg.Add()
		go func() {
			defer awg.Done()

			worker, err := open()
			if err != nil {
				if opts.OnWorkerError != nil {
					mu.Lock()
					opts.OnWorkerError(err)
					mu.Unlock()
				}
				return
			}
			defer func() {
				_ = worker.Close()
			}()

			for {
				idx := cursor.Add(1) - 1
				if idx >= int64(len(items)) {
					return
				}
				item := items[idx]
				alive := worker.Probe(item)

				mu.Lock()
				if opts.OnResult != nil {
					opts.OnResult(item, alive)
				}
				result.Statuses[item] = alive
				mu.Unlock()
			}
		}()

		if opts.SpawnDelay > 0 && i < workers-1 {
			time.Sleep(opts.SpawnDelay)
		}
	}

	awg.Wait()

	for _, alive := range result.Statuses {
		if alive {
			result.Alive++
		}
	}
	result.Duration = time.Since(start)
	return result, nil
}

// AliveItems returns the items that answered, ordered by compare.
func (r *Result[T]) AliveItems(compare func(a, b T) int) []T {
	var alive []T
	for item, ok := range r.Statuses {
		if ok {
			alive = append(alive, item)
		}
	}
	slices.SortFunc(alive, compare)
	return alive
}

// Sorted returns every probed item ordered by compare.
func (r *Result[T]) Sorted(compare func(a, b T) int) []T {
	items := make([]T, 0, len(r.Statuses))
	for item := range r.Statuses {
		items = append(items, item)
	}
	slices.SortFunc(items, compare)
	return items
}

// Ordered is a convenience compare for ordered item types.
func Ordered[T cmp.Ordered](a, b T) int {
	return cmp.Compare(a, b)
}
