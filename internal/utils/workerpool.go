package utils

import (
	"context"
	"sync"
)

// Result pairs an input item with the outcome of processing it
type Result[T, R any] struct {
	Index int
	Item  T
	Value R
	Err   error
}

// Map processes items with at most workers goroutines. Results come back in
// input order. Items not started before ctx is cancelled carry ctx.Err().
func Map[T, R any](ctx context.Context, items []T, workers int, fn func(context.Context, T) (R, error)) ([]Result[T, R], error) {
	results := make([]Result[T, R], len(items))
	for i, item := range items {
		results[i] = Result[T, R]{Index: i, Item: item}
	}
	if len(items) == 0 {
		return results, nil
	}

	if workers <= 0 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	started := make([]bool, len(items))
	indexes := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				value, err := fn(ctx, items[idx])
				results[idx].Value = value
				results[idx].Err = err
			}
		}()
	}

submit:
	for i := range items {
		select {
		case <-ctx.Done():
			break submit
		case indexes <- i:
			started[i] = true
		}
	}
	close(indexes)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		for i := range results {
			if !started[i] {
				results[i].Err = err
			}
		}
		return results, err
	}
	return results, nil
}
