package utils

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolRunsEveryJob(t *testing.T) {
	pool := NewWorkerPool(4, 0)
	var done int64

	for i := 0; i < 50; i++ {
		pool.Submit(func() {
			atomic.AddInt64(&done, 1)
		})
	}
	pool.Wait()

	if done != 50 {
		t.Errorf("jobs run: got %d, want 50", done)
	}
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	pool := NewWorkerPool(3, 0)
	var running, peak int64

	for i := 0; i < 20; i++ {
		pool.Submit(func() {
			n := atomic.AddInt64(&running, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&running, -1)
		})
	}
	pool.Wait()

	if peak > 3 {
		t.Errorf("peak concurrency: got %d, want <= 3", peak)
	}
}

func TestWorkerPoolZeroWorkers(t *testing.T) {
	pool := NewWorkerPool(0, 0)
	ran := false
	pool.Submit(func() { ran = true })
	pool.Wait()

	if !ran {
		t.Error("job did not run on a pool created with 0 workers")
	}
}

func TestWorkerPoolRateLimit(t *testing.T) {
	rateLimitMs := 100
	pool := NewWorkerPool(1, rateLimitMs)

	var timestamps []time.Time
	mu := make(chan struct{}, 1)
	mu <- struct{}{}

	for i := 0; i < 3; i++ {
		pool.Submit(func() {
			<-mu
			timestamps = append(timestamps, time.Now())
			mu <- struct{}{}
		})
	}
	pool.Wait()

	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1])
		min := time.Duration(rateLimitMs) * time.Millisecond
		if gap < min {
			t.Errorf("gap between job %d and %d: %v < minimum %v", i-1, i, gap, min)
		}
	}
}

func TestErrorListConcurrentAdd(t *testing.T) {
	var list ErrorList
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				list.Add(errors.New("boom"))
			} else {
				list.Add(nil)
			}
		}(i)
	}
	wg.Wait()

	if list.Len() != 50 {
		t.Errorf("errors: got %d, want 50", list.Len())
	}
	if len(list.Errors()) != 50 {
		t.Errorf("Errors(): got %d, want 50", len(list.Errors()))
	}
}
