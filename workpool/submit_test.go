package workpool_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/averma-sys/poolkit/workpool"
)

func TestSubmit_BasicResult(t *testing.T) {
	pool := workpool.New(workpool.WithWorkers(2))
	defer pool.Shutdown(true)

	fut, err := workpool.Submit(pool, func() (string, error) {
		return "result-42", nil
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	value, err := fut.Get()
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if value != "result-42" {
		t.Errorf("expected 'result-42', got %q", value)
	}
}

func TestSubmit_TaskError(t *testing.T) {
	pool := workpool.New(workpool.WithWorkers(1))
	defer pool.Shutdown(true)

	wantErr := errors.New("task failed")
	fut, err := workpool.Submit(pool, func() (int, error) {
		return 0, wantErr
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if _, err := fut.Get(); !errors.Is(err, wantErr) {
		t.Errorf("expected %v, got %v", wantErr, err)
	}
}

func TestSubmit_PanicBecomesError(t *testing.T) {
	pool := workpool.New(workpool.WithWorkers(1))
	defer pool.Shutdown(true)

	fut, err := workpool.Submit(pool, func() (int, error) {
		panic("arithmetic meltdown")
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	_, err = fut.Get()
	var pe *workpool.PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PanicError, got %v", err)
	}
	if pe.Value != "arithmetic meltdown" {
		t.Errorf("panic value = %v", pe.Value)
	}
	if len(pe.Stack) == 0 {
		t.Error("expected a captured stack trace")
	}

	// The worker must survive the panic.
	fut2, err := workpool.Submit(pool, func() (int, error) { return 7, nil })
	if err != nil {
		t.Fatalf("submit after panic failed: %v", err)
	}
	if v, err := fut2.Get(); err != nil || v != 7 {
		t.Errorf("worker unusable after panic: v=%d err=%v", v, err)
	}
}

func TestSubmit_AfterShutdown(t *testing.T) {
	pool := workpool.New(workpool.WithWorkers(1))
	pool.Shutdown(true)

	if _, err := workpool.Submit(pool, func() (int, error) { return 0, nil }); !errors.Is(err, workpool.ErrStopping) {
		t.Errorf("expected ErrStopping, got %v", err)
	}
}

func TestSubmit_DroppedTaskFailsFuture(t *testing.T) {
	pool := workpool.New(
		workpool.WithWorkers(1),
		workpool.WithParallelism(1),
	)

	gate := make(chan struct{})
	headRunning := make(chan struct{})
	pool.Post(func() {
		close(headRunning)
		<-gate
	})
	<-headRunning

	fut, err := workpool.Submit(pool, func() (int, error) { return 1, nil })
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		close(gate)
	}()
	pool.Shutdown(false)

	if _, err := fut.GetWithTimeout(time.Second); !errors.Is(err, workpool.ErrDropped) {
		t.Errorf("expected ErrDropped on the dropped task's future, got %v", err)
	}
}

func TestTrySubmit_QueueFull(t *testing.T) {
	pool := workpool.New(
		workpool.WithWorkers(1),
		workpool.WithParallelism(1),
		workpool.WithQueueSize(1),
	)
	defer pool.Shutdown(false)

	gate := make(chan struct{})
	defer close(gate)
	headRunning := make(chan struct{})
	pool.Post(func() {
		close(headRunning)
		<-gate
	})
	<-headRunning

	if _, err := workpool.TrySubmit(pool, func() (int, error) { return 0, nil }); err != nil {
		t.Fatalf("try-submit into empty queue failed: %v", err)
	}
	if _, err := workpool.TrySubmit(pool, func() (int, error) { return 0, nil }); !errors.Is(err, workpool.ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}
}

func TestMap(t *testing.T) {
	t.Run("results keep input order", func(t *testing.T) {
		pool := workpool.New(workpool.WithWorkers(4))
		defer pool.Shutdown(true)

		items := make([]int, 50)
		for i := range items {
			items[i] = i
		}

		results, err := workpool.Map(context.Background(), pool, items, func(n int) (string, error) {
			return fmt.Sprintf("task-%d", n), nil
		})
		if err != nil {
			t.Fatalf("map failed: %v", err)
		}
		for i, r := range results {
			if want := fmt.Sprintf("task-%d", i); r != want {
				t.Fatalf("result %d = %q, want %q", i, r, want)
			}
		}
	})

	t.Run("first task error is reported", func(t *testing.T) {
		pool := workpool.New(workpool.WithWorkers(2))
		defer pool.Shutdown(true)

		wantErr := errors.New("bad item")
		_, err := workpool.Map(context.Background(), pool, []int{1, 2, 3}, func(n int) (int, error) {
			if n == 2 {
				return 0, wantErr
			}
			return n, nil
		})
		if !errors.Is(err, wantErr) {
			t.Errorf("expected %v, got %v", wantErr, err)
		}
		if err == nil || !strings.Contains(err.Error(), "task 1") {
			t.Errorf("error should name the failing task, got %v", err)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		pool := workpool.New(workpool.WithWorkers(1))
		defer pool.Shutdown(true)

		results, err := workpool.Map(context.Background(), pool, nil, func(n int) (int, error) {
			return n, nil
		})
		if err != nil || len(results) != 0 {
			t.Errorf("expected empty results, got %v / %v", results, err)
		}
	})
}
