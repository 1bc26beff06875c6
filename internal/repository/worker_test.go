package repository

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestWorkerRunsTasksInOrder(t *testing.T) {
	w := newWorker()
	defer w.close(time.Second)

	var mu sync.Mutex
	var order []int
	var results []<-chan error
	for i := 0; i < 20; i++ {
		i := i
		results = append(results, w.submit(func() error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		}))
	}
	for _, errc := range results {
		if err := <-errc; err != nil {
			t.Fatalf("task error = %v", err)
		}
	}

	for i, got := range order {
		if got != i {
			t.Fatalf("task %d ran at position %d, order = %v", got, i, order)
		}
	}
}

func TestWorkerPropagatesTaskError(t *testing.T) {
	w := newWorker()
	defer w.close(time.Second)

	want := errors.New("boom")
	if err := w.run(func() error { return want }); !errors.Is(err, want) {
		t.Fatalf("run() = %v, want %v", err, want)
	}
}

func TestWorkerCloseDrainsQueuedWork(t *testing.T) {
	w := newWorker()

	ran := make(chan struct{})
	errc := w.submit(func() error {
		close(ran)
		return nil
	})
	w.close(time.Second)

	select {
	case <-ran:
	default:
		t.Fatal("queued task did not run before close returned")
	}
	if err := <-errc; err != nil {
		t.Fatalf("queued task error = %v", err)
	}
}

func TestWorkerRejectsAfterClose(t *testing.T) {
	w := newWorker()
	w.close(time.Second)

	if err := w.run(func() error { return nil }); !errors.Is(err, ErrClosed) {
		t.Fatalf("run after close = %v, want ErrClosed", err)
	}
}

func TestWorkerCloseTwice(t *testing.T) {
	w := newWorker()
	w.close(time.Second)
	w.close(time.Second) // must not panic or hang
}

func TestWorkerAbandonsAfterGrace(t *testing.T) {
	w := newWorker()

	release := make(chan struct{})
	started := make(chan struct{})
	w.submit(func() error {
		close(started)
		<-release
		return nil
	})
	<-started
	queued := w.submit(func() error { return nil })

	closed := make(chan struct{})
	go func() {
		w.close(10 * time.Millisecond)
		close(closed)
	}()

	// Let the grace period expire while the first task is still running,
	// then release it so the loop can drain.
	time.Sleep(50 * time.Millisecond)
	close(release)

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("close did not return after the running task finished")
	}
	if err := <-queued; !errors.Is(err, ErrClosed) {
		t.Fatalf("abandoned task error = %v, want ErrClosed", err)
	}
}
