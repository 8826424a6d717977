package sender

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestEnqueueAfterCloseReturnsClosed(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, QueueSize: 1})
	d.Close()

	err := d.Enqueue(context.Background(), "send.text", "sendMessage", func() error { return nil })
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("err = %v, want ErrQueueClosed", err)
	}
}

func TestCloseDrainsQueuedJobs(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, QueueSize: 4})

	var ran atomic.Int32
	for i := 0; i < 3; i++ {
		if err := d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
			ran.Add(1)
			return nil
		}); err != nil {
			t.Fatalf("enqueue %d failed: %v", i, err)
		}
	}
	d.Close()

	if got := ran.Load(); got != 3 {
		t.Fatalf("ran %d jobs, want 3", got)
	}
}

func TestEnqueueDuringCloseNeverPanics(t *testing.T) {
	d := NewDispatcher(Options{Workers: 2, QueueSize: 8})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				err := d.Enqueue(context.Background(), "send.text", "sendMessage", func() error { return nil })
				if errors.Is(err, ErrQueueClosed) {
					return
				}
			}
		}()
	}
	d.Close()
	wg.Wait()
}
