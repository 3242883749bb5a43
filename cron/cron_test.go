package cron

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dailyyoga/menuhub/logger"
)

func record(calls *[]string, name string, err error) Task {
	return NewTask(name, func(ctx context.Context) error {
		*calls = append(*calls, name)
		return err
	})
}

func TestRunChain_OrderAndSharedData(t *testing.T) {
	s := New(logger.NewNop())
	defer s.Close()

	var got string
	err := s.AddChain(Chain{
		Name: "sync",
		Spec: "@every 1h",
		Tasks: []Task{
			NewTask("produce", func(ctx context.Context) error {
				if !Store(ctx, "doc", "parsed") {
					t.Error("context carries no shared data")
				}
				return nil
			}),
			NewTask("consume", func(ctx context.Context) error {
				got, _ = Load[string](ctx, "doc")
				return nil
			}),
		},
	})
	if err != nil {
		t.Fatalf("AddChain: %v", err)
	}
	if err := s.RunChain(context.Background(), "sync"); err != nil {
		t.Fatalf("RunChain: %v", err)
	}
	if got != "parsed" {
		t.Errorf("expected shared value, got %q", got)
	}
}

func TestRunChain_SkipStopsQuietly(t *testing.T) {
	s := New(logger.NewNop())
	defer s.Close()

	var calls []string
	_ = s.AddChain(Chain{Name: "c", Spec: "@every 1h", Tasks: []Task{
		record(&calls, "check", ErrSkipChain),
		record(&calls, "import", nil),
	}})

	if err := s.RunChain(context.Background(), "c"); err != nil {
		t.Fatalf("expected nil for a skipped chain, got %v", err)
	}
	if len(calls) != 1 || calls[0] != "check" {
		t.Errorf("unexpected calls %v", calls)
	}
}

func TestRunChain_FailureAborts(t *testing.T) {
	s := New(logger.NewNop())
	defer s.Close()

	boom := errors.New("boom")
	var calls []string
	_ = s.AddChain(Chain{Name: "c", Spec: "@every 1h", Tasks: []Task{
		record(&calls, "first", boom),
		record(&calls, "second", nil),
	}})

	if err := s.RunChain(context.Background(), "c"); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(calls) != 1 {
		t.Errorf("expected the chain to stop after the failure, got %v", calls)
	}
}

func TestRunChain_PanicBecomesError(t *testing.T) {
	s := New(logger.NewNop())
	defer s.Close()

	_ = s.AddChain(Chain{Name: "c", Spec: "@every 1h", Tasks: []Task{
		NewTask("explode", func(context.Context) error { panic("kaboom") }),
	}})

	err := s.RunChain(context.Background(), "c")
	if err == nil || !strings.Contains(err.Error(), "kaboom") {
		t.Fatalf("expected recovered panic, got %v", err)
	}
}

func TestAddChain_Validation(t *testing.T) {
	s := New(logger.NewNop())
	defer s.Close()

	if err := s.AddChain(Chain{Name: "empty", Spec: "@every 1s"}); !errors.Is(err, ErrNoTasks) {
		t.Errorf("expected ErrNoTasks, got %v", err)
	}
	noop := NewTask("noop", func(context.Context) error { return nil })
	if err := s.AddChain(Chain{Name: "bad", Spec: "not a spec", Tasks: []Task{noop}}); err == nil {
		t.Error("expected an invalid spec error")
	}
	if err := s.AddChain(Chain{Name: "ok", Spec: "*/5 * * * * *", Tasks: []Task{noop}}); err != nil {
		t.Fatalf("AddChain: %v", err)
	}
	if err := s.AddChain(Chain{Name: "ok", Spec: "@every 1s", Tasks: []Task{noop}}); err == nil {
		t.Error("expected a duplicate chain error")
	}
	if err := s.RunChain(context.Background(), "missing"); err == nil {
		t.Error("expected an unknown chain error")
	}
}

func TestClose_RejectsFurtherWork(t *testing.T) {
	s := New(logger.NewNop())
	noop := NewTask("noop", func(context.Context) error { return nil })
	_ = s.AddChain(Chain{Name: "c", Spec: "@every 1h", Tasks: []Task{noop}})

	s.Close()
	s.Close()

	if err := s.RunChain(context.Background(), "c"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := s.AddChain(Chain{Name: "d", Spec: "@every 1h", Tasks: []Task{noop}}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestScheduledRun(t *testing.T) {
	s := New(logger.NewNop(), Timeout(time.Second))

	var runs atomic.Int32
	done := make(chan struct{}, 1)
	_ = s.AddChain(Chain{Name: "tick", Spec: "* * * * * *", Tasks: []Task{
		NewTask("count", func(ctx context.Context) error {
			if _, ok := ctx.Deadline(); !ok {
				t.Error("expected the timeout middleware to set a deadline")
			}
			if runs.Add(1) == 1 {
				done <- struct{}{}
			}
			return nil
		}),
	}})
	s.Start()
	defer s.Close()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("chain was not scheduled")
	}
}
