package poller

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/me/roadwatch/pkg/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeFetcher serves canned alerts and counts calls.
type fakeFetcher struct {
	mu       sync.Mutex
	alerts   []model.Alert
	fetchErr error
	markErr  error

	fetches atomic.Int32
	marked  []int64

	// block, when non-nil, is received from before a fetch returns.
	block chan struct{}
}

func (f *fakeFetcher) AdminAlerts(ctx context.Context) ([]model.Alert, error) {
	f.fetches.Add(1)
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]model.Alert, len(f.alerts))
	copy(out, f.alerts)
	return out, nil
}

func (f *fakeFetcher) MarkAlertRead(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, id)
	return nil
}

func (f *fakeFetcher) setAlerts(alerts []model.Alert) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = alerts
}

func (f *fakeFetcher) setFetchErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchErr = err
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal(msg)
}

func TestStart_FetchesImmediatelyThenOnInterval(t *testing.T) {
	f := &fakeFetcher{}
	p := New(f, Config{Interval: 20 * time.Millisecond}, testLogger())

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitFor(t, func() bool { return f.fetches.Load() >= 1 }, "no immediate fetch")
	waitFor(t, func() bool { return f.fetches.Load() >= 3 }, "no interval fetches")

	p.Stop()
	after := f.fetches.Load()
	time.Sleep(80 * time.Millisecond)
	if got := f.fetches.Load(); got != after {
		t.Errorf("fetches continued after Stop: %d -> %d", after, got)
	}
}

func TestStart_AfterStop(t *testing.T) {
	f := &fakeFetcher{}
	p := New(f, Config{Interval: time.Hour}, testLogger())
	p.Stop()

	if err := p.Start(context.Background()); !errors.Is(err, ErrStopped) {
		t.Fatalf("Start after Stop = %v, want ErrStopped", err)
	}

	time.Sleep(20 * time.Millisecond)
	if got := f.fetches.Load(); got != 0 {
		t.Errorf("stopped poller must never fetch, got %d fetches", got)
	}
}

func TestStart_Twice(t *testing.T) {
	f := &fakeFetcher{}
	p := New(f, Config{Interval: time.Hour}, testLogger())

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	defer p.Stop()

	if err := p.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("second Start = %v, want ErrAlreadyStarted", err)
	}
}

func TestSnapshot_SortedUnreadFirst(t *testing.T) {
	f := &fakeFetcher{}
	f.setAlerts([]model.Alert{
		{AlertID: 1, AlertStatus: model.AlertStatusRead},
		{AlertID: 2, AlertStatus: model.AlertStatusUnread},
		{AlertID: 3, AlertStatus: model.AlertStatusRead},
		{AlertID: 4, AlertStatus: model.AlertStatusUnread},
	})

	updated := make(chan struct{}, 1)
	p := New(f, Config{
		Interval: time.Hour,
		OnUpdate: func([]model.Alert) {
			select {
			case updated <- struct{}{}:
			default:
			}
		},
	}, testLogger())

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer p.Stop()
	<-updated

	got := p.Snapshot()
	want := []int64{2, 4, 1, 3}
	if len(got) != len(want) {
		t.Fatalf("snapshot has %d alerts, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].AlertID != id {
			t.Errorf("position %d: alert %d, want %d", i, got[i].AlertID, id)
		}
	}
}

func TestFetchFailure_KeepsPreviousData(t *testing.T) {
	f := &fakeFetcher{}
	f.setAlerts([]model.Alert{{AlertID: 1, AlertStatus: model.AlertStatusUnread}})

	var fetchErrs atomic.Int32
	p := New(f, Config{
		Interval: 10 * time.Millisecond,
		OnError:  func(error) { fetchErrs.Add(1) },
	}, testLogger())

	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer p.Stop()

	waitFor(t, func() bool { return len(p.Snapshot()) == 1 }, "initial fetch never applied")

	f.setFetchErr(errors.New("backend down"))
	waitFor(t, func() bool { return fetchErrs.Load() >= 2 }, "failed ticks did not continue")

	if got := p.Snapshot(); len(got) != 1 || got[0].AlertID != 1 {
		t.Errorf("stale data must survive fetch failures, got %+v", got)
	}

	// Recovery on a later tick replaces the snapshot again.
	f.setFetchErr(nil)
	f.setAlerts([]model.Alert{{AlertID: 7, AlertStatus: model.AlertStatusUnread}})
	waitFor(t, func() bool {
		s := p.Snapshot()
		return len(s) == 1 && s[0].AlertID == 7
	}, "loop did not recover after failures")
}

func TestMarkRead_FlipsSingleItemWithoutRefetch(t *testing.T) {
	f := &fakeFetcher{}
	f.setAlerts([]model.Alert{
		{AlertID: 42, AlertStatus: model.AlertStatusUnread},
		{AlertID: 43, AlertStatus: model.AlertStatusUnread},
	})

	p := New(f, Config{Interval: time.Hour}, testLogger())
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer p.Stop()
	waitFor(t, func() bool { return len(p.Snapshot()) == 2 }, "initial fetch never applied")

	before := f.fetches.Load()
	if err := p.MarkRead(context.Background(), 42); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if f.fetches.Load() != before {
		t.Error("MarkRead must not refetch the collection")
	}

	for _, a := range p.Snapshot() {
		switch a.AlertID {
		case 42:
			if a.AlertStatus != model.AlertStatusRead {
				t.Errorf("alert 42 status = %q, want Read", a.AlertStatus)
			}
		case 43:
			if a.AlertStatus != model.AlertStatusUnread {
				t.Errorf("alert 43 status = %q, want Unread", a.AlertStatus)
			}
		}
	}
}

func TestMarkRead_FailureLeavesStatusUnchanged(t *testing.T) {
	f := &fakeFetcher{}
	f.setAlerts([]model.Alert{{AlertID: 42, AlertStatus: model.AlertStatusUnread}})
	p := New(f, Config{Interval: time.Hour}, testLogger())
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer p.Stop()
	waitFor(t, func() bool { return len(p.Snapshot()) == 1 }, "initial fetch never applied")

	f.mu.Lock()
	f.markErr = errors.New("server rejected")
	f.mu.Unlock()

	if err := p.MarkRead(context.Background(), 42); err == nil {
		t.Fatal("expected MarkRead error")
	}
	if got := p.Snapshot()[0].AlertStatus; got != model.AlertStatusUnread {
		t.Errorf("status after failed MarkRead = %q, want Unread", got)
	}
}

func TestStop_DiscardsInFlightResult(t *testing.T) {
	f := &fakeFetcher{block: make(chan struct{})}
	f.setAlerts([]model.Alert{{AlertID: 1, AlertStatus: model.AlertStatusUnread}})

	p := New(f, Config{Interval: time.Hour}, testLogger())
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// The first fetch is now blocked in flight. Stop concurrently, then let
	// the fetch complete.
	stopDone := make(chan struct{})
	go func() {
		p.Stop()
		close(stopDone)
	}()
	close(f.block)
	<-stopDone

	if got := p.Snapshot(); len(got) != 0 {
		t.Errorf("result arriving after Stop must be discarded, got %+v", got)
	}
}

func TestContextCancelStopsLoop(t *testing.T) {
	f := &fakeFetcher{}
	p := New(f, Config{Interval: 10 * time.Millisecond}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitFor(t, func() bool { return f.fetches.Load() >= 1 }, "no initial fetch")

	cancel()
	time.Sleep(30 * time.Millisecond)
	after := f.fetches.Load()
	time.Sleep(50 * time.Millisecond)
	if got := f.fetches.Load(); got != after {
		t.Errorf("fetches continued after context cancel: %d -> %d", after, got)
	}
}
