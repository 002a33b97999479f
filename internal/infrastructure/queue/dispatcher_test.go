package queue

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
)

type stubAuditRepo struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (r *stubAuditRepo) Insert(_ context.Context, event *domain.AuthEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *stubAuditRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *stubAuditRepo) snapshot() []domain.AuthEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuthEvent, len(r.events))
	copy(out, r.events)
	return out
}

func waitForEvents(t *testing.T, repo *stubAuditRepo, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if repo.count() >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, have %d", want, repo.count())
}

// Events for one identity land on one worker, so their order survives.
func TestDispatcher_PreservesPerIdentityOrder(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewDispatcher(4, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	const n = 20
	for i := 0; i < n; i++ {
		d.Record(domain.AuthEvent{
			Kind:   domain.AuditLogin,
			Email:  "alice@example.com",
			Reason: strconv.Itoa(i),
		})
	}

	waitForEvents(t, repo, n)
	for i, ev := range repo.snapshot() {
		if ev.Reason != strconv.Itoa(i) {
			t.Fatalf("event %d out of order: %q", i, ev.Reason)
		}
	}
}

func TestDispatcher_ShardsByEmailThenSubject(t *testing.T) {
	d := NewDispatcher(8, &stubAuditRepo{}, zerolog.Nop())

	byEmail := shardKey(domain.AuthEvent{Email: "a@example.com", Subject: "user-1"})
	if byEmail != "a@example.com" {
		t.Fatalf("shard key = %q, want email", byEmail)
	}
	bySubject := shardKey(domain.AuthEvent{Subject: "user-1"})
	if bySubject != "user-1" {
		t.Fatalf("shard key = %q, want subject", bySubject)
	}
	if d.shardIndex("a@example.com") != d.shardIndex("a@example.com") {
		t.Fatalf("shard index not deterministic")
	}
}

// Record must never block, even with every worker stalled. Overflow is
// dropped, not queued.
func TestDispatcher_DropsWhenFull(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewDispatcher(1, repo, zerolog.Nop())
	// Workers not started yet: the channel fills up.

	const extra = 3
	for i := 0; i < channelBuffer+extra; i++ {
		d.Record(domain.AuthEvent{Kind: domain.AuditLogin, Email: "a@example.com"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	waitForEvents(t, repo, channelBuffer)
	time.Sleep(50 * time.Millisecond)
	if got := repo.count(); got != channelBuffer {
		t.Fatalf("expected %d delivered events, got %d", channelBuffer, got)
	}
}
