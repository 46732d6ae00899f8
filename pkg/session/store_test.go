package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/goliatone/go-signup/pkg/session"
	"github.com/goliatone/go-signup/pkg/wizard"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestStore_CreateAndGet(t *testing.T) {
	store := session.NewStore()
	sess := store.Create()

	if sess.ID == "" || sess.CSRFToken == "" || sess.ID == sess.CSRFToken {
		t.Fatalf("unexpected identifiers %+v", sess)
	}
	if sess.State.Step != wizard.StepAccount || sess.State.Draft != (wizard.Draft{}) {
		t.Fatalf("session should start empty on the account step: %+v", sess.State)
	}

	got, ok := store.Get(sess.ID)
	if !ok || got.ID != sess.ID {
		t.Fatalf("get returned %+v, %v", got, ok)
	}
	if _, ok := store.Get("missing"); ok {
		t.Fatalf("unknown id should not resolve")
	}
	if store.Len() != 1 {
		t.Fatalf("len = %d", store.Len())
	}
}

func TestStore_ApplyInOrder(t *testing.T) {
	store := session.NewStore()
	sess := store.Create()

	got, effect, err := store.Apply(sess.ID,
		wizard.SetText{Field: wizard.FieldFirstName, Value: "A"},
		wizard.SetText{Field: wizard.FieldFirstName, Value: "Ada"},
		wizard.SetPlan{Plan: wizard.PlanPremium},
		wizard.SetAgreeTerms{Agreed: true},
		wizard.Submit{},
	)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if effect != wizard.EffectAdvance || got.State.Step != wizard.StepPayment {
		t.Fatalf("expected advance, got %s at %s", effect, got.State.Step)
	}
	if got.State.Draft.FirstName != "Ada" {
		t.Fatalf("events applied out of order: %q", got.State.Draft.FirstName)
	}
}

func TestStore_ApplyErrorKeepsState(t *testing.T) {
	store := session.NewStore()
	sess := store.Create()

	_, _, err := store.Apply(sess.ID, wizard.SetText{Field: wizard.FieldEmail, Value: "x"}, wizard.Submit{})
	if !errors.Is(err, wizard.ErrSubmitDisabled) {
		t.Fatalf("expected ErrSubmitDisabled, got %v", err)
	}
	got, _ := store.Get(sess.ID)
	if got.State.Draft.Email != "" {
		t.Fatalf("failed batch must not change state: %+v", got.State.Draft)
	}

	if _, _, err := store.Apply("missing", wizard.Submit{}); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ConcurrentAppliesSerialize(t *testing.T) {
	store := session.NewStore()
	sess := store.Create()

	const writers = 32
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Update(sess.ID, func(s *session.Session) error {
				s.State.Draft.FirstName += "x"
				return nil
			})
		}()
	}
	wg.Wait()

	got, _ := store.Get(sess.ID)
	if len(got.State.Draft.FirstName) != writers {
		t.Fatalf("lost updates: %d of %d", len(got.State.Draft.FirstName), writers)
	}
}

func TestStore_DiscardInsideUpdate(t *testing.T) {
	store := session.NewStore()
	sess := store.Create()

	_, err := store.Update(sess.ID, func(*session.Session) error {
		store.Discard(sess.ID)
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, ok := store.Get(sess.ID); ok {
		t.Fatalf("discarded session still resolves")
	}
	if store.Len() != 0 {
		t.Fatalf("len = %d", store.Len())
	}
	store.Discard(sess.ID)
}

func TestStore_ExpiryAndSweep(t *testing.T) {
	clock := newFakeClock()
	store := session.NewStore(session.WithTTL(time.Minute), session.WithClock(clock.Now))

	idle := store.Create()
	active := store.Create()

	clock.Advance(45 * time.Second)
	if _, _, err := store.Apply(active.ID, wizard.SetAgreeTerms{Agreed: true}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	clock.Advance(30 * time.Second)

	if _, ok := store.Get(idle.ID); ok {
		t.Fatalf("idle session should have expired")
	}
	if _, ok := store.Get(active.ID); !ok {
		t.Fatalf("active session should still be live")
	}
	if removed := store.Sweep(); removed != 1 {
		t.Fatalf("sweep removed %d, want 1", removed)
	}
	if store.Len() != 1 {
		t.Fatalf("len = %d", store.Len())
	}
}

func TestStore_RunStopsOnCancel(t *testing.T) {
	clock := newFakeClock()
	store := session.NewStore(
		session.WithTTL(time.Second),
		session.WithClock(clock.Now),
		session.WithSweepInterval(time.Millisecond),
	)
	store.Create()
	clock.Advance(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for store.Len() != 0 {
		select {
		case <-deadline:
			cancel()
			t.Fatalf("sweeper did not evict the expired session")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not return after cancel")
	}
}
