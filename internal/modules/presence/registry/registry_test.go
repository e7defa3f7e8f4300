package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
)

type stubChannel struct{ id string }

func (s *stubChannel) ID() string             { return s.id }
func (s *stubChannel) Send(string, any) error { return nil }
func (s *stubChannel) Close() error           { return nil }

func TestRegisterLastWriterWins(t *testing.T) {
	t.Parallel()

	r := New()
	user := uuid.New()
	h1 := &stubChannel{id: "h1"}
	h3 := &stubChannel{id: "h3"}

	if replaced := r.Register(user, h1); replaced != nil {
		t.Fatalf("first register replaced %v", replaced)
	}
	if replaced := r.Register(user, h3); replaced != h1 {
		t.Fatalf("second register replaced %v, want h1", replaced)
	}

	got, ok := r.Lookup(user)
	if !ok || got != h3 {
		t.Fatalf("Lookup = (%v, %v), want h3", got, ok)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestRegisterSameChannelTwice(t *testing.T) {
	t.Parallel()

	r := New()
	user := uuid.New()
	h := &stubChannel{id: "h"}
	r.Register(user, h)
	if replaced := r.Register(user, h); replaced != nil {
		t.Errorf("re-registering the same channel reported replaced=%v", replaced)
	}
}

func TestUnregister(t *testing.T) {
	t.Parallel()

	r := New()
	user := uuid.New()

	// absent user is a no-op
	r.Unregister(user)

	r.Register(user, &stubChannel{id: "h1"})
	r.Unregister(user)
	if _, ok := r.Lookup(user); ok {
		t.Fatal("expected user to be absent after Unregister")
	}
}

func TestUnregisterIfKeepsNewerSession(t *testing.T) {
	t.Parallel()

	r := New()
	user := uuid.New()
	h1 := &stubChannel{id: "h1"}
	h3 := &stubChannel{id: "h3"}

	r.Register(user, h1)
	r.Register(user, h3)

	if r.UnregisterIf(user, h1) {
		t.Fatal("stale handle h1 must not remove h3")
	}
	if got, _ := r.Lookup(user); got != h3 {
		t.Fatalf("Lookup = %v, want h3", got)
	}
	if !r.UnregisterIf(user, h3) {
		t.Fatal("current handle should be removed")
	}
	if _, ok := r.Lookup(user); ok {
		t.Fatal("expected absent")
	}
}

func TestLookupFollowsLastCompletedOperation(t *testing.T) {
	t.Parallel()

	r := New()
	user := uuid.New()
	var last Channel

	for i := 0; i < 50; i++ {
		if i%3 == 2 {
			r.Unregister(user)
			last = nil
			continue
		}
		ch := &stubChannel{id: fmt.Sprintf("h%d", i)}
		r.Register(user, ch)
		last = ch
	}

	got, ok := r.Lookup(user)
	if last == nil {
		if ok {
			t.Fatalf("expected absent, got %v", got)
		}
		return
	}
	if !ok || got != last {
		t.Fatalf("Lookup = (%v, %v), want %v", got, ok, last)
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	r := New()
	users := make([]uuid.UUID, 32)
	for i := range users {
		users[i] = uuid.New()
	}

	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				u := users[(w+i)%len(users)]
				ch := &stubChannel{id: fmt.Sprintf("%d-%d", w, i)}
				r.Register(u, ch)
				r.Lookup(u)
				if i%2 == 0 {
					r.UnregisterIf(u, ch)
				} else {
					r.Unregister(u)
				}
			}
		}(w)
	}
	wg.Wait()

	if n := r.Len(); n < 0 || n > len(users) {
		t.Fatalf("Len = %d out of range", n)
	}
}

func TestShutdown(t *testing.T) {
	t.Parallel()

	r := New()
	r.Register(uuid.New(), &stubChannel{id: "a"})
	r.Register(uuid.New(), &stubChannel{id: "b"})

	chans := r.Shutdown()
	if len(chans) != 2 {
		t.Fatalf("Shutdown returned %d channels, want 2", len(chans))
	}
	if r.Len() != 0 {
		t.Errorf("Len after Shutdown = %d", r.Len())
	}
}
