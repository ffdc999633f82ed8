package keylock

import (
	"sync"
	"testing"
	"time"
)

func TestLockSerializesSameKey(t *testing.T) {
	l := New()

	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("alice")
			defer unlock()
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
	if n := l.size(); n != 0 {
		t.Errorf("expected all entries released, %d left", n)
	}
}

func TestLockOverlappingSetsDoNotDeadlock(t *testing.T) {
	l := New()

	done := make(chan struct{})
	go func() {
		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				l.Lock("a", "b", "supply")()
			}()
			go func() {
				defer wg.Done()
				l.Lock("supply", "b", "a")()
			}()
		}
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("overlapping lock sets deadlocked")
	}
}

func TestLockDuplicateKeys(t *testing.T) {
	l := New()

	// a self-transfer locks the same address twice
	unlock := l.Lock("alice", "alice")
	if n := l.size(); n != 1 {
		t.Errorf("expected 1 entry, got %d", n)
	}
	unlock()
	unlock()

	if n := l.size(); n != 0 {
		t.Errorf("expected 0 entries after unlock, got %d", n)
	}
}

func TestDifferentKeysRunConcurrently(t *testing.T) {
	l := New()

	unlockA := l.Lock("a")
	defer unlockA()

	acquired := make(chan struct{})
	go func() {
		l.Lock("b")()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock on b blocked behind a")
	}
}
