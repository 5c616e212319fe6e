package main

import (
	"testing"
	"time"
)

func newTestManager() *SessionManager {
	return newSessionManager(&Config{sessionTimeout: time.Hour}, NewMemoryDirectory())
}

func TestGetHubSharedPerCode(t *testing.T) {
	sm := newTestManager()

	a := sm.getHub("AAAA")
	b := sm.getHub("AAAA")
	c := sm.getHub("BBBB")

	if a != b {
		t.Error("same code must share one hub")
	}
	if a == c {
		t.Error("different codes must get different hubs")
	}
	if got := sm.hubCount(); got != 2 {
		t.Errorf("hub count = %d, want 2", got)
	}

	sm.reapIdle(time.Now().Add(2 * time.Hour))
}

func TestReapIdleHubs(t *testing.T) {
	sm := newTestManager()

	stale := sm.getHub("STALE1")
	fresh := sm.getHub("FRESH1")

	stale.mu.Lock()
	stale.lastActive = time.Now().Add(-2 * time.Hour)
	stale.mu.Unlock()

	reaped := sm.reapIdle(time.Now())

	if reaped != 1 {
		t.Fatalf("reaped %d hubs, want 1", reaped)
	}
	if got := sm.hubCount(); got != 1 {
		t.Errorf("hub count = %d, want 1", got)
	}

	select {
	case <-stale.done:
	default:
		t.Error("reaped hub's done channel must be closed")
	}

	// a fresh hub survives and keeps its loop
	select {
	case <-fresh.done:
		t.Error("fresh hub must not be reaped")
	default:
	}

	// the code is usable again afterwards
	if again := sm.getHub("STALE1"); again == stale {
		t.Error("a reaped code must get a new hub")
	}

	sm.reapIdle(time.Now().Add(2 * time.Hour))
}

func TestReapDisconnectsClientsFromLoop(t *testing.T) {
	sm := newTestManager()
	hub := sm.getHub("REAP01")

	client := &Client{send: make(chan any, 64)}
	hub.register <- client

	// an event still in flight when the reaper fires must not trip the
	// shutdown: only the hub loop touches the clients map
	hub.events <- inboundEvent{client: client, msg: clientMessage{Type: evStartQuiz}}

	// the loop re-touches lastActive as it drains, so back-date until the
	// reaper wins
	for deadline := time.Now().Add(time.Second); ; {
		hub.mu.Lock()
		hub.lastActive = time.Now().Add(-2 * time.Hour)
		hub.mu.Unlock()

		if sm.reapIdle(time.Now()) == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("hub was never reaped")
		}
	}

	// the loop closes its clients' channels on the way out
	timeout := time.After(time.Second)
	for {
		select {
		case _, ok := <-client.send:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("client channel not closed after reap")
		}
	}
}

func TestAttachRetriesEvictedHub(t *testing.T) {
	sm := newTestManager()

	// a hub evicted between lookup and registration: done closed, loop gone
	dead := newHub(sm.cfg, sm.dir, "SWAP01")
	close(dead.done)
	sm.mu.Lock()
	sm.hubs["SWAP01"] = dead
	sm.mu.Unlock()

	client := &Client{send: make(chan any, 8)}
	hub := sm.attach("SWAP01", client)

	if hub == dead {
		t.Fatal("attach must not register with an evicted hub")
	}
	if _, ok := (<-client.send).(sessionSnapshot); !ok {
		t.Fatal("attached client must receive a snapshot")
	}

	sm.reapIdle(time.Now().Add(2 * time.Hour))
}

func TestReapIdleKeepsActiveHubs(t *testing.T) {
	sm := newTestManager()

	hub := sm.getHub("BUSY42")
	hub.touch()

	if reaped := sm.reapIdle(time.Now()); reaped != 0 {
		t.Fatalf("reaped %d hubs, want 0", reaped)
	}

	sm.reapIdle(time.Now().Add(2 * time.Hour))
}
