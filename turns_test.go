package main

import "testing"

func threePlayers() []playerInfo {
	return []playerInfo{
		{ID: 11, FirstName: "Ada", LastName: "Lovelace"},
		{ID: 22, FirstName: "Grace", LastName: "Hopper"},
		{ID: 33, FirstName: "Alan", LastName: "Turing"},
	}
}

func TestTurnRotation(t *testing.T) {
	tc := newTurnCoordinator(threePlayers())

	wantOrder := []int64{11, 22, 33, 11, 22}
	for i, want := range wantOrder {
		id, _ := tc.active()
		if id != want {
			t.Fatalf("turn %d: active = %d, want %d", i, id, want)
		}
		tc.advance()
	}
}

func TestTurnAllowed(t *testing.T) {
	tc := newTurnCoordinator(threePlayers())

	if !tc.allowed(11) {
		t.Error("first player must hold the first turn")
	}
	if tc.allowed(22) || tc.allowed(33) || tc.allowed(99) {
		t.Error("other players must not hold the first turn")
	}

	tc.advance()

	if tc.allowed(11) {
		t.Error("turn must move off the first player after advance")
	}
	if !tc.allowed(22) {
		t.Error("second player must hold the turn after one advance")
	}
}

func TestTurnActiveName(t *testing.T) {
	tc := newTurnCoordinator(threePlayers())
	tc.advance()

	id, name := tc.active()
	if id != 22 || name != "Grace" {
		t.Errorf("active = (%d, %q), want (22, Grace)", id, name)
	}
}

func TestTurnEmptyRoster(t *testing.T) {
	tc := newTurnCoordinator(nil)

	if id, name := tc.active(); id != 0 || name != "" {
		t.Errorf("active on empty roster = (%d, %q), want (0, \"\")", id, name)
	}
	if tc.allowed(11) {
		t.Error("no player is allowed on an empty roster")
	}

	tc.advance() // must not panic
}
