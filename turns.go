package main

// turnCoordinator rotates the single active responder through the player
// snapshot taken at session creation. The snapshot is immutable; players
// who disconnect keep their turn slot (the session reaper bounds rooms that
// are abandoned outright).
type turnCoordinator struct {
	players   []playerInfo
	turnIndex int
}

func newTurnCoordinator(players []playerInfo) turnCoordinator {
	return turnCoordinator{players: players}
}

func (tc *turnCoordinator) active() (id int64, name string) {
	if len(tc.players) == 0 {
		return 0, ""
	}
	p := tc.players[tc.turnIndex]
	return p.ID, p.FirstName
}

// allowed reports whether the given player holds the turn.
func (tc *turnCoordinator) allowed(playerID int64) bool {
	if len(tc.players) == 0 {
		return false
	}
	return tc.players[tc.turnIndex].ID == playerID
}

// advance moves the turn to the next player, wrapping around. Called only
// after a correct, non-final submission; incorrect submissions leave the
// turn with the same player so they may retry.
func (tc *turnCoordinator) advance() {
	if len(tc.players) == 0 {
		return
	}
	tc.turnIndex = (tc.turnIndex + 1) % len(tc.players)
}
