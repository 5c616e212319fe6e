package main

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RoomInfo is the directory's view of a room. The orchestrator never writes
// rooms or players; it only reads them to seed a session.
type RoomInfo struct {
	ID      int64
	Code    string
	OwnerID int64
}

// Directory resolves room codes and player rosters. Room returns (nil, nil)
// for an unknown code so callers can tell "absent" from "broken".
type Directory interface {
	Room(ctx context.Context, code string) (*RoomInfo, error)
	PlayersForRoom(ctx context.Context, roomID int64) ([]playerInfo, error)
	Close()
}

// openDirectory picks the backing store from configuration: Postgres when a
// database URL is set, an empty in-memory directory otherwise (useful for
// local runs and tests).
func openDirectory(ctx context.Context, cfg *Config) (Directory, error) {
	if cfg.databaseURL == "" {
		logf(cfg, "ROOMS: No database configured, using in-memory directory")

		return NewMemoryDirectory(), nil
	}

	pool, err := pgxpool.New(ctx, cfg.databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, err
	}

	return &postgresDirectory{pool: pool}, nil
}

type postgresDirectory struct {
	pool *pgxpool.Pool
}

func (d *postgresDirectory) Room(ctx context.Context, code string) (*RoomInfo, error) {
	row := d.pool.QueryRow(ctx,
		`SELECT id, code, owner_id FROM rooms WHERE code = $1`,
		strings.ToUpper(code),
	)

	var room RoomInfo
	err := row.Scan(&room.ID, &room.Code, &room.OwnerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &room, nil
}

func (d *postgresDirectory) PlayersForRoom(ctx context.Context, roomID int64) ([]playerInfo, error) {
	rows, err := d.pool.Query(ctx,
		`SELECT p.id, p.first_name, p.last_name
		 FROM players p
		 JOIN room_players rp ON rp.player_id = p.id
		 WHERE rp.room_id = $1
		 ORDER BY rp.joined_at, p.id`,
		roomID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []playerInfo
	for rows.Next() {
		var p playerInfo
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName); err != nil {
			return nil, err
		}
		players = append(players, p)
	}

	return players, rows.Err()
}

func (d *postgresDirectory) Close() {
	d.pool.Close()
}

// MemoryDirectory is the in-memory Directory used when no database is
// configured. Rooms are seeded through AddRoom.
type MemoryDirectory struct {
	mu      sync.RWMutex
	rooms   map[string]*RoomInfo
	players map[int64][]playerInfo
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		rooms:   make(map[string]*RoomInfo),
		players: make(map[int64][]playerInfo),
	}
}

func (d *MemoryDirectory) AddRoom(room RoomInfo, players []playerInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()

	code := strings.ToUpper(room.Code)
	room.Code = code
	d.rooms[code] = &room
	d.players[room.ID] = players
}

func (d *MemoryDirectory) Room(_ context.Context, code string) (*RoomInfo, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	room, ok := d.rooms[strings.ToUpper(code)]
	if !ok {
		return nil, nil
	}

	copied := *room

	return &copied, nil
}

func (d *MemoryDirectory) PlayersForRoom(_ context.Context, roomID int64) ([]playerInfo, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	players := d.players[roomID]
	out := make([]playerInfo, len(players))
	copy(out, players)

	return out, nil
}

func (d *MemoryDirectory) Close() {}
