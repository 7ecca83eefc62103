package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore implements Store on a SQLite database.
type SQLiteStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and
// initializes its schema.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if err := EnsureDataDir(filepath.Dir(dbPath)); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.dbPath }

// DB exposes the underlying handle for maintenance commands.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

// SaveBuilding inserts or replaces a building and its rooms. Replacing a
// building keeps its simulations and its creation time.
func (s *SQLiteStore) SaveBuilding(ctx context.Context, rec BuildingRecord) error {
	if err := validateBuildingRecord(rec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if rec.ContentHash == "" {
		rec.ContentHash = rec.Hash()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO buildings (name, start_date, value_count, content_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			start_date = excluded.start_date,
			value_count = excluded.value_count,
			content_hash = excluded.content_hash,
			updated_at = excluded.updated_at
	`, rec.Name, formatTime(rec.StartDate), rec.ValueCount(), rec.ContentHash,
		formatTime(createdAt), formatTime(now))
	if err != nil {
		return fmt.Errorf("failed to save building %s: %w", rec.Name, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM building_rooms WHERE building = ?`, rec.Name); err != nil {
		return fmt.Errorf("failed to clear rooms of %s: %w", rec.Name, err)
	}
	for i, r := range rec.Rooms {
		values, err := json.Marshal(r.Values)
		if err != nil {
			return fmt.Errorf("failed to marshal values of room %s: %w", r.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO building_rooms (building, position, room_id, room_type, hourly_values)
			VALUES (?, ?, ?, ?, ?)
		`, rec.Name, i, r.ID, string(r.Type), string(values))
		if err != nil {
			return fmt.Errorf("failed to save room %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// GetBuilding returns a building by name, or ErrNotFound.
func (s *SQLiteStore) GetBuilding(ctx context.Context, name string) (*BuildingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT name, start_date, content_hash, created_at, updated_at
		FROM buildings WHERE name = ?
	`, name)
	rec, err := scanBuilding(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("building %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rec.Rooms, err = s.loadRooms(ctx, name)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListBuildings returns every building ordered by name, rooms included.
func (s *SQLiteStore) ListBuildings(ctx context.Context) ([]BuildingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, start_date, content_hash, created_at, updated_at
		FROM buildings ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query buildings: %w", err)
	}

	var out []BuildingRecord
	for rows.Next() {
		rec, err := scanBuilding(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate buildings: %w", err)
	}
	rows.Close()

	// Single connection: rooms are loaded after the cursor is released.
	for i := range out {
		if out[i].Rooms, err = s.loadRooms(ctx, out[i].Name); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DeleteBuilding removes a building; rooms and simulations cascade.
func (s *SQLiteStore) DeleteBuilding(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM buildings WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete building %s: %w", name, err)
	}
	return requireAffected(res, "building", name)
}

// SaveSimulation inserts or replaces a simulation result. Its building must exist.
func (s *SQLiteStore) SaveSimulation(ctx context.Context, rec SimulationRecord) error {
	if err := validateSimulationRecord(rec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM buildings WHERE name = ?`, rec.Building).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check building %s: %w", rec.Building, err)
	}
	if exists == 0 {
		return fmt.Errorf("building %q: %w", rec.Building, ErrNotFound)
	}

	report, err := json.Marshal(rec.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO simulations (id, name, building, date, mode, seed, count, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Name, rec.Building, formatTime(rec.Date), string(rec.Mode), rec.Seed, rec.Count, string(report))
	if err != nil {
		return fmt.Errorf("failed to save simulation %s: %w", rec.ID, err)
	}
	return nil
}

// GetSimulation returns a simulation by ID, or ErrNotFound.
func (s *SQLiteStore) GetSimulation(ctx context.Context, id string) (*SimulationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, building, date, mode, seed, count, report
		FROM simulations WHERE id = ?
	`, id)
	rec, err := scanSimulation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("simulation %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListSimulations returns simulations newest first.
func (s *SQLiteStore) ListSimulations(ctx context.Context, filter SimulationFilter) ([]SimulationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, name, building, date, mode, seed, count, report FROM simulations`
	var args []any
	if filter.Building != "" {
		query += ` WHERE building = ?`
		args = append(args, filter.Building)
	}
	query += ` ORDER BY date DESC, id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query simulations: %w", err)
	}
	defer rows.Close()

	var out []SimulationRecord
	for rows.Next() {
		rec, err := scanSimulation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteSimulation removes a simulation result.
func (s *SQLiteStore) DeleteSimulation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM simulations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete simulation %s: %w", id, err)
	}
	return requireAffected(res, "simulation", id)
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func (s *SQLiteStore) loadRooms(ctx context.Context, name string) ([]RoomRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT room_id, room_type, hourly_values
		FROM building_rooms WHERE building = ? ORDER BY position
	`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms of %s: %w", name, err)
	}
	defer rows.Close()

	var out []RoomRecord
	for rows.Next() {
		var r RoomRecord
		var typ, values string
		if err := rows.Scan(&r.ID, &typ, &values); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		r.Type = roomType(typ)
		if err := json.Unmarshal([]byte(values), &r.Values); err != nil {
			return nil, fmt.Errorf("failed to unmarshal values of room %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBuilding(row scanner) (BuildingRecord, error) {
	var rec BuildingRecord
	var start sql.NullString
	var created, updated string
	if err := row.Scan(&rec.Name, &start, &rec.ContentHash, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("failed to scan building: %w", err)
	}
	rec.StartDate = parseTime(start.String)
	rec.CreatedAt = parseTime(created)
	rec.UpdatedAt = parseTime(updated)
	return rec, nil
}

func scanSimulation(row scanner) (SimulationRecord, error) {
	var rec SimulationRecord
	var name sql.NullString
	var date, mode, report string
	if err := row.Scan(&rec.ID, &name, &rec.Building, &date, &mode, &rec.Seed, &rec.Count, &report); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("failed to scan simulation: %w", err)
	}
	rec.Name = name.String
	rec.Date = parseTime(date)
	rec.Mode = simulationMode(mode)
	if err := json.Unmarshal([]byte(report), &rec.Report); err != nil {
		return rec, fmt.Errorf("failed to unmarshal report of %s: %w", rec.ID, err)
	}
	return rec, nil
}

func requireAffected(res sql.Result, kind, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", kind, key, ErrNotFound)
	}
	return nil
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
