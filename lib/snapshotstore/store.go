package snapshotstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"teaptrack-backend/lib/timezone"
	"teaptrack-backend/services/tracker"

	_ "modernc.org/sqlite"
)

// Store keeps dated competency-dataset snapshots in sqlite, one per
// user per day (a later push on the same day replaces the earlier
// one). Documents are stored in the persisted snapshot shape so the
// database stays readable by anything that understands that contract.
type Store struct {
	db *sql.DB
}

func Open(path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return Store{}, err
	}
	_, err = db.Exec(Schema)
	if err != nil {
		db.Close()
		return Store{}, err
	}
	return Store{db: db}, nil
}

func NewStore(db *sql.DB) Store {
	return Store{db: db}
}

func (s Store) Close() error {
	return s.db.Close()
}

func dayBounds(t time.Time) (int64, int64) {
	t = t.In(timezone.Location)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, timezone.Location)
	return start.Unix(), start.AddDate(0, 0, 1).Unix()
}

func (s Store) Push(ctx context.Context, takenAt time.Time, ds *tracker.CompetencyDataset) error {
	if ds.Profile.UserID == "" {
		return fmt.Errorf("dataset has no user id")
	}
	document, err := tracker.MarshalSnapshot(ds)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	startOfDay, endOfDay := dayBounds(takenAt)
	_, err = tx.ExecContext(
		ctx,
		`DELETE FROM snapshot WHERE user_id = ? AND taken_at >= ? AND taken_at < ?`,
		ds.Profile.UserID, startOfDay, endOfDay,
	)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO snapshot (user_id, taken_at, document) VALUES (?, ?, ?)`,
		ds.Profile.UserID, takenAt.Unix(), document,
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Pull returns the most recent snapshot for a user. sql.ErrNoRows
// when there is none.
func (s Store) Pull(ctx context.Context, userID string) (*tracker.CompetencyDataset, time.Time, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT taken_at, document FROM snapshot
		 WHERE user_id = ? ORDER BY taken_at DESC LIMIT 1`,
		userID,
	)
	var takenAt int64
	var document []byte
	if err := row.Scan(&takenAt, &document); err != nil {
		return nil, time.Time{}, err
	}
	ds, err := tracker.UnmarshalSnapshot(document)
	if err != nil {
		return nil, time.Time{}, err
	}
	return ds, time.Unix(takenAt, 0).In(timezone.Location), nil
}

type DatedSnapshot struct {
	TakenAt time.Time
	Dataset *tracker.CompetencyDataset
}

// History returns every snapshot for a user, oldest first.
func (s Store) History(ctx context.Context, userID string) ([]DatedSnapshot, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT taken_at, document FROM snapshot
		 WHERE user_id = ? ORDER BY taken_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DatedSnapshot
	for rows.Next() {
		var takenAt int64
		var document []byte
		if err := rows.Scan(&takenAt, &document); err != nil {
			return nil, err
		}
		ds, err := tracker.UnmarshalSnapshot(document)
		if err != nil {
			return nil, err
		}
		out = append(out, DatedSnapshot{
			TakenAt: time.Unix(takenAt, 0).In(timezone.Location),
			Dataset: ds,
		})
	}
	return out, rows.Err()
}

// Users lists every user id with at least one snapshot.
func (s Store) Users(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT DISTINCT user_id FROM snapshot ORDER BY user_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
