package snapshotstore

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
	"teaptrack-backend/lib/timezone"
	"teaptrack-backend/services/tracker"

	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) Store {
	store, err := Open(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func dataset(userID string, score float64) *tracker.CompetencyDataset {
	return &tracker.CompetencyDataset{
		Profile: tracker.ProfileData{
			UserID:        userID,
			Name:          "Jane Citizen",
			StartDate:     time.Date(2022, time.February, 14, 0, 0, 0, 0, timezone.Location),
			ProgramLength: 3,
		},
		Competencies: []tracker.CompetencyRecord{
			{
				Name:             "3.2.1.4",
				Score:            score,
				Feedback:         "N/A",
				SubmissionStatus: tracker.StatusSubmitted,
				GradingStatus:    tracker.StatusNotGraded,
			},
		},
		Points: tracker.NewModulePointsSnapshot(),
	}
}

func TestStore(t *testing.T) {
	store := testStore(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	day1 := time.Date(2024, time.March, 4, 9, 0, 0, 0, timezone.Location)
	day2 := day1.AddDate(0, 0, 1)

	_, _, err := store.Pull(ctx, "42")
	require.ErrorIs(t, err, sql.ErrNoRows)

	// two pushes on the same day, the later one wins
	require.NoError(t, store.Push(ctx, day1, dataset("42", 0)))
	require.NoError(t, store.Push(ctx, day1.Add(time.Hour*8), dataset("42", 0.5)))
	require.NoError(t, store.Push(ctx, day2, dataset("42", 1)))

	require.NoError(t, store.Push(ctx, day1, dataset("99", 0)))

	ds, takenAt, err := store.Pull(ctx, "42")
	require.NoError(t, err)
	require.Equal(t, day2, takenAt)
	require.Equal(t, 1.0, ds.Competencies[0].Score)

	history, err := store.History(ctx, "42")
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, day1.Add(time.Hour*8), history[0].TakenAt)
	require.Equal(t, 0.5, history[0].Dataset.Competencies[0].Score)
	require.Equal(t, day2, history[1].TakenAt)

	users, err := store.Users(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"42", "99"}, users)
}

func TestStoreRejectsAnonymousDataset(t *testing.T) {
	store := testStore(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	err := store.Push(ctx, timezone.Now(), &tracker.CompetencyDataset{})
	require.Error(t, err)
}
