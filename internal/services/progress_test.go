package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/joshua/internal/entities"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newProgressManager(env *testEnv, clock *fakeClock) *ReadingProgressManager {
	manager := NewReadingProgressManager(env.progress, 3*time.Second)
	manager.now = clock.Now
	return manager
}

func TestReadingProgressManager_Threshold(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	clock := &fakeClock{now: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
	manager := newProgressManager(env, clock)

	require.NoError(t, manager.StartTracking(entities.NewVerseIndex(0, 0, 0)))
	clock.Advance(2 * time.Second)
	require.NoError(t, manager.StopTracking())

	progress, err := manager.ReadReadingProgress()
	require.NoError(t, err)
	assert.Empty(t, progress.ChapterReadingStatus)
	assert.Zero(t, progress.ContinuousReadingDays)

	require.NoError(t, manager.StartTracking(entities.NewVerseIndex(0, 0, 0)))
	clock.Advance(10 * time.Second)
	require.NoError(t, manager.StopTracking())

	progress, err = manager.ReadReadingProgress()
	require.NoError(t, err)
	require.Len(t, progress.ChapterReadingStatus, 1)
	assert.Equal(t, int64(10000), progress.ChapterReadingStatus[0].TimeSpentInMillis)
	assert.Equal(t, 1, progress.ContinuousReadingDays)

	// Stopping twice records nothing more.
	require.NoError(t, manager.StopTracking())
}

func TestReadingProgressManager_ChapterSwitch(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	clock := &fakeClock{now: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
	manager := newProgressManager(env, clock)

	require.NoError(t, manager.StartTracking(entities.NewVerseIndex(0, 0, 0)))
	clock.Advance(5 * time.Second)
	// Same chapter keeps the running timer.
	require.NoError(t, manager.StartTracking(entities.NewVerseIndex(0, 0, 5)))
	clock.Advance(5 * time.Second)
	require.NoError(t, manager.StartTracking(entities.NewVerseIndex(0, 1, 0)))
	clock.Advance(4 * time.Second)
	require.NoError(t, manager.StopTracking())

	progress, err := manager.ReadReadingProgress()
	require.NoError(t, err)
	require.Len(t, progress.ChapterReadingStatus, 2)
	assert.Equal(t, int64(10000), progress.ChapterReadingStatus[0].TimeSpentInMillis)
	assert.Equal(t, int64(4000), progress.ChapterReadingStatus[1].TimeSpentInMillis)

	_, tracking := manager.Tracking()
	assert.False(t, tracking)
	assert.ErrorIs(t, manager.StartTracking(entities.InvalidVerseIndex), ErrInvalidVerseIndex)
}

func TestReadingProgressManager_Streak(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	clock := &fakeClock{now: time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC)}
	manager := newProgressManager(env, clock)

	read := func() {
		require.NoError(t, manager.StartTracking(entities.NewVerseIndex(0, 0, 0)))
		clock.Advance(5 * time.Second)
		require.NoError(t, manager.StopTracking())
	}
	streak := func() int {
		progress, err := manager.ReadReadingProgress()
		require.NoError(t, err)
		return progress.ContinuousReadingDays
	}

	read()
	assert.Equal(t, 1, streak())

	clock.Advance(10 * time.Minute)
	read()
	assert.Equal(t, 1, streak(), "same day")

	clock.Advance(24 * time.Hour)
	read()
	assert.Equal(t, 2, streak(), "next day")

	clock.Advance(72 * time.Hour)
	assert.Equal(t, 0, streak(), "broken streak reads as zero")
	read()
	assert.Equal(t, 1, streak(), "restarted")
}

func TestReadingProgressManager_Summary(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	// Read all of Jude (book 64, one chapter), Genesis 1 and Matthew 1.
	require.NoError(t, env.progress.TrackChapter(64, 0, time.Minute, now))
	require.NoError(t, env.progress.TrackChapter(0, 0, time.Minute, now))
	require.NoError(t, env.progress.TrackChapter(0, 0, time.Minute, now))
	require.NoError(t, env.progress.TrackChapter(39, 0, time.Minute, now))

	clock := &fakeClock{now: now}
	summary, err := newProgressManager(env, clock).Summary()
	require.NoError(t, err)

	assert.Equal(t, 3, summary.ChaptersRead)
	assert.Equal(t, entities.TotalChapterCount, summary.TotalChapters)
	assert.Equal(t, 1, summary.FinishedBooks)
	assert.Equal(t, 1, summary.OldTestamentChapters)
	assert.Equal(t, 2, summary.NewTestamentChapters)
	assert.Equal(t, int64(4*60*1000), summary.TotalTimeSpentInMillis)
	assert.Equal(t, 1, summary.BookChaptersRead[0])
	assert.Equal(t, 1, summary.BookChaptersRead[64])
}

func TestDaysBetween(t *testing.T) {
	base := time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 0, daysBetween(base, base.Add(30*time.Second)))
	assert.Equal(t, 1, daysBetween(base, base.Add(2*time.Minute)))
	assert.Equal(t, 2, daysBetween(base, base.Add(25*time.Hour)))
}
