package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/models"
)

func TestScheduleRepositoryListFiltersByMonthAndOrders(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScheduleRepository(db)

	feb1 := models.Schedule{StudentID: 1, Date: "2026-02-17", StartTime: "18:00", EndTime: "19:30", Status: models.ScheduleStatusScheduled}
	feb2 := models.Schedule{StudentID: 1, Date: "2026-02-10", StartTime: "16:00", EndTime: "17:30", Status: models.ScheduleStatusScheduled}
	march := models.Schedule{StudentID: 1, Date: "2026-03-03", StartTime: "16:00", EndTime: "17:30", Status: models.ScheduleStatusScheduled}
	other := models.Schedule{StudentID: 2, Date: "2026-02-10", StartTime: "16:00", EndTime: "17:30", Status: models.ScheduleStatusScheduled}
	for _, s := range []*models.Schedule{&feb1, &feb2, &march, &other} {
		require.NoError(t, repo.Create(context.Background(), s))
	}

	schedules, err := repo.ListByStudent(context.Background(), 1, ScheduleFilter{Month: "2026-02"})
	require.NoError(t, err)
	require.Len(t, schedules, 2)
	require.Equal(t, "2026-02-10", schedules[0].Date, "expected date-ordered results")
	require.Equal(t, "2026-02-17", schedules[1].Date)
}

func TestScheduleRepositoryListRegularOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScheduleRepository(db)

	regular := models.Schedule{StudentID: 1, Date: "2026-02-10", StartTime: "16:00", EndTime: "17:30", IsRegular: true, DayOfWeek: "화", Status: models.ScheduleStatusScheduled}
	oneOff := models.Schedule{StudentID: 1, Date: "2026-02-12", StartTime: "18:00", EndTime: "19:30", Status: models.ScheduleStatusScheduled}
	require.NoError(t, repo.Create(context.Background(), &regular))
	require.NoError(t, repo.Create(context.Background(), &oneOff))

	schedules, err := repo.ListByStudent(context.Background(), 1, ScheduleFilter{RegularOnly: true})
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	require.True(t, schedules[0].IsRegular)
}

func TestScheduleRepositoryDeleteMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScheduleRepository(db)

	err := repo.Delete(context.Background(), 99)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Student{}, &models.Schedule{}, &models.Assignment{}))
	return db
}
