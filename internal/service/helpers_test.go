package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/models"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type memoryScheduleRepo struct {
	schedules map[uint]models.Schedule
	nextID    uint

	creates    int
	updates    int
	deletes    int
	failCreate error
	failUpdate error
}

func newMemoryScheduleRepo() *memoryScheduleRepo {
	return &memoryScheduleRepo{
		schedules: make(map[uint]models.Schedule),
		nextID:    1,
	}
}

func (m *memoryScheduleRepo) ListByStudent(ctx context.Context, studentID uint, filter repository.ScheduleFilter) ([]models.Schedule, error) {
	results := make([]models.Schedule, 0, len(m.schedules))
	for _, schedule := range m.schedules {
		if schedule.StudentID != studentID {
			continue
		}
		if filter.Month != "" && (len(schedule.Date) < 7 || schedule.Date[:7] != filter.Month) {
			continue
		}
		if filter.From != "" && schedule.Date < filter.From {
			continue
		}
		if filter.To != "" && schedule.Date > filter.To {
			continue
		}
		if filter.RegularOnly && !schedule.IsRegular {
			continue
		}
		if filter.Status != "" && schedule.Status != filter.Status {
			continue
		}
		results = append(results, schedule)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Date != results[j].Date {
			return results[i].Date < results[j].Date
		}
		return results[i].StartTime < results[j].StartTime
	})
	return results, nil
}

func (m *memoryScheduleRepo) GetByID(ctx context.Context, id uint) (models.Schedule, error) {
	schedule, ok := m.schedules[id]
	if !ok {
		return models.Schedule{}, gorm.ErrRecordNotFound
	}
	return schedule, nil
}

func (m *memoryScheduleRepo) Create(ctx context.Context, schedule *models.Schedule) error {
	if m.failCreate != nil {
		return m.failCreate
	}
	m.creates++
	schedule.ID = m.nextID
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()
	m.schedules[m.nextID] = *schedule
	m.nextID++
	return nil
}

func (m *memoryScheduleRepo) Update(ctx context.Context, schedule *models.Schedule) error {
	if m.failUpdate != nil {
		return m.failUpdate
	}
	if _, ok := m.schedules[schedule.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.updates++
	schedule.UpdatedAt = time.Now()
	m.schedules[schedule.ID] = *schedule
	return nil
}

func (m *memoryScheduleRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.schedules[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.deletes++
	delete(m.schedules, id)
	return nil
}

func (m *memoryScheduleRepo) mutations() int {
	return m.creates + m.updates + m.deletes
}

type memoryAssignmentRepo struct {
	assignments map[uint]models.Assignment
	nextID      uint
}

func newMemoryAssignmentRepo() *memoryAssignmentRepo {
	return &memoryAssignmentRepo{
		assignments: make(map[uint]models.Assignment),
		nextID:      1,
	}
}

func (m *memoryAssignmentRepo) ListByStudent(ctx context.Context, studentID uint, filter repository.AssignmentFilter) ([]models.Assignment, error) {
	results := make([]models.Assignment, 0, len(m.assignments))
	for _, assignment := range m.assignments {
		if assignment.StudentID != studentID {
			continue
		}
		if filter.Status != "" && assignment.Status != filter.Status {
			continue
		}
		results = append(results, assignment)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].DueDate != results[j].DueDate {
			return results[i].DueDate < results[j].DueDate
		}
		return results[i].ID < results[j].ID
	})
	return results, nil
}

func (m *memoryAssignmentRepo) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	assignment, ok := m.assignments[id]
	if !ok {
		return models.Assignment{}, gorm.ErrRecordNotFound
	}
	return assignment, nil
}

func (m *memoryAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	assignment.ID = m.nextID
	assignment.CreatedAt = time.Now()
	assignment.UpdatedAt = time.Now()
	m.assignments[m.nextID] = *assignment
	m.nextID++
	return nil
}

func (m *memoryAssignmentRepo) Update(ctx context.Context, assignment *models.Assignment) error {
	if _, ok := m.assignments[assignment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	assignment.UpdatedAt = time.Now()
	m.assignments[assignment.ID] = *assignment
	return nil
}

func (m *memoryAssignmentRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.assignments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.assignments, id)
	return nil
}

type recordingRevalidator struct {
	scheduleEvents   []uint
	assignmentEvents []uint
}

func (r *recordingRevalidator) ScheduleChanged(studentID uint) {
	r.scheduleEvents = append(r.scheduleEvents, studentID)
}

func (r *recordingRevalidator) AssignmentChanged(studentID uint) {
	r.assignmentEvents = append(r.assignmentEvents, studentID)
}
