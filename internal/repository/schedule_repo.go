package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/models"
)

// ScheduleFilter describes listing options for a student's sessions.
type ScheduleFilter struct {
	Month       string // "2006-01" date prefix
	From        string
	To          string
	RegularOnly bool
	Status      models.ScheduleStatus
}

// ScheduleRepository defines persistence operations for class sessions.
type ScheduleRepository interface {
	ListByStudent(ctx context.Context, studentID uint, filter ScheduleFilter) ([]models.Schedule, error)
	GetByID(ctx context.Context, id uint) (models.Schedule, error)
	Create(ctx context.Context, schedule *models.Schedule) error
	Update(ctx context.Context, schedule *models.Schedule) error
	Delete(ctx context.Context, id uint) error
}

type scheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository instantiates a GORM-backed repository.
func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) ListByStudent(ctx context.Context, studentID uint, filter ScheduleFilter) ([]models.Schedule, error) {
	query := r.db.WithContext(ctx).Where("student_id = ?", studentID)

	if filter.Month != "" {
		query = query.Where("date LIKE ?", filter.Month+"%")
	}
	if filter.From != "" {
		query = query.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		query = query.Where("date <= ?", filter.To)
	}
	if filter.RegularOnly {
		query = query.Where("is_regular = ?", true)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var schedules []models.Schedule
	if err := query.Order("date ASC, start_time ASC").Find(&schedules).Error; err != nil {
		return nil, err
	}

	return schedules, nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, id uint) (models.Schedule, error) {
	var schedule models.Schedule
	if err := r.db.WithContext(ctx).First(&schedule, id).Error; err != nil {
		return models.Schedule{}, err
	}

	return schedule, nil
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *scheduleRepository) Update(ctx context.Context, schedule *models.Schedule) error {
	return r.db.WithContext(ctx).Save(schedule).Error
}

func (r *scheduleRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Schedule{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
