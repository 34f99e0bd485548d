package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/models"
)

// AssignmentFilter describes listing options for a student's homework.
type AssignmentFilter struct {
	Status models.AssignmentStatus
}

// AssignmentRepository defines persistence operations for homework items.
type AssignmentRepository interface {
	ListByStudent(ctx context.Context, studentID uint, filter AssignmentFilter) ([]models.Assignment, error)
	GetByID(ctx context.Context, id uint) (models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id uint) error
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates a GORM-backed repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) ListByStudent(ctx context.Context, studentID uint, filter AssignmentFilter) ([]models.Assignment, error) {
	query := r.db.WithContext(ctx).Where("student_id = ?", studentID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var assignments []models.Assignment
	if err := query.Order("due_date ASC, id ASC").Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *assignmentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Assignment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
