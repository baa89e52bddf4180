package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-results-api/internal/dto"
	"github.com/noah-isme/sma-results-api/internal/models"
	"github.com/noah-isme/sma-results-api/internal/repository"
	appErrors "github.com/noah-isme/sma-results-api/pkg/errors"
)

type classCourseRepository interface {
	List(ctx context.Context, filter models.ClassCourseFilter) ([]models.ClassCourse, error)
	FindByID(ctx context.Context, id string) (*models.ClassCourse, error)
	Exists(ctx context.Context, courseID, className string, term models.Term) (bool, error)
	InUse(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, item *models.ClassCourse) error
	Update(ctx context.Context, item *models.ClassCourse) error
	Delete(ctx context.Context, id string) error
}

type courseLookup interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// ClassCourseService assigns catalogue courses to classes per term.
type ClassCourseService struct {
	repo      classCourseRepository
	courses   courseLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassCourseService constructs a ClassCourseService.
func NewClassCourseService(repo classCourseRepository, courses courseLookup, validate *validator.Validate, logger *zap.Logger) *ClassCourseService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassCourseService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// List returns assignments matching the filter.
func (s *ClassCourseService) List(ctx context.Context, filter models.ClassCourseFilter) ([]models.ClassCourse, error) {
	filter.ClassName = strings.TrimSpace(filter.ClassName)
	if filter.Term != "" && !filter.Term.Valid() {
		return nil, appErrors.FieldInvalid("term", "must be one of: first second third")
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class courses")
	}
	if items == nil {
		items = []models.ClassCourse{}
	}
	return items, nil
}

// ByClassAndTerm lists every assignment of a class and term, active or not.
func (s *ClassCourseService) ByClassAndTerm(ctx context.Context, className string, term models.Term) ([]models.ClassCourse, error) {
	if strings.TrimSpace(className) == "" {
		return nil, appErrors.FieldInvalid("class_name", "is required")
	}
	if !term.Valid() {
		return nil, appErrors.FieldInvalid("term", "must be one of: first second third")
	}
	return s.List(ctx, models.ClassCourseFilter{ClassName: className, Term: term})
}

// Create assigns one course to a class and term.
func (s *ClassCourseService) Create(ctx context.Context, req dto.CreateClassCourseRequest) (*models.ClassCourse, error) {
	req.ClassName = strings.TrimSpace(req.ClassName)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid class course payload")
	}
	course, err := s.course(ctx, req.CourseID, "course_id")
	if err != nil {
		return nil, err
	}
	item := &models.ClassCourse{
		CourseID:   course.ID,
		ClassName:  req.ClassName,
		Term:       req.Term,
		IsActive:   req.IsActive == nil || *req.IsActive,
		CourseName: course.Name,
		CourseCode: course.Code,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.FieldInvalid("course_id", "course is already assigned to this class and term")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class course")
	}
	return item, nil
}

// Update changes an assignment. Moving it to another class or term is refused once scores reference it.
func (s *ClassCourseService) Update(ctx context.Context, id string, req dto.UpdateClassCourseRequest) (*models.ClassCourse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid class course payload")
	}
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	moved := false
	if req.ClassName != nil {
		className := strings.TrimSpace(*req.ClassName)
		moved = moved || className != item.ClassName
		item.ClassName = className
	}
	if req.Term != nil {
		moved = moved || *req.Term != item.Term
		item.Term = *req.Term
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	if moved {
		used, err := s.repo.InUse(ctx, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class course usage")
		}
		if used {
			return nil, appErrors.Clone(appErrors.ErrConflict, "class course already has scores and cannot move to another class or term")
		}
	}
	if err := s.repo.Update(ctx, item); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.FieldInvalid("course_id", "course is already assigned to this class and term")
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class course")
	}
	return item, nil
}

// Delete removes an assignment that no result references.
func (s *ClassCourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	used, err := s.repo.InUse(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class course usage")
	}
	if used {
		return appErrors.Clone(appErrors.ErrConflict, "class course has scores; deactivate it instead")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class course not found")
		}
		if repository.IsForeignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "class course has scores; deactivate it instead")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class course")
	}
	return nil
}

// BulkAssign assigns several courses to a class and term, skipping existing assignments.
func (s *ClassCourseService) BulkAssign(ctx context.Context, req dto.BulkAssignRequest) (*dto.BulkAssignResponse, error) {
	req.ClassName = strings.TrimSpace(req.ClassName)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid bulk assignment payload")
	}
	resp := &dto.BulkAssignResponse{Created: []models.ClassCourse{}, Skipped: []string{}}
	seen := make(map[string]struct{}, len(req.CourseIDs))
	for i, courseID := range req.CourseIDs {
		if _, dup := seen[courseID]; dup {
			continue
		}
		seen[courseID] = struct{}{}

		course, err := s.course(ctx, courseID, fmt.Sprintf("course_ids[%d]", i))
		if err != nil {
			return nil, err
		}
		exists, err := s.repo.Exists(ctx, courseID, req.ClassName, req.Term)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check class course")
		}
		if exists {
			resp.Skipped = append(resp.Skipped, course.Name)
			continue
		}
		item := &models.ClassCourse{CourseID: course.ID, ClassName: req.ClassName, Term: req.Term, IsActive: true, CourseName: course.Name, CourseCode: course.Code}
		if err := s.repo.Create(ctx, item); err != nil {
			if repository.IsUniqueViolation(err) {
				resp.Skipped = append(resp.Skipped, course.Name)
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign course")
		}
		resp.Created = append(resp.Created, *item)
	}
	resp.Message = fmt.Sprintf("%d courses assigned to %s for the %s, %d already assigned", len(resp.Created), req.ClassName, req.Term.Label(), len(resp.Skipped))
	s.logger.Info("courses bulk assigned",
		zap.String("class_name", req.ClassName),
		zap.String("term", string(req.Term)),
		zap.Int("created", len(resp.Created)),
		zap.Int("skipped", len(resp.Skipped)),
	)
	return resp, nil
}

func (s *ClassCourseService) find(ctx context.Context, id string) (*models.ClassCourse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class course")
	}
	return item, nil
}

func (s *ClassCourseService) course(ctx context.Context, id, field string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.FieldInvalid(field, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}
