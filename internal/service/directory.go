package service

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"bansos-dispatch/internal/model"
)

// Directory is an ordered snapshot of the department list
type Directory struct {
	departments []model.Department
}

// NewDirectory wraps departments in directory order
func NewDirectory(departments []model.Department) Directory {
	return Directory{departments: departments}
}

// ResolveByCategory returns the first active department handling category.
// A miss is not an error; the caller should route manually.
func (d Directory) ResolveByCategory(category string) (model.Department, bool) {
	c, err := model.ParseCategory(category)
	if err != nil {
		return model.Department{}, false
	}
	for _, dept := range d.departments {
		if dept.Active && dept.Handles(c) {
			return dept, true
		}
	}
	return model.Department{}, false
}

// ResolveByID finds a department by ID, active or not
func (d Directory) ResolveByID(id string) (model.Department, bool) {
	for _, dept := range d.departments {
		if dept.ID == id {
			return dept, true
		}
	}
	return model.Department{}, false
}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// ValidateDepartment checks a create/update payload and returns the
// department it describes. Every problem found is reported at once.
func ValidateDepartment(req model.DepartmentRequest) (model.Department, error) {
	var problems []string

	name := strings.TrimSpace(req.Name)
	if name == "" {
		problems = append(problems, "name is required")
	}

	email := strings.TrimSpace(req.Email)
	if email != "" {
		if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
			problems = append(problems, fmt.Sprintf("invalid email %q", email))
		}
	}

	phone := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(req.WhatsApp))
	if phone != "" && !phonePattern.MatchString(phone) {
		problems = append(problems, fmt.Sprintf("invalid WhatsApp number %q", req.WhatsApp))
	}

	categories, unknown := model.ParseCategories(req.Categories)
	if len(unknown) > 0 {
		problems = append(problems, fmt.Sprintf("unknown categories: %s", strings.Join(unknown, ", ")))
	}
	if len(categories) == 0 && len(unknown) == 0 {
		problems = append(problems, "at least one category is required")
	}

	if len(problems) > 0 {
		return model.Department{}, fmt.Errorf("%w: %s", ErrInvalidDepartment, strings.Join(problems, "; "))
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return model.Department{
		Name:       name,
		Email:      email,
		WhatsApp:   phone,
		Categories: categories,
		Active:     active,
	}, nil
}

// DepartmentStore is the remote department CRUD API
type DepartmentStore interface {
	ListDepartments(ctx context.Context) ([]model.Department, error)
	GetDepartment(ctx context.Context, id string) (model.Department, error)
	CreateDepartment(ctx context.Context, d model.Department) (model.Department, error)
	UpdateDepartment(ctx context.Context, d model.Department) (model.Department, error)
	DeleteDepartment(ctx context.Context, id string) error
	ToggleDepartment(ctx context.Context, id string) (model.Department, error)
}

// DepartmentService manages the department directory in the remote store.
// Every write marks the cached settings stale.
type DepartmentService struct {
	store    DepartmentStore
	settings *SettingsStore
}

// NewDepartmentService creates a department service. settings is invalidated
// after every successful write.
func NewDepartmentService(store DepartmentStore, settings *SettingsStore) *DepartmentService {
	return &DepartmentService{store: store, settings: settings}
}

// Directory returns the directory held by the current settings
func (s *DepartmentService) Directory(ctx context.Context) Directory {
	return NewDirectory(s.settings.Get(ctx).Departments)
}

// List returns every department in the remote store
func (s *DepartmentService) List(ctx context.Context) ([]model.Department, error) {
	departments, err := s.store.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

func (s *DepartmentService) Get(ctx context.Context, id string) (model.Department, error) {
	d, err := s.store.GetDepartment(ctx, id)
	if err != nil {
		return model.Department{}, fmt.Errorf("failed to get department %s: %w", id, err)
	}
	return d, nil
}

// Create validates req and creates the department
func (s *DepartmentService) Create(ctx context.Context, req model.DepartmentRequest) (model.Department, error) {
	d, err := ValidateDepartment(req)
	if err != nil {
		return model.Department{}, err
	}
	created, err := s.store.CreateDepartment(ctx, d)
	if err != nil {
		return model.Department{}, fmt.Errorf("failed to create department: %w", err)
	}
	s.settings.Invalidate()
	logrus.WithFields(logrus.Fields{"department_id": created.ID, "name": created.Name}).Info("Department created")
	return created, nil
}

func (s *DepartmentService) Update(ctx context.Context, id string, req model.DepartmentRequest) (model.Department, error) {
	d, err := ValidateDepartment(req)
	if err != nil {
		return model.Department{}, err
	}
	d.ID = id
	updated, err := s.store.UpdateDepartment(ctx, d)
	if err != nil {
		return model.Department{}, fmt.Errorf("failed to update department %s: %w", id, err)
	}
	s.settings.Invalidate()
	return updated, nil
}

func (s *DepartmentService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteDepartment(ctx, id); err != nil {
		return fmt.Errorf("failed to delete department %s: %w", id, err)
	}
	s.settings.Invalidate()
	logrus.WithField("department_id", id).Info("Department deleted")
	return nil
}

// Toggle flips the active flag of a department
func (s *DepartmentService) Toggle(ctx context.Context, id string) (model.Department, error) {
	d, err := s.store.ToggleDepartment(ctx, id)
	if err != nil {
		return model.Department{}, fmt.Errorf("failed to toggle department %s: %w", id, err)
	}
	s.settings.Invalidate()
	return d, nil
}
