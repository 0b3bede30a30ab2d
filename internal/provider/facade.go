package provider

import (
	"context"
	"fmt"

	"lmshub/internal/lmserrors"
	"lmshub/internal/models"
)

// LMS is the single entry point over the configured backends. It owns one
// adapter per provider name for the process lifetime and dispatches by name;
// there is no cross-provider logic, no fan-out, no aggregation.
type LMS struct {
	providers map[string]LMSProvider
	names     []string
}

// NewLMS builds one adapter per config. Fails with
// NoProvidersConfiguredError before any adapter is created when the list is
// empty.
func NewLMS(configs []models.ProviderConfig) (*LMS, error) {
	if len(configs) == 0 {
		return nil, lmserrors.NoProvidersConfiguredError
	}

	lms := &LMS{providers: make(map[string]LMSProvider)}
	for _, cfg := range configs {
		p, err := New(cfg)
		if err != nil {
			return nil, err
		}
		if _, ok := lms.providers[cfg.Name]; !ok {
			lms.names = append(lms.names, cfg.Name)
		}
		lms.providers[cfg.Name] = p
	}
	return lms, nil
}

// GetProvider returns the adapter registered under name.
func (l *LMS) GetProvider(name string) (LMSProvider, error) {
	p, ok := l.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", lmserrors.ProviderNotFoundError, name)
	}
	return p, nil
}

// GetProviderNames returns the configured names in configuration order.
func (l *LMS) GetProviderNames() []string {
	return append([]string(nil), l.names...)
}

func (l *LMS) GetCourses(ctx context.Context, providerName string) ([]models.Course, error) {
	p, err := l.GetProvider(providerName)
	if err != nil {
		return nil, err
	}
	return p.GetCourses(ctx)
}

func (l *LMS) GetCourseByID(ctx context.Context, providerName, id string) (*models.Course, error) {
	p, err := l.GetProvider(providerName)
	if err != nil {
		return nil, err
	}
	return p.GetCourseByID(ctx, id)
}

func (l *LMS) CreateCourse(ctx context.Context, providerName string, req *models.CreateCourseRequest) (*models.Course, error) {
	p, err := l.GetProvider(providerName)
	if err != nil {
		return nil, err
	}
	return p.CreateCourse(ctx, req)
}

func (l *LMS) UpdateCourse(ctx context.Context, providerName, id string, req *models.UpdateCourseRequest) (*models.Course, error) {
	p, err := l.GetProvider(providerName)
	if err != nil {
		return nil, err
	}
	return p.UpdateCourse(ctx, id, req)
}

func (l *LMS) DeleteCourse(ctx context.Context, providerName, id string) error {
	p, err := l.GetProvider(providerName)
	if err != nil {
		return err
	}
	return p.DeleteCourse(ctx, id)
}

func (l *LMS) GetUsers(ctx context.Context, providerName, courseID string) ([]models.User, error) {
	p, err := l.GetProvider(providerName)
	if err != nil {
		return nil, err
	}
	return p.GetUsers(ctx, courseID)
}

func (l *LMS) GetUserByID(ctx context.Context, providerName, id string) (*models.User, error) {
	p, err := l.GetProvider(providerName)
	if err != nil {
		return nil, err
	}
	return p.GetUserByID(ctx, id)
}

func (l *LMS) EnrollUser(ctx context.Context, providerName, courseID, userID string, role models.Role) error {
	p, err := l.GetProvider(providerName)
	if err != nil {
		return err
	}
	return p.EnrollUser(ctx, courseID, userID, role)
}

func (l *LMS) GetAssignments(ctx context.Context, providerName, courseID string) ([]models.Assignment, error) {
	p, err := l.GetProvider(providerName)
	if err != nil {
		return nil, err
	}
	return p.GetAssignments(ctx, courseID)
}

func (l *LMS) CreateAssignment(ctx context.Context, providerName string, req *models.CreateAssignmentRequest) (*models.Assignment, error) {
	p, err := l.GetProvider(providerName)
	if err != nil {
		return nil, err
	}
	return p.CreateAssignment(ctx, req)
}

func (l *LMS) SubmitAssignment(ctx context.Context, providerName, assignmentID, userID string, submission models.Submission) error {
	p, err := l.GetProvider(providerName)
	if err != nil {
		return err
	}
	return p.SubmitAssignment(ctx, assignmentID, userID, submission)
}
