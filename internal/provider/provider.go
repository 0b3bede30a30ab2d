package provider

import (
	"context"
	"fmt"

	"lmshub/internal/lmserrors"
	"lmshub/internal/models"
)

// LMSProvider is the canonical capability set every backend adapter
// implements. Each operation is one stateless request/response round trip
// against the configured backend; cancellation and timeouts come from the
// caller's context and the underlying http.Client.
type LMSProvider interface {
	GetCourses(ctx context.Context) ([]models.Course, error)
	GetCourseByID(ctx context.Context, id string) (*models.Course, error)
	CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error)
	UpdateCourse(ctx context.Context, id string, req *models.UpdateCourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id string) error

	GetUsers(ctx context.Context, courseID string) ([]models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	EnrollUser(ctx context.Context, courseID, userID string, role models.Role) error

	GetAssignments(ctx context.Context, courseID string) ([]models.Assignment, error)
	CreateAssignment(ctx context.Context, req *models.CreateAssignmentRequest) (*models.Assignment, error)
	SubmitAssignment(ctx context.Context, assignmentID, userID string, submission models.Submission) error
}

// New builds the adapter matching the config's provider kind.
func New(cfg models.ProviderConfig) (LMSProvider, error) {
	switch cfg.Kind {
	case models.KindMoodle:
		return NewMoodleProvider(cfg)
	case models.KindCanvas:
		return NewCanvasProvider(cfg)
	case models.KindBlackboard:
		return NewBlackboardProvider(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", lmserrors.UnsupportedProviderError, cfg.Kind)
	}
}
