package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"lmshub/internal/lmserrors"
	"lmshub/internal/models"
)

// CanvasProvider talks to Canvas's conventional REST API under
// /api/{version}/ with bearer-token auth. Dates on this wire are ISO-8601
// strings.
type CanvasProvider struct {
	baseURL    string
	apiKey     string
	apiVersion string
	accountID  string
	client     *http.Client
}

func NewCanvasProvider(cfg models.ProviderConfig) (*CanvasProvider, error) {
	var opts models.CanvasOptions
	if err := cfg.DecodeOptions(&opts); err != nil {
		return nil, fmt.Errorf("invalid canvas options: %v", err)
	}
	if opts.APIVersion == "" {
		opts.APIVersion = "v1"
	}

	return &CanvasProvider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		apiVersion: opts.APIVersion,
		accountID:  opts.AccountID,
		client:     http.DefaultClient,
	}, nil
}

func (p *CanvasProvider) request(ctx context.Context, method, endpoint string, query url.Values, body, out interface{}) error {
	target := fmt.Sprintf("%s/api/%s/%s", p.baseURL, p.apiVersion, endpoint)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewBuffer(encoded)
	} else {
		reader = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	return do(p.client, req, out)
}

type canvasCourse struct {
	ID                json.Number `json:"id"`
	Name              string      `json:"name"`
	PublicDescription string      `json:"public_description"`
	StartAt           string      `json:"start_at"`
	EndAt             string      `json:"end_at"`
}

func (c *canvasCourse) toCourse() (models.Course, error) {
	startDate, err := parseISO(c.StartAt)
	if err != nil {
		return models.Course{}, err
	}
	endDate, err := parseISO(c.EndAt)
	if err != nil {
		return models.Course{}, err
	}

	return models.Course{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.PublicDescription,
		StartDate:   startDate,
		EndDate:     endDate,
	}, nil
}

func (p *CanvasProvider) GetCourses(ctx context.Context) ([]models.Course, error) {
	var response []canvasCourse
	if err := p.request(ctx, http.MethodGet, "courses", nil, nil, &response); err != nil {
		return nil, err
	}

	courses := make([]models.Course, 0, len(response))
	for i := range response {
		course, err := response[i].toCourse()
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, nil
}

func (p *CanvasProvider) GetCourseByID(ctx context.Context, id string) (*models.Course, error) {
	var response canvasCourse
	if err := p.request(ctx, http.MethodGet, "courses/"+id, nil, nil, &response); err != nil {
		return nil, err
	}

	course, err := response.toCourse()
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (p *CanvasProvider) CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	course := map[string]interface{}{
		"name": req.Name,
	}
	if req.Description != "" {
		course["public_description"] = req.Description
	}
	if req.StartDate != nil {
		course["start_at"] = formatISO(*req.StartDate)
	}
	if req.EndDate != nil {
		course["end_at"] = formatISO(*req.EndDate)
	}

	var response canvasCourse
	err := p.request(ctx, http.MethodPost, "courses", nil, map[string]interface{}{
		"course": course,
	}, &response)
	if err != nil {
		return nil, err
	}

	created, err := response.toCourse()
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (p *CanvasProvider) UpdateCourse(ctx context.Context, id string, req *models.UpdateCourseRequest) (*models.Course, error) {
	course := map[string]interface{}{}
	if req.Name != nil {
		course["name"] = *req.Name
	}
	if req.Description != nil {
		course["public_description"] = *req.Description
	}
	if req.StartDate != nil {
		course["start_at"] = formatISO(*req.StartDate)
	}
	if req.EndDate != nil {
		course["end_at"] = formatISO(*req.EndDate)
	}

	var response canvasCourse
	err := p.request(ctx, http.MethodPut, "courses/"+id, nil, map[string]interface{}{
		"course": course,
	}, &response)
	if err != nil {
		return nil, err
	}

	updated, err := response.toCourse()
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (p *CanvasProvider) DeleteCourse(ctx context.Context, id string) error {
	return p.request(ctx, http.MethodDelete, "courses/"+id, nil, nil, nil)
}

type canvasUser struct {
	ID          json.Number `json:"id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Email       string      `json:"email"`
	Enrollments []struct {
		Role string `json:"role"`
	} `json:"enrollments"`
}

// GetUsers lists a course's users with their enrollments included. A listed
// user without a single enrollment is upstream data this adapter cannot map
// to a role and surfaces as UserEnrollmentMissingError.
func (p *CanvasProvider) GetUsers(ctx context.Context, courseID string) ([]models.User, error) {
	query := url.Values{}
	query.Add("include[]", "enrollments")

	var response []canvasUser
	if err := p.request(ctx, http.MethodGet, "courses/"+courseID+"/users", query, nil, &response); err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(response))
	for _, u := range response {
		if len(u.Enrollments) == 0 {
			return nil, fmt.Errorf("%w: %s", lmserrors.UserEnrollmentMissingError, u.ID.String())
		}
		users = append(users, models.User{
			ID:        u.ID.String(),
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Role:      mapCanvasRole(u.Enrollments[0].Role),
		})
	}
	return users, nil
}

func (p *CanvasProvider) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var response canvasUser
	if err := p.request(ctx, http.MethodGet, "users/"+id, nil, nil, &response); err != nil {
		return nil, err
	}

	return &models.User{
		ID:        response.ID.String(),
		FirstName: response.FirstName,
		LastName:  response.LastName,
		Email:     response.Email,
		// The user endpoint carries no enrollment, so no role to map.
		Role: models.RoleStudent,
	}, nil
}

func (p *CanvasProvider) EnrollUser(ctx context.Context, courseID, userID string, role models.Role) error {
	return p.request(ctx, http.MethodPost, "courses/"+courseID+"/enrollments", nil, map[string]interface{}{
		"enrollment": map[string]interface{}{
			"user_id":          userID,
			"type":             canvasEnrollmentType(role),
			"enrollment_state": "active",
		},
	}, nil)
}

type canvasAssignment struct {
	ID             json.Number `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	DueAt          string      `json:"due_at"`
	PointsPossible *float64    `json:"points_possible"`
}

func (a *canvasAssignment) toAssignment(courseID string) (models.Assignment, error) {
	dueDate, err := parseISO(a.DueAt)
	if err != nil {
		return models.Assignment{}, err
	}

	return models.Assignment{
		ID:          a.ID.String(),
		CourseID:    courseID,
		Title:       a.Name,
		Description: a.Description,
		DueDate:     dueDate,
		MaxScore:    a.PointsPossible,
	}, nil
}

func (p *CanvasProvider) GetAssignments(ctx context.Context, courseID string) ([]models.Assignment, error) {
	var response []canvasAssignment
	if err := p.request(ctx, http.MethodGet, "courses/"+courseID+"/assignments", nil, nil, &response); err != nil {
		return nil, err
	}

	assignments := make([]models.Assignment, 0, len(response))
	for i := range response {
		assignment, err := response[i].toAssignment(courseID)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	return assignments, nil
}

func (p *CanvasProvider) CreateAssignment(ctx context.Context, req *models.CreateAssignmentRequest) (*models.Assignment, error) {
	assignment := map[string]interface{}{
		"name": req.Title,
	}
	if req.Description != "" {
		assignment["description"] = req.Description
	}
	if req.DueDate != nil {
		assignment["due_at"] = formatISO(*req.DueDate)
	}
	if req.MaxScore != nil {
		assignment["points_possible"] = *req.MaxScore
	}

	var response canvasAssignment
	err := p.request(ctx, http.MethodPost, "courses/"+req.CourseID+"/assignments", nil, map[string]interface{}{
		"assignment": assignment,
	}, &response)
	if err != nil {
		return nil, err
	}

	created, err := response.toAssignment(req.CourseID)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (p *CanvasProvider) SubmitAssignment(ctx context.Context, assignmentID, userID string, submission models.Submission) error {
	return p.request(ctx, http.MethodPost, "assignments/"+assignmentID+"/submissions", nil, map[string]interface{}{
		"submission": map[string]interface{}{
			"user_id":         userID,
			"submission_type": "online_text_entry",
			"body":            submission.Text,
		},
	}, nil)
}

func mapCanvasRole(role string) models.Role {
	switch strings.ToLower(role) {
	case "teacher", "instructor":
		return models.RoleTeacher
	case "student":
		return models.RoleStudent
	case "admin", "administrator":
		return models.RoleAdmin
	default:
		return models.RoleStudent
	}
}

func canvasEnrollmentType(role models.Role) string {
	switch role {
	case models.RoleTeacher:
		return "TeacherEnrollment"
	case models.RoleAdmin:
		// Canvas has no AdminEnrollment; Designer is the closest this
		// integration has, even though Designer is not an admin role in
		// Canvas's own vocabulary.
		return "DesignerEnrollment"
	default:
		return "StudentEnrollment"
	}
}
