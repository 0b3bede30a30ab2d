package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"lmshub/internal/models"
)

// bbAssignmentHandler marks assignment contents among Blackboard's
// overloaded course-content types; there is no dedicated assignment-listing
// endpoint.
const bbAssignmentHandler = "resource/x-bb-assignment"

// BlackboardProvider talks to Blackboard Learn's REST API under
// /learn/api/public/{version}/ with bearer-token auth. Course dates live
// inside an availability object and only count when its available gate is
// set.
type BlackboardProvider struct {
	baseURL    string
	apiKey     string
	apiVersion string
	client     *http.Client
}

func NewBlackboardProvider(cfg models.ProviderConfig) (*BlackboardProvider, error) {
	var opts models.BlackboardOptions
	if err := cfg.DecodeOptions(&opts); err != nil {
		return nil, fmt.Errorf("invalid blackboard options: %v", err)
	}
	if opts.APIVersion == "" {
		opts.APIVersion = "v1"
	}

	return &BlackboardProvider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		apiVersion: opts.APIVersion,
		client:     http.DefaultClient,
	}, nil
}

func (p *BlackboardProvider) request(ctx context.Context, method, endpoint string, body, out interface{}) error {
	target := fmt.Sprintf("%s/learn/api/public/%s/%s", p.baseURL, p.apiVersion, endpoint)

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

type bbAvailability struct {
	Available bool   `json:"available"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

type bbCourse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Availability bbAvailability `json:"availability"`
}

// toCourse maps a course, reading dates only when the availability gate is
// open; an unavailable course surfaces with no dates even if the backend
// included them.
func (c *bbCourse) toCourse() (models.Course, error) {
	course := models.Course{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
	}

	if c.Availability.Available {
		startDate, err := parseISO(c.Availability.Start)
		if err != nil {
			return models.Course{}, err
		}
		endDate, err := parseISO(c.Availability.End)
		if err != nil {
			return models.Course{}, err
		}
		course.StartDate = startDate
		course.EndDate = endDate
	}

	return course, nil
}

func (p *BlackboardProvider) GetCourses(ctx context.Context) ([]models.Course, error) {
	var response struct {
		Results []bbCourse `json:"results"`
	}
	if err := p.request(ctx, http.MethodGet, "courses", nil, &response); err != nil {
		return nil, err
	}

	courses := make([]models.Course, 0, len(response.Results))
	for i := range response.Results {
		course, err := response.Results[i].toCourse()
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, nil
}

func (p *BlackboardProvider) GetCourseByID(ctx context.Context, id string) (*models.Course, error) {
	var response bbCourse
	if err := p.request(ctx, http.MethodGet, "courses/"+id, nil, &response); err != nil {
		return nil, err
	}

	course, err := response.toCourse()
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (p *BlackboardProvider) CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	availability := map[string]interface{}{"available": true}
	if req.StartDate != nil {
		availability["start"] = formatISO(*req.StartDate)
	}
	if req.EndDate != nil {
		availability["end"] = formatISO(*req.EndDate)
	}

	body := map[string]interface{}{
		"name":         req.Name,
		"availability": availability,
	}
	if req.Description != "" {
		body["description"] = req.Description
	}

	var response bbCourse
	if err := p.request(ctx, http.MethodPost, "courses", body, &response); err != nil {
		return nil, err
	}

	created, err := response.toCourse()
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCourse uses PATCH; the availability gate is re-asserted open on
// every update, matching the wire contract.
func (p *BlackboardProvider) UpdateCourse(ctx context.Context, id string, req *models.UpdateCourseRequest) (*models.Course, error) {
	availability := map[string]interface{}{"available": true}
	if req.StartDate != nil {
		availability["start"] = formatISO(*req.StartDate)
	}
	if req.EndDate != nil {
		availability["end"] = formatISO(*req.EndDate)
	}

	body := map[string]interface{}{"availability": availability}
	if req.Name != nil {
		body["name"] = *req.Name
	}
	if req.Description != nil {
		body["description"] = *req.Description
	}

	var response bbCourse
	if err := p.request(ctx, http.MethodPatch, "courses/"+id, body, &response); err != nil {
		return nil, err
	}

	updated, err := response.toCourse()
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (p *BlackboardProvider) DeleteCourse(ctx context.Context, id string) error {
	return p.request(ctx, http.MethodDelete, "courses/"+id, nil, nil)
}

type bbUser struct {
	UserID string `json:"userId"`
	Name   struct {
		Given  string `json:"given"`
		Family string `json:"family"`
	} `json:"name"`
	Contact struct {
		Email string `json:"email"`
	} `json:"contact"`
	CourseRoleID string `json:"courseRoleId"`
}

func (p *BlackboardProvider) GetUsers(ctx context.Context, courseID string) ([]models.User, error) {
	var response struct {
		Results []bbUser `json:"results"`
	}
	if err := p.request(ctx, http.MethodGet, "courses/"+courseID+"/users", nil, &response); err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(response.Results))
	for _, u := range response.Results {
		users = append(users, models.User{
			ID:        u.UserID,
			FirstName: u.Name.Given,
			LastName:  u.Name.Family,
			Email:     u.Contact.Email,
			Role:      mapBlackboardRole(u.CourseRoleID),
		})
	}
	return users, nil
}

func (p *BlackboardProvider) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var response bbUser
	if err := p.request(ctx, http.MethodGet, "users/"+id, nil, &response); err != nil {
		return nil, err
	}

	return &models.User{
		ID:        response.UserID,
		FirstName: response.Name.Given,
		LastName:  response.Name.Family,
		Email:     response.Contact.Email,
		// The user endpoint carries no course role to map.
		Role: models.RoleStudent,
	}, nil
}

func (p *BlackboardProvider) EnrollUser(ctx context.Context, courseID, userID string, role models.Role) error {
	return p.request(ctx, http.MethodPost, "courses/"+courseID+"/users", map[string]interface{}{
		"userId":       userID,
		"courseRoleId": blackboardRoleID(role),
	}, nil)
}

type bbContent struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Body           string         `json:"body"`
	Availability   bbAvailability `json:"availability"`
	ContentHandler struct {
		ID string `json:"id"`
	} `json:"contentHandler"`
	Grading *struct {
		Score *struct {
			Possible *float64 `json:"possible"`
		} `json:"score"`
	} `json:"grading"`
}

func (c *bbContent) toAssignment(courseID string) (models.Assignment, error) {
	dueDate, err := parseISO(c.Availability.End)
	if err != nil {
		return models.Assignment{}, err
	}

	assignment := models.Assignment{
		ID:          c.ID,
		CourseID:    courseID,
		Title:       c.Title,
		Description: c.Body,
		DueDate:     dueDate,
	}
	if c.Grading != nil && c.Grading.Score != nil {
		assignment.MaxScore = c.Grading.Score.Possible
	}
	return assignment, nil
}

// GetAssignments lists the course's generic contents and keeps only the ones
// carrying the assignment content handler.
func (p *BlackboardProvider) GetAssignments(ctx context.Context, courseID string) ([]models.Assignment, error) {
	var response struct {
		Results []bbContent `json:"results"`
	}
	if err := p.request(ctx, http.MethodGet, "courses/"+courseID+"/contents", nil, &response); err != nil {
		return nil, err
	}

	assignments := make([]models.Assignment, 0)
	for i := range response.Results {
		if response.Results[i].ContentHandler.ID != bbAssignmentHandler {
			continue
		}
		assignment, err := response.Results[i].toAssignment(courseID)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	return assignments, nil
}

func (p *BlackboardProvider) CreateAssignment(ctx context.Context, req *models.CreateAssignmentRequest) (*models.Assignment, error) {
	availability := map[string]interface{}{
		"available":       true,
		"allowGuests":     false,
		"adaptiveRelease": map[string]interface{}{},
	}
	if req.DueDate != nil {
		availability["end"] = formatISO(*req.DueDate)
	}

	body := map[string]interface{}{
		"title":        req.Title,
		"availability": availability,
		"contentHandler": map[string]interface{}{
			"id": bbAssignmentHandler,
		},
	}
	if req.Description != "" {
		body["body"] = req.Description
	}
	if req.MaxScore != nil {
		body["grading"] = map[string]interface{}{
			"score": map[string]interface{}{
				"possible": *req.MaxScore,
			},
		}
	}

	var response bbContent
	if err := p.request(ctx, http.MethodPost, "courses/"+req.CourseID+"/contents", body, &response); err != nil {
		return nil, err
	}

	created, err := response.toAssignment(req.CourseID)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (p *BlackboardProvider) SubmitAssignment(ctx context.Context, assignmentID, userID string, submission models.Submission) error {
	return p.request(ctx, http.MethodPost, "contents/"+assignmentID+"/attempts", map[string]interface{}{
		"userId": userID,
		"text":   submission.Text,
	}, nil)
}

func mapBlackboardRole(courseRoleID string) models.Role {
	switch courseRoleID {
	case "Instructor":
		return models.RoleTeacher
	case "Student":
		return models.RoleStudent
	case "Administrator":
		return models.RoleAdmin
	default:
		return models.RoleStudent
	}
}

func blackboardRoleID(role models.Role) string {
	switch role {
	case models.RoleTeacher:
		return "Instructor"
	case models.RoleAdmin:
		return "Administrator"
	default:
		return "Student"
	}
}
