package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"lmshub/internal/lmserrors"
	"lmshub/internal/models"
)

// MoodleProvider talks to Moodle's single-endpoint web service API: every
// call goes to /webservice/rest/server.php with a wsfunction parameter and
// the token attached, and every mutation is a POST regardless of semantic
// verb. Timestamps on this wire are Unix seconds.
type MoodleProvider struct {
	baseURL    string
	apiKey     string
	restFormat string
	client     *http.Client
}

func NewMoodleProvider(cfg models.ProviderConfig) (*MoodleProvider, error) {
	var opts models.MoodleOptions
	if err := cfg.DecodeOptions(&opts); err != nil {
		return nil, fmt.Errorf("invalid moodle options: %v", err)
	}
	if opts.RestFormat == "" {
		opts.RestFormat = "json"
	}

	return &MoodleProvider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		restFormat: opts.RestFormat,
		client:     http.DefaultClient,
	}, nil
}

// request dispatches one wsfunction call. GET parameters go in the query
// string (array values as key[]), everything else is sent as a JSON body.
func (p *MoodleProvider) request(ctx context.Context, wsfunction, method string, params map[string]interface{}, out interface{}) error {
	merged := map[string]interface{}{
		"wstoken":            p.apiKey,
		"moodlewsrestformat": p.restFormat,
		"wsfunction":         wsfunction,
	}
	for key, value := range params {
		merged[key] = value
	}

	endpoint := p.baseURL + "/webservice/rest/server.php"

	var req *http.Request
	var err error
	if method == http.MethodGet {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+encodeMoodleQuery(merged), nil)
	} else {
		var body []byte
		body, err = json.Marshal(merged)
		if err != nil {
			return err
		}
		req, err = http.NewRequestWithContext(ctx, method, endpoint, bytes.NewBuffer(body))
		if req != nil {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	if err != nil {
		return err
	}

	return do(p.client, req, out)
}

func encodeMoodleQuery(params map[string]interface{}) string {
	values := url.Values{}
	for key, value := range params {
		switch v := value.(type) {
		case []int:
			for _, item := range v {
				values.Add(key+"[]", strconv.Itoa(item))
			}
		case []string:
			for _, item := range v {
				values.Add(key+"[]", item)
			}
		default:
			values.Set(key, fmt.Sprint(v))
		}
	}
	return values.Encode()
}

type moodleCourse struct {
	ID        json.Number `json:"id"`
	FullName  string      `json:"fullname"`
	Summary   string      `json:"summary"`
	StartDate int64       `json:"startdate"`
	EndDate   int64       `json:"enddate"`
}

func (c *moodleCourse) toCourse() models.Course {
	return models.Course{
		ID:          c.ID.String(),
		Name:        c.FullName,
		Description: c.Summary,
		StartDate:   unixDate(c.StartDate),
		EndDate:     unixDate(c.EndDate),
	}
}

func (p *MoodleProvider) GetCourses(ctx context.Context) ([]models.Course, error) {
	var response []moodleCourse
	if err := p.request(ctx, "core_course_get_courses", http.MethodGet, nil, &response); err != nil {
		return nil, err
	}

	courses := make([]models.Course, 0, len(response))
	for i := range response {
		courses = append(courses, response[i].toCourse())
	}
	return courses, nil
}

// GetCourseByID has no native single-fetch wsfunction in this integration;
// it lists all courses and filters client-side.
func (p *MoodleProvider) GetCourseByID(ctx context.Context, id string) (*models.Course, error) {
	courses, err := p.GetCourses(ctx)
	if err != nil {
		return nil, err
	}

	for i := range courses {
		if courses[i].ID == id {
			return &courses[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", lmserrors.CourseNotFoundError, id)
}

func (p *MoodleProvider) CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	course := map[string]interface{}{
		"fullname": req.Name,
		// Lossy and collision-prone, but it is what the wire contract is.
		"shortname": truncate(req.Name, 15),
	}
	if req.Description != "" {
		course["summary"] = req.Description
	}
	if req.StartDate != nil {
		course["startdate"] = req.StartDate.Unix()
	}
	if req.EndDate != nil {
		course["enddate"] = req.EndDate.Unix()
	}

	var response []struct {
		ID json.Number `json:"id"`
	}
	err := p.request(ctx, "core_course_create_courses", http.MethodPost, map[string]interface{}{
		"courses": []interface{}{course},
	}, &response)
	if err != nil {
		return nil, err
	}
	if len(response) == 0 {
		return nil, fmt.Errorf("core_course_create_courses returned no course")
	}

	return &models.Course{
		ID:          response[0].ID.String(),
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}, nil
}

// UpdateCourse issues the update and then re-fetches, since the backend does
// not return the updated resource.
func (p *MoodleProvider) UpdateCourse(ctx context.Context, id string, req *models.UpdateCourseRequest) (*models.Course, error) {
	courseID, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("invalid course id %q: %v", id, err)
	}

	course := map[string]interface{}{"id": courseID}
	if req.Name != nil {
		course["fullname"] = *req.Name
	}
	if req.Description != nil {
		course["summary"] = *req.Description
	}
	if req.StartDate != nil {
		course["startdate"] = req.StartDate.Unix()
	}
	if req.EndDate != nil {
		course["enddate"] = req.EndDate.Unix()
	}

	err = p.request(ctx, "core_course_update_courses", http.MethodPost, map[string]interface{}{
		"courses": []interface{}{course},
	}, nil)
	if err != nil {
		return nil, err
	}

	return p.GetCourseByID(ctx, id)
}

func (p *MoodleProvider) DeleteCourse(ctx context.Context, id string) error {
	courseID, err := strconv.Atoi(id)
	if err != nil {
		return fmt.Errorf("invalid course id %q: %v", id, err)
	}

	return p.request(ctx, "core_course_delete_courses", http.MethodPost, map[string]interface{}{
		"courseids": []int{courseID},
	}, nil)
}

type moodleUser struct {
	ID        json.Number `json:"id"`
	FirstName string      `json:"firstname"`
	LastName  string      `json:"lastname"`
	Email     string      `json:"email"`
	Roles     []struct {
		ShortName string `json:"shortname"`
	} `json:"roles"`
}

func (p *MoodleProvider) GetUsers(ctx context.Context, courseID string) ([]models.User, error) {
	id, err := strconv.Atoi(courseID)
	if err != nil {
		return nil, fmt.Errorf("invalid course id %q: %v", courseID, err)
	}

	var response []moodleUser
	err = p.request(ctx, "core_enrol_get_enrolled_users", http.MethodGet, map[string]interface{}{
		"courseid": id,
	}, &response)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(response))
	for _, u := range response {
		role := models.RoleStudent
		if len(u.Roles) > 0 {
			role = mapMoodleRole(u.Roles[0].ShortName)
		}
		users = append(users, models.User{
			ID:        u.ID.String(),
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Role:      role,
		})
	}
	return users, nil
}

func (p *MoodleProvider) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	userID, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %v", id, err)
	}

	var response []moodleUser
	err = p.request(ctx, "core_user_get_users_by_field", http.MethodGet, map[string]interface{}{
		"field":  "id",
		"values": []int{userID},
	}, &response)
	if err != nil {
		return nil, err
	}
	if len(response) == 0 {
		return nil, fmt.Errorf("%w: %s", lmserrors.UserNotFoundError, id)
	}

	return &models.User{
		ID:        response[0].ID.String(),
		FirstName: response[0].FirstName,
		LastName:  response[0].LastName,
		Email:     response[0].Email,
		// The by-field lookup carries no enrollment, so no role to map.
		Role: models.RoleStudent,
	}, nil
}

func (p *MoodleProvider) EnrollUser(ctx context.Context, courseID, userID string, role models.Role) error {
	cid, err := strconv.Atoi(courseID)
	if err != nil {
		return fmt.Errorf("invalid course id %q: %v", courseID, err)
	}
	uid, err := strconv.Atoi(userID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %v", userID, err)
	}

	return p.request(ctx, "enrol_manual_enrol_users", http.MethodPost, map[string]interface{}{
		"enrolments": []interface{}{map[string]interface{}{
			"roleid":   moodleRoleID(role),
			"userid":   uid,
			"courseid": cid,
		}},
	}, nil)
}

type moodleAssignment struct {
	ID      json.Number `json:"id"`
	Name    string      `json:"name"`
	Intro   string      `json:"intro"`
	DueDate int64       `json:"duedate"`
	Grade   *float64    `json:"grade"`
}

// GetAssignments flattens the nested courses → assignments response into the
// canonical list. The courseids request parameter already restricts the
// response to the requested course.
func (p *MoodleProvider) GetAssignments(ctx context.Context, courseID string) ([]models.Assignment, error) {
	id, err := strconv.Atoi(courseID)
	if err != nil {
		return nil, fmt.Errorf("invalid course id %q: %v", courseID, err)
	}

	var response struct {
		Courses []struct {
			Assignments []moodleAssignment `json:"assignments"`
		} `json:"courses"`
	}
	err = p.request(ctx, "mod_assign_get_assignments", http.MethodGet, map[string]interface{}{
		"courseids": []int{id},
	}, &response)
	if err != nil {
		return nil, err
	}

	assignments := make([]models.Assignment, 0)
	for _, course := range response.Courses {
		for _, assign := range course.Assignments {
			assignments = append(assignments, models.Assignment{
				ID:          assign.ID.String(),
				CourseID:    courseID,
				Title:       assign.Name,
				Description: assign.Intro,
				DueDate:     unixDate(assign.DueDate),
				MaxScore:    assign.Grade,
			})
		}
	}
	return assignments, nil
}

func (p *MoodleProvider) CreateAssignment(ctx context.Context, req *models.CreateAssignmentRequest) (*models.Assignment, error) {
	courseID, err := strconv.Atoi(req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("invalid course id %q: %v", req.CourseID, err)
	}

	assignment := map[string]interface{}{
		"courseid": courseID,
		"name":     req.Title,
	}
	if req.Description != "" {
		assignment["intro"] = req.Description
	}
	if req.DueDate != nil {
		assignment["duedate"] = req.DueDate.Unix()
	}
	if req.MaxScore != nil {
		assignment["grade"] = *req.MaxScore
	}

	var response []struct {
		AssignmentID json.Number `json:"assignmentid"`
	}
	err = p.request(ctx, "mod_assign_create_assignments", http.MethodPost, map[string]interface{}{
		"assignments": []interface{}{assignment},
	}, &response)
	if err != nil {
		return nil, err
	}
	if len(response) == 0 {
		return nil, fmt.Errorf("mod_assign_create_assignments returned no assignment")
	}

	return &models.Assignment{
		ID:          response[0].AssignmentID.String(),
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		MaxScore:    req.MaxScore,
	}, nil
}

// SubmitAssignment saves an online-text submission. The whole submission is
// forwarded under plugindata for submission plugins that want it.
func (p *MoodleProvider) SubmitAssignment(ctx context.Context, assignmentID, userID string, submission models.Submission) error {
	aid, err := strconv.Atoi(assignmentID)
	if err != nil {
		return fmt.Errorf("invalid assignment id %q: %v", assignmentID, err)
	}
	uid, err := strconv.Atoi(userID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %v", userID, err)
	}

	return p.request(ctx, "mod_assign_save_submission", http.MethodPost, map[string]interface{}{
		"assignmentid": aid,
		"userid":       uid,
		"onlinetext":   submission.Text,
		"plugindata":   submission,
	}, nil)
}

func mapMoodleRole(shortname string) models.Role {
	switch shortname {
	case "editingteacher":
		return models.RoleTeacher
	case "student":
		return models.RoleStudent
	case "manager":
		return models.RoleAdmin
	default:
		return models.RoleStudent
	}
}

func moodleRoleID(role models.Role) int {
	switch role {
	case models.RoleTeacher:
		return 3 // editingteacher
	case models.RoleAdmin:
		return 1 // manager
	default:
		return 5 // student
	}
}

// truncate cuts s to at most max characters without splitting a multibyte
// character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
