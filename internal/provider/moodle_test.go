package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"lmshub/internal/lmserrors"
	"lmshub/internal/models"
)

func TestMoodleGetCourses(t *testing.T) {
	p, _ := newTestMoodle(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/webservice/rest/server.php" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("wsfunction") != "core_course_get_courses" {
			t.Errorf("unexpected wsfunction: %s", query.Get("wsfunction"))
		}
		if query.Get("wstoken") != "moodle-token" {
			t.Errorf("unexpected wstoken: %s", query.Get("wstoken"))
		}
		if query.Get("moodlewsrestformat") != "json" {
			t.Errorf("unexpected moodlewsrestformat: %s", query.Get("moodlewsrestformat"))
		}

		fmt.Fprint(w, `[
			{"id": 1, "fullname": "Algebra I", "summary": "Linear equations", "startdate": 1704067200, "enddate": 1711929600},
			{"id": 2, "fullname": "Self-paced Writing", "summary": "", "startdate": 0, "enddate": 0}
		]`)
	})

	courses, err := p.GetCourses(context.Background())
	if err != nil {
		t.Fatalf("GetCourses: %v", err)
	}

	want := []models.Course{
		{
			ID:          "1",
			Name:        "Algebra I",
			Description: "Linear equations",
			StartDate:   timePtr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			EndDate:     timePtr(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)),
		},
		{
			ID:   "2",
			Name: "Self-paced Writing",
		},
	}
	if !reflect.DeepEqual(courses, want) {
		t.Errorf("GetCourses = %+v, want %+v", courses, want)
	}
}

func TestMoodleGetCourseByIDNotFound(t *testing.T) {
	p, _ := newTestMoodle(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id": 1, "fullname": "Algebra I"}]`)
	})

	_, err := p.GetCourseByID(context.Background(), "42")
	if !errors.Is(err, lmserrors.CourseNotFoundError) {
		t.Fatalf("expected CourseNotFoundError, got %v", err)
	}
	if err.Error() != "course not found: 42" {
		t.Errorf("unexpected error message: %q", err.Error())
	}
}

func TestMoodleCreateCourse(t *testing.T) {
	var body map[string]interface{}
	p, _ := newTestMoodle(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		fmt.Fprint(w, `[{"id": 99, "shortname": "Advanced Crypto"}]`)
	})

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	course, err := p.CreateCourse(context.Background(), &models.CreateCourseRequest{
		Name:        "Advanced Cryptography and Protocols",
		Description: "Ciphers",
		StartDate:   &start,
	})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}

	if body["wsfunction"] != "core_course_create_courses" {
		t.Errorf("unexpected wsfunction: %v", body["wsfunction"])
	}
	sent := body["courses"].([]interface{})[0].(map[string]interface{})
	if sent["fullname"] != "Advanced Cryptography and Protocols" {
		t.Errorf("unexpected fullname: %v", sent["fullname"])
	}
	// The wire contract truncates the shortname to 15 characters.
	if sent["shortname"] != "Advanced Crypto" {
		t.Errorf("unexpected shortname: %v", sent["shortname"])
	}
	if sent["startdate"] != float64(start.Unix()) {
		t.Errorf("unexpected startdate: %v", sent["startdate"])
	}
	if _, ok := sent["enddate"]; ok {
		t.Errorf("enddate should be absent, got %v", sent["enddate"])
	}

	want := &models.Course{
		ID:          "99",
		Name:        "Advanced Cryptography and Protocols",
		Description: "Ciphers",
		StartDate:   &start,
	}
	if !reflect.DeepEqual(course, want) {
		t.Errorf("CreateCourse = %+v, want %+v", course, want)
	}
}

func TestMoodleCreateCourseMultibyteShortname(t *testing.T) {
	var body map[string]interface{}
	p, _ := newTestMoodle(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		fmt.Fprint(w, `[{"id": 100}]`)
	})

	// 20 characters; byte 15 falls inside the fifth kanji, so a byte-based
	// cut would put invalid text on the wire.
	_, err := p.CreateCourse(context.Background(), &models.CreateCourseRequest{
		Name: "AB機械学習と統計モデリングの数理的基礎",
	})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}

	sent := body["courses"].([]interface{})[0].(map[string]interface{})
	shortname, _ := sent["shortname"].(string)
	if shortname != "AB機械学習と統計モデリングの" {
		t.Errorf("unexpected shortname: %q", shortname)
	}
	if !utf8.ValidString(shortname) || strings.ContainsRune(shortname, utf8.RuneError) {
		t.Errorf("shortname was mangled on the wire: %q", shortname)
	}
}

func TestMoodleUpdateCourseRefetches(t *testing.T) {
	var functions []string
	p, _ := newTestMoodle(t, func(w http.ResponseWriter, r *http.Request) {
		var wsfunction string
		if r.Method == http.MethodGet {
			wsfunction = r.URL.Query().Get("wsfunction")
		} else {
			var body map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decoding request body: %v", err)
			}
			wsfunction, _ = body["wsfunction"].(string)
		}
		functions = append(functions, wsfunction)

		if wsfunction == "core_course_update_courses" {
			fmt.Fprint(w, `null`)
			return
		}
		fmt.Fprint(w, `[{"id": 7, "fullname": "Renamed", "summary": "", "startdate": 0, "enddate": 0}]`)
	})

	course, err := p.UpdateCourse(context.Background(), "7", &models.UpdateCourseRequest{
		Name: strPtr("Renamed"),
	})
	if err != nil {
		t.Fatalf("UpdateCourse: %v", err)
	}

	wantCalls := []string{"core_course_update_courses", "core_course_get_courses"}
	if !reflect.DeepEqual(functions, wantCalls) {
		t.Errorf("calls = %v, want %v", functions, wantCalls)
	}
	if course.ID != "7" || course.Name != "Renamed" {
		t.Errorf("unexpected course: %+v", course)
	}
}

func TestMoodleGetUsers(t *testing.T) {
	p, _ := newTestMoodle(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("courseid") != "3" {
			t.Errorf("unexpected courseid: %s", r.URL.Query().Get("courseid"))
		}
		fmt.Fprint(w, `[
			{"id": 10, "firstname": "Ada", "lastname": "Lovelace", "email": "ada@example.edu", "roles": [{"shortname": "editingteacher"}]},
			{"id": 11, "firstname": "Sam", "lastname": "Pupil", "email": "sam@example.edu", "roles": []}
		]`)
	})

	users, err := p.GetUsers(context.Background(), "3")
	if err != nil {
		t.Fatalf("GetUsers: %v", err)
	}

	want := []models.User{
		{ID: "10", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.edu", Role: models.RoleTeacher},
		{ID: "11", FirstName: "Sam", LastName: "Pupil", Email: "sam@example.edu", Role: models.RoleStudent},
	}
	if !reflect.DeepEqual(users, want) {
		t.Errorf("GetUsers = %+v, want %+v", users, want)
	}
}

func TestMoodleGetUserByIDNotFound(t *testing.T) {
	p, _ := newTestMoodle(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	_, err := p.GetUserByID(context.Background(), "77")
	if !errors.Is(err, lmserrors.UserNotFoundError) {
		t.Fatalf("expected UserNotFoundError, got %v", err)
	}
}

func TestMoodleGetAssignments(t *testing.T) {
	p, _ := newTestMoodle(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query()["courseids[]"]; len(got) != 1 || got[0] != "3" {
			t.Errorf("unexpected courseids: %v", got)
		}
		fmt.Fprint(w, `{"courses": [
			{"id": 3, "assignments": [
				{"id": 100, "name": "Essay", "intro": "Write things", "duedate": 1704067200, "grade": 50},
				{"id": 101, "name": "Optional reading", "intro": "", "duedate": 0}
			]}
		]}`)
	})

	assignments, err := p.GetAssignments(context.Background(), "3")
	if err != nil {
		t.Fatalf("GetAssignments: %v", err)
	}

	want := []models.Assignment{
		{
			ID:          "100",
			CourseID:    "3",
			Title:       "Essay",
			Description: "Write things",
			DueDate:     timePtr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			MaxScore:    floatPtr(50),
		},
		{
			ID:       "101",
			CourseID: "3",
			Title:    "Optional reading",
		},
	}
	if !reflect.DeepEqual(assignments, want) {
		t.Errorf("GetAssignments = %+v, want %+v", assignments, want)
	}
}

func TestMoodleCreateAssignment(t *testing.T) {
	var body map[string]interface{}
	p, _ := newTestMoodle(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		fmt.Fprint(w, `[{"assignmentid": 555}]`)
	})

	due := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assignment, err := p.CreateAssignment(context.Background(), &models.CreateAssignmentRequest{
		CourseID:    "3",
		Title:       "Essay",
		Description: "Write things",
		DueDate:     &due,
		MaxScore:    floatPtr(50),
	})
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}

	if body["wsfunction"] != "mod_assign_create_assignments" {
		t.Errorf("unexpected wsfunction: %v", body["wsfunction"])
	}
	sent := body["assignments"].([]interface{})[0].(map[string]interface{})
	wantSent := map[string]interface{}{
		"courseid": float64(3),
		"name":     "Essay",
		"intro":    "Write things",
		"duedate":  float64(due.Unix()),
		"grade":    float64(50),
	}
	if !reflect.DeepEqual(sent, wantSent) {
		t.Errorf("request assignment = %+v, want %+v", sent, wantSent)
	}

	want := &models.Assignment{
		ID:          "555",
		CourseID:    "3",
		Title:       "Essay",
		Description: "Write things",
		DueDate:     &due,
		MaxScore:    floatPtr(50),
	}
	if !reflect.DeepEqual(assignment, want) {
		t.Errorf("CreateAssignment = %+v, want %+v", assignment, want)
	}
}

func TestMoodleSubmitAssignment(t *testing.T) {
	var body map[string]interface{}
	p, _ := newTestMoodle(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		fmt.Fprint(w, `null`)
	})

	err := p.SubmitAssignment(context.Background(), "100", "10", models.Submission{Text: "my answer"})
	if err != nil {
		t.Fatalf("SubmitAssignment: %v", err)
	}

	if body["wsfunction"] != "mod_assign_save_submission" {
		t.Errorf("unexpected wsfunction: %v", body["wsfunction"])
	}
	if body["onlinetext"] != "my answer" {
		t.Errorf("unexpected onlinetext: %v", body["onlinetext"])
	}
	plugindata, _ := body["plugindata"].(map[string]interface{})
	if plugindata["text"] != "my answer" {
		t.Errorf("unexpected plugindata: %v", body["plugindata"])
	}
}

func TestMoodleRoleMapping(t *testing.T) {
	cases := []struct {
		shortname string
		want      models.Role
	}{
		{"editingteacher", models.RoleTeacher},
		{"student", models.RoleStudent},
		{"manager", models.RoleAdmin},
		{"somethingelse", models.RoleStudent},
	}
	for _, c := range cases {
		if got := mapMoodleRole(c.shortname); got != c.want {
			t.Errorf("mapMoodleRole(%q) = %v, want %v", c.shortname, got, c.want)
		}
	}

	roleIDs := []struct {
		role models.Role
		want int
	}{
		{models.RoleTeacher, 3},
		{models.RoleStudent, 5},
		{models.RoleAdmin, 1},
		{models.Role("unknown"), 5},
	}
	for _, c := range roleIDs {
		if got := moodleRoleID(c.role); got != c.want {
			t.Errorf("moodleRoleID(%q) = %d, want %d", c.role, got, c.want)
		}
	}
}

func TestMoodleTransportError(t *testing.T) {
	p, _ := newTestMoodle(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusForbidden)
	})

	_, err := p.GetCourses(context.Background())
	if err == nil {
		t.Fatal("expected an error for a non-2xx response")
	}
}
