package router

import (
	"encoding/json"
	"net/http"

	"lmshub/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/golang/glog"
)

func CourseRoutes() *chi.Mux {
	router := chi.NewRouter()

	// Reading courses
	router.Get("/", getCoursesHandler)
	router.Get("/{courseID}", getCourseHandler)

	// Modifying courses themselves
	router.Post("/create", createCourseHandler)
	router.Post("/edit/{courseID}", editCourseHandler)
	router.Post("/delete/{courseID}", deleteCourseHandler)

	// Course membership
	router.Get("/{courseID}/users", getCourseUsersHandler)
	router.Post("/{courseID}/enroll", enrollUserHandler)

	// Course assignments
	router.Get("/{courseID}/assignments", getAssignmentsHandler)
	router.Post("/{courseID}/assignments/create", createAssignmentHandler)

	return router
}

// GET: /
func getCoursesHandler(w http.ResponseWriter, r *http.Request) {
	courses, err := LMS.GetCourses(r.Context(), providerName(r))
	if err != nil {
		writeError(w, err)
		return
	}

	render.JSON(w, r, courses)
}

// GET: /{courseID}
func getCourseHandler(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	course, err := LMS.GetCourseByID(r.Context(), providerName(r), courseID)
	if err != nil {
		writeError(w, err)
		return
	}

	render.JSON(w, r, course)
}

// POST: /create
func createCourseHandler(w http.ResponseWriter, r *http.Request) {
	var req *models.CreateCourseRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	course, err := LMS.CreateCourse(r.Context(), providerName(r), req)
	if err != nil {
		writeError(w, err)
		return
	}

	render.JSON(w, r, course)
}

// POST: /edit/{courseID}
func editCourseHandler(w http.ResponseWriter, r *http.Request) {
	var req *models.UpdateCourseRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	course, err := LMS.UpdateCourse(r.Context(), providerName(r), chi.URLParam(r, "courseID"), req)
	if err != nil {
		writeError(w, err)
		return
	}

	render.JSON(w, r, course)
}

// POST: /delete/{courseID}
func deleteCourseHandler(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	err := LMS.DeleteCourse(r.Context(), providerName(r), courseID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(200)
	if _, err := w.Write([]byte("Successfully deleted course " + courseID)); err != nil {
		glog.Warningf("failed to write response: %v\n", err)
	}
}

// GET: /{courseID}/users
func getCourseUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := LMS.GetUsers(r.Context(), providerName(r), chi.URLParam(r, "courseID"))
	if err != nil {
		writeError(w, err)
		return
	}

	render.JSON(w, r, users)
}

// POST: /{courseID}/enroll
func enrollUserHandler(w http.ResponseWriter, r *http.Request) {
	var req *models.EnrollUserRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	courseID := chi.URLParam(r, "courseID")

	err = LMS.EnrollUser(r.Context(), providerName(r), courseID, req.UserID, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(200)
	if _, err := w.Write([]byte("Successfully enrolled user in course " + courseID)); err != nil {
		glog.Warningf("failed to write response: %v\n", err)
	}
}

// GET: /{courseID}/assignments
func getAssignmentsHandler(w http.ResponseWriter, r *http.Request) {
	assignments, err := LMS.GetAssignments(r.Context(), providerName(r), chi.URLParam(r, "courseID"))
	if err != nil {
		writeError(w, err)
		return
	}

	render.JSON(w, r, assignments)
}

// POST: /{courseID}/assignments/create
func createAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	var req *models.CreateAssignmentRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.CourseID = chi.URLParam(r, "courseID")

	assignment, err := LMS.CreateAssignment(r.Context(), providerName(r), req)
	if err != nil {
		writeError(w, err)
		return
	}

	render.JSON(w, r, assignment)
}
