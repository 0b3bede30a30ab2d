package router

import (
	"encoding/json"
	"net/http"

	"lmshub/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/golang/glog"
)

func AssignmentRoutes() *chi.Mux {
	router := chi.NewRouter()

	router.Post("/{assignmentID}/submit", submitAssignmentHandler)

	return router
}

// POST: /{assignmentID}/submit
func submitAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	var req *models.SubmitAssignmentRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	assignmentID := chi.URLParam(r, "assignmentID")

	err = LMS.SubmitAssignment(r.Context(), providerName(r), assignmentID, req.UserID, req.Submission)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(200)
	if _, err := w.Write([]byte("Successfully submitted assignment " + assignmentID)); err != nil {
		glog.Warningf("failed to write response: %v\n", err)
	}
}
