package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func UserRoutes() *chi.Mux {
	router := chi.NewRouter()

	router.Get("/{userID}", getUserHandler)

	return router
}

// GET: /{userID}
func getUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := LMS.GetUserByID(r.Context(), providerName(r), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}

	render.JSON(w, r, user)
}
