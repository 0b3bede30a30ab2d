package router

import (
	"errors"
	"net/http"

	"lmshub/internal/lmserrors"
	"lmshub/internal/provider"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/golang/glog"
)

// LMS is the facade the route handlers dispatch through. Set once at
// startup, before the server starts serving.
var LMS *provider.LMS

func HealthRoutes() *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		if _, err := w.Write([]byte("OK")); err != nil {
			glog.Warningf("failed to write response: %v\n", err)
		}
	})
	return router
}

func ProviderRoutes() *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", getProviderNamesHandler)
	return router
}

// GET: /providers
func getProviderNamesHandler(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, LMS.GetProviderNames())
}

// providerName pulls the provider name placed in the request context by
// middleware.ProviderCtx.
func providerName(r *http.Request) string {
	name, _ := r.Context().Value("provider").(string)
	return name
}

// writeError maps facade and adapter errors onto gateway status codes:
// lookup misses are 404, everything upstream-shaped is 502.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lmserrors.ProviderNotFoundError),
		errors.Is(err, lmserrors.CourseNotFoundError),
		errors.Is(err, lmserrors.UserNotFoundError),
		errors.Is(err, lmserrors.AssignmentNotFoundError):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusBadGateway)
	}
}
