package server

import (
	"fmt"
	"log"
	"net/http"

	"lmshub/internal/config"
	mw "lmshub/internal/middleware"
	rtr "lmshub/internal/router"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

func Routes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.Logger, // Log API Request Calls
		mw.RequestID(),
	)

	router.Route("/", func(r chi.Router) {
		r.Mount("/", rtr.HealthRoutes())
	})

	router.Route("/v1", func(r chi.Router) {
		r.Mount("/providers", rtr.ProviderRoutes())

		r.Route("/{provider}", func(r chi.Router) {
			r.Use(mw.ProviderCtx())
			r.Mount("/courses", rtr.CourseRoutes())
			r.Mount("/users", rtr.UserRoutes())
			r.Mount("/assignments", rtr.AssignmentRoutes())
		})
	})

	return router
}

func Start() {
	if config.Config == nil {
		log.Panic("❌ Missing or invalid configuration!")
	}

	router := Routes()
	c := cors.New(cors.Options{
		AllowedOrigins: config.Config.AllowedOrigins,
		AllowedHeaders: []string{"Content-Type"},
		AllowedMethods: []string{"GET", "POST"},
	})

	handler := c.Handler(router)
	log.Printf("Server is listening on port %v\n", config.Config.Port)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", config.Config.Port), handler))
}
