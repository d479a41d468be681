// Package server wires the HTTP handlers into a chi router.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/vh7/internal/app/handler"
	"github.com/atinyakov/vh7/internal/app/service"
	"github.com/atinyakov/vh7/internal/middleware"
	"github.com/atinyakov/vh7/internal/models"
)

// Options configures the router.
type Options struct {
	Instance handler.Instance
	// MaxUpload is the largest accepted upload in bytes.
	MaxUpload     int64
	TrustedSubnet middleware.Subnet
}

// Services are the use cases the router exposes.
type Services struct {
	Links     service.LinkServiceIface
	Users     service.UserServiceIface
	Buckets   service.BucketServiceIface
	Languages []service.Language
}

func Init(opts Options, svc Services, logger *zap.Logger) *chi.Mux {
	get := handler.NewGet(opts.Instance, svc.Links, svc.Languages, logger)
	post := handler.NewPost(opts.Instance.BaseURL, opts.MaxUpload, svc.Links, logger)
	users := handler.NewUser(svc.Users, logger)
	buckets := handler.NewBucket(opts.Instance.BaseURL, svc.Buckets, logger)
	cleanup := handler.NewCleanup(svc.Links, logger)

	r := chi.NewRouter()
	r.Use(middleware.WithGzipRequest)
	r.Use(middleware.WithAuth(svc.Users, logger))
	r.Use(middleware.WithRequestLogging(logger))

	r.Get("/", get.WebApp)
	r.Get("/dl/{link}", get.Download)

	r.Group(func(r chi.Router) {
		r.Use(middleware.WithGzipResponse)

		r.Get("/ping", get.PingDB)
		r.Get("/info", get.InstanceInfo)
		r.Get("/languages", get.Languages)
		r.Get("/info/{link}", get.LinkInfo)
		r.Get("/buckets/{id}", buckets.Get)

		r.Post("/shorten", post.Shorten)
		r.Post("/paste", post.Paste)
		r.Post("/upload", post.Upload)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", users.Register)
			r.Post("/login", users.Login)
			r.Post("/confirm", users.Confirm)
			r.Post("/password/forgot", users.ForgotPassword)
			r.Post("/password/reset", users.ResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)

				r.Get("/me", users.Me)
				r.Patch("/me", users.UpdateMe)
				r.Get("/me/links", get.UserLinks)
				r.Post("/me/api-key", users.GenerateAPIKey)
				r.Post("/me/buckets", buckets.Create)
				r.Get("/me/buckets", buckets.List)
			})
		})

		r.With(middleware.WithSubnet(opts.TrustedSubnet)).Post("/internal/cleanup", cleanup.Run)
	})

	r.Get("/{link}", get.Redirect)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrors(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrors(w, http.StatusNotFound, "Route not found")
	})

	return r
}

func writeErrors(w http.ResponseWriter, status int, messages ...string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{Errors: messages})
}
