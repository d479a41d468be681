package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/vh7/internal/app/service"
	"github.com/atinyakov/vh7/internal/middleware"
	"github.com/atinyakov/vh7/internal/models"
)

type BucketHandler struct {
	baseURL string
	buckets service.BucketServiceIface
	logger  *zap.Logger
}

func NewBucket(baseURL string, s service.BucketServiceIface, l *zap.Logger) *BucketHandler {
	return &BucketHandler{
		baseURL: baseURL,
		buckets: s,
		logger:  l,
	}
}

// Create handles POST /users/me/buckets.
func (h *BucketHandler) Create(res http.ResponseWriter, req *http.Request) {
	var request models.BucketRequest
	if !decode(res, req, &request, h.logger) {
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), readTimeout)
	defer cancel()

	bucket, err := h.buckets.Create(ctx, middleware.UserFrom(req.Context()), service.BucketInput{
		Name:        request.Name,
		Description: request.Description,
		Public:      request.Public,
	})
	if err != nil {
		writeError(res, err, h.logger)
		return
	}

	writeJSON(res, http.StatusCreated, models.NewBucket(bucket))
}

// List handles GET /users/me/buckets.
func (h *BucketHandler) List(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), readTimeout)
	defer cancel()

	buckets, err := h.buckets.List(ctx, middleware.UserFrom(req.Context()))
	if err != nil {
		writeError(res, err, h.logger)
		return
	}

	writeJSON(res, http.StatusOK, models.NewBuckets(buckets))
}

// Get handles GET /buckets/{id}.
func (h *BucketHandler) Get(res http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		writeJSON(res, http.StatusNotFound, models.ErrorResponse{Errors: []string{"Bucket not found"}})
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), readTimeout)
	defer cancel()

	bucket, links, err := h.buckets.Get(ctx, id, middleware.UserFrom(req.Context()))
	if err != nil {
		writeError(res, err, h.logger)
		return
	}

	writeJSON(res, http.StatusOK, models.BucketResponse{
		Bucket: models.NewBucket(bucket),
		Links:  models.NewShortLinks(links, h.baseURL),
	})
}
