package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/vh7/internal/app/service"
	"github.com/atinyakov/vh7/internal/models"
)

const cleanupTimeout = 5 * time.Minute

type CleanupHandler struct {
	links  service.LinkServiceIface
	logger *zap.Logger
}

func NewCleanup(s service.LinkServiceIface, l *zap.Logger) *CleanupHandler {
	return &CleanupHandler{
		links:  s,
		logger: l,
	}
}

// Run handles POST /internal/cleanup. Errors of single uploads are logged by
// the service, the response still reports what was removed.
func (h *CleanupHandler) Run(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), cleanupTimeout)
	defer cancel()

	removed, err := h.links.Cleanup(ctx)
	if err != nil && removed == 0 {
		writeError(res, err, h.logger)
		return
	}
	if err != nil {
		h.logger.Warn("cleanup finished with errors", zap.Int("removed", removed), zap.Error(err))
	}

	writeJSON(res, http.StatusOK, models.CleanupResponse{Removed: removed})
}
