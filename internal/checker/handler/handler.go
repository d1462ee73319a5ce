package handler

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"dealchecker/internal/checker"
	"dealchecker/internal/files"
	"dealchecker/internal/task"
	"dealchecker/pkg/platform/httputil"
	"dealchecker/pkg/platform/middleware/auth"
	"dealchecker/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service is the deal checker read/write surface.
type Service interface {
	Overview(ctx context.Context, dealID string) (*checker.Overview, error)
	Compliance(ctx context.Context, dealID string) (*checker.ComplianceView, error)
	GetTask(ctx context.Context, dealID, taskID string) (*task.Task, error)
	CreateTask(ctx context.Context, dealID string, res *task.Resolution, idempotencyKey string) (*task.Task, error)
	ResolveTask(ctx context.Context, dealID, taskID string, res *task.Resolution) (*task.Task, error)
	OpenFile(ctx context.Context, dealID, fileID string) (*files.Object, error)
}

const idempotencyHeader = "Idempotency-Key"

// Handler exposes deal checker endpoints. Read routes and write routes each
// demand their own capability.
type Handler struct {
	service Service
	logger  *slog.Logger
	read    auth.Capability
	write   auth.Capability
}

func New(service Service, logger *slog.Logger, read, write auth.Capability) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		read:    read,
		write:   write,
	}
}

// Register mounts the routes. Callers must install auth.RequireAuth first.
func (h *Handler) Register(r chi.Router) {
	r.Route("/deal/{id}", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireCapability(h.read, h.logger))
			r.Get("/", h.HandleOverview)
			r.Get("/compliance", h.HandleCompliance)
			r.Get("/files/{fileId}", h.HandleDownload)
			r.Get("/task/{taskId}", h.HandleGetTask)
		})
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireCapability(h.write, h.logger))
			r.Post("/task", h.HandleCreateTask)
			r.Post("/task/{taskId}/resolve", h.HandleResolveTask)
		})
	})
}

// HandleOverview handles GET /deal/{id}.
func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dealID := chi.URLParam(r, "id")

	overview, err := h.service.Overview(ctx, dealID)
	if err != nil {
		h.fail(ctx, w, "failed to load deal", dealID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toOverviewResponse(dealID, *overview))
}

// HandleCompliance handles GET /deal/{id}/compliance.
func (h *Handler) HandleCompliance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dealID := chi.URLParam(r, "id")
	start := time.Now()

	view, err := h.service.Compliance(ctx, dealID)
	if err != nil {
		h.fail(ctx, w, "compliance check failed", dealID, err)
		return
	}

	h.logger.InfoContext(ctx, "compliance view served",
		"request_id", requestcontext.RequestID(ctx),
		"deal_id", dealID,
		"opened_tasks", len(view.Opened),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, toComplianceResponse(dealID, view))
}

// HandleDownload handles GET /deal/{id}/files/{fileId}.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dealID := chi.URLParam(r, "id")
	fileID := chi.URLParam(r, "fileId")

	obj, err := h.service.OpenFile(ctx, dealID, fileID)
	if err != nil {
		h.fail(ctx, w, "failed to open file", dealID, err)
		return
	}
	defer obj.Body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": obj.Name}))
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, obj.Body); err != nil {
		h.logger.WarnContext(ctx, "file download interrupted",
			"request_id", requestcontext.RequestID(ctx),
			"deal_id", dealID,
			"file_id", fileID,
			"error", err,
		)
	}
}

// HandleGetTask handles GET /deal/{id}/task/{taskId}.
func (h *Handler) HandleGetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dealID := chi.URLParam(r, "id")

	t, err := h.service.GetTask(ctx, dealID, chi.URLParam(r, "taskId"))
	if err != nil {
		h.fail(ctx, w, "failed to load task", dealID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toTaskResponse(t))
}

// HandleCreateTask handles POST /deal/{id}/task.
func (h *Handler) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	dealID := chi.URLParam(r, "id")

	req, ok := httputil.DecodeAndPrepare[ResolutionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	t, err := h.service.CreateTask(ctx, dealID, req.Parsed(), r.Header.Get(idempotencyHeader))
	if err != nil {
		h.fail(ctx, w, "failed to create task", dealID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toTaskResponse(t))
}

// HandleResolveTask handles POST /deal/{id}/task/{taskId}/resolve.
func (h *Handler) HandleResolveTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	dealID := chi.URLParam(r, "id")

	req, ok := httputil.DecodeAndPrepare[ResolutionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	t, err := h.service.ResolveTask(ctx, dealID, chi.URLParam(r, "taskId"), req.Parsed())
	if err != nil {
		h.fail(ctx, w, "failed to resolve task", dealID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toTaskResponse(t))
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg, dealID string, err error) {
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"deal_id", dealID,
		"error", err,
	)
	httputil.WriteError(w, err)
}
