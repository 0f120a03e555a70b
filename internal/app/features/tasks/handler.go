// Package tasks is the org-scoped work-item board. Any member may read and
// write; assignees are memberships of the same organization.
package tasks

import (
	"errors"
	"net/http"
	"time"

	apierrors "github.com/communehq/commune/internal/app/features/errors"
	"github.com/communehq/commune/internal/app/features/shared"
	"github.com/communehq/commune/internal/app/system/gates"
	"github.com/communehq/commune/internal/app/system/htmlsanitize"
	"github.com/communehq/commune/internal/app/system/timeouts"
	membershipstore "github.com/communehq/commune/internal/app/store/memberships"
	taskstore "github.com/communehq/commune/internal/app/store/tasks"
	"github.com/communehq/commune/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Tasks       *taskstore.Store
	Memberships *membershipstore.Store
	Gate        *gates.Gate
	Log         *zap.Logger
	Errs        *apierrors.ErrorLogger
}

func NewHandler(tasks *taskstore.Store, memberships *membershipstore.Store, gate *gates.Gate, logger *zap.Logger) *Handler {
	return &Handler{
		Tasks:       tasks,
		Memberships: memberships,
		Gate:        gate,
		Log:         logger,
		Errs:        apierrors.NewErrorLogger(logger),
	}
}

type taskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	AssigneeID  string     `json:"assignee_id"`
	DueDate     *time.Time `json:"due_date"`
}

func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	orgID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "orgID"))
	if err != nil {
		apierrors.WriteJSON(w, http.StatusBadRequest, "invalid organization id")
		return primitive.NilObjectID, false
	}
	if _, err := h.Gate.Authorize(r, orgID, gates.CapMember); err != nil {
		apierrors.RenderGateError(w, err)
		return primitive.NilObjectID, false
	}
	return orgID, true
}

func taskIDParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "taskID"))
	if err != nil {
		apierrors.WriteJSON(w, http.StatusBadRequest, "invalid task id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// fields validates the request against the org: an assignee, when given,
// must be one of the org's memberships.
func (h *Handler) fields(w http.ResponseWriter, r *http.Request, orgID primitive.ObjectID, req taskRequest) (taskstore.Fields, bool) {
	f := taskstore.Fields{
		Title:       htmlsanitize.Text(req.Title),
		Description: htmlsanitize.Sanitize(req.Description),
		Status:      req.Status,
		DueDate:     req.DueDate,
	}
	if req.AssigneeID == "" {
		return f, true
	}

	assigneeID, err := primitive.ObjectIDFromHex(req.AssigneeID)
	if err != nil {
		apierrors.WriteJSON(w, http.StatusBadRequest, "invalid assignee id")
		return taskstore.Fields{}, false
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	if _, err := h.Memberships.GetInOrg(ctx, assigneeID, orgID); err != nil {
		if errors.Is(err, membershipstore.ErrNotFound) {
			apierrors.RenderNotFound(w, "assignee is not a member of this organization")
			return taskstore.Fields{}, false
		}
		h.Errs.Internal(w, r, "load assignee membership", err)
		return taskstore.Fields{}, false
	}
	f.AssigneeID = &assigneeID
	return f, true
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithLong(r.Context())
	defer cancel()

	tasks, err := h.Tasks.ListByOrg(ctx, orgID)
	if err != nil {
		h.Errs.Internal(w, r, "list tasks", err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	shared.JSON(w, h.Log, http.StatusOK, tasks)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var req taskRequest
	if err := shared.Decode(r, &req); err != nil {
		h.Errs.BadRequest(w, r, "decode task request", err, "invalid request body")
		return
	}
	f, ok := h.fields(w, r, orgID, req)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	task, err := h.Tasks.Create(ctx, orgID, f)
	if err != nil {
		h.Errs.BadRequest(w, r, "create task", err, "invalid task fields")
		return
	}
	shared.JSON(w, h.Log, http.StatusCreated, task)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.authorize(w, r)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	task, err := h.Tasks.GetInOrg(ctx, taskID, orgID)
	if err != nil {
		if errors.Is(err, taskstore.ErrNotFound) {
			apierrors.RenderNotFound(w, "task not found")
			return
		}
		h.Errs.Internal(w, r, "load task", err)
		return
	}
	shared.JSON(w, h.Log, http.StatusOK, task)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.authorize(w, r)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	var req taskRequest
	if err := shared.Decode(r, &req); err != nil {
		h.Errs.BadRequest(w, r, "decode task request", err, "invalid request body")
		return
	}
	f, ok := h.fields(w, r, orgID, req)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	if err := h.Tasks.Update(ctx, taskID, orgID, f); err != nil {
		if errors.Is(err, taskstore.ErrNotFound) {
			apierrors.RenderNotFound(w, "task not found")
			return
		}
		h.Errs.BadRequest(w, r, "update task", err, "invalid task fields")
		return
	}
	shared.JSON(w, h.Log, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.authorize(w, r)
	if !ok {
		return
	}
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	if err := h.Tasks.Delete(ctx, taskID, orgID); err != nil {
		if errors.Is(err, taskstore.ErrNotFound) {
			apierrors.RenderNotFound(w, "task not found")
			return
		}
		h.Errs.Internal(w, r, "delete task", err)
		return
	}
	shared.JSON(w, h.Log, http.StatusOK, map[string]string{"status": "deleted"})
}
