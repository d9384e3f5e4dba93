package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"onboard/internal/onboarding/form"
	"onboard/internal/onboarding/orchestrator"
	"onboard/internal/platform/middleware"
	id "onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/platform/httputil"
)

// Forms is the store of live onboarding forms.
type Forms interface {
	Create(ctx context.Context) (id.FormID, *orchestrator.Orchestrator)
	Get(ctx context.Context, formID id.FormID) (*orchestrator.Orchestrator, error)
	Delete(ctx context.Context, formID id.FormID) error
}

// Handler exposes onboarding forms over HTTP. Each endpoint maps to one
// orchestrator operation and answers with the form's current view.
type Handler struct {
	forms  Forms
	logger *slog.Logger
}

func New(forms Forms, logger *slog.Logger) *Handler {
	return &Handler{forms: forms, logger: logger}
}

// Register mounts the handler routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/onboarding/forms", h.HandleCreate)
	r.Get("/onboarding/forms/{formID}", h.HandleGet)
	r.Delete("/onboarding/forms/{formID}", h.HandleDelete)
	r.Put("/onboarding/forms/{formID}/fields/{field}", h.HandleUpdateField)
	r.Post("/onboarding/forms/{formID}/fields/{field}/blur", h.HandleBlur)
	r.Post("/onboarding/forms/{formID}/submit", h.HandleSubmit)
}

// HandleCreate handles POST /onboarding/forms.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	formID, f := h.forms.Create(r.Context())
	httputil.WriteJSON(w, http.StatusCreated, newFormResponse(formID, f.Snapshot()))
}

// HandleGet handles GET /onboarding/forms/{formID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	formID, f, ok := h.loadForm(w, r)
	if !ok {
		return
	}
	h.settle(r, f)
	httputil.WriteJSON(w, http.StatusOK, newFormResponse(formID, f.Snapshot()))
}

// HandleDelete handles DELETE /onboarding/forms/{formID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	formID, err := parseFormID(chi.URLParam(r, "formID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.forms.Delete(r.Context(), formID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUpdateField handles PUT /onboarding/forms/{formID}/fields/{field}.
func (h *Handler) HandleUpdateField(w http.ResponseWriter, r *http.Request) {
	formID, f, ok := h.loadForm(w, r)
	if !ok {
		return
	}
	field, err := form.ParseField(chi.URLParam(r, "field"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateFieldRequest](w, r, h.logger)
	if !ok {
		return
	}

	view := f.UpdateField(field, req.Value)
	httputil.WriteJSON(w, http.StatusOK, newFormResponse(formID, view))
}

// HandleBlur handles POST /onboarding/forms/{formID}/fields/{field}/blur by
// validating the stored value of field.
func (h *Handler) HandleBlur(w http.ResponseWriter, r *http.Request) {
	formID, f, ok := h.loadForm(w, r)
	if !ok {
		return
	}
	field, err := form.ParseField(chi.URLParam(r, "field"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	f.ValidateField(field, f.Snapshot().Values.Get(field))
	h.settle(r, f)
	httputil.WriteJSON(w, http.StatusOK, newFormResponse(formID, f.Snapshot()))
}

// HandleSubmit handles POST /onboarding/forms/{formID}/submit. A refused
// submission is still a 200; the reasons are in the form's errors.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	formID, f, ok := h.loadForm(w, r)
	if !ok {
		return
	}

	submitted := f.SubmitForm(ctx)
	if !submitted {
		h.logger.InfoContext(ctx, "onboarding submission refused",
			"request_id", middleware.GetRequestID(ctx),
			"form_id", formID.String(),
		)
	}
	h.settle(r, f)
	httputil.WriteJSON(w, http.StatusOK, SubmitResponse{
		Submitted: submitted,
		Form:      newFormResponse(formID, f.Snapshot()),
	})
}

func (h *Handler) loadForm(w http.ResponseWriter, r *http.Request) (id.FormID, *orchestrator.Orchestrator, bool) {
	formID, err := parseFormID(chi.URLParam(r, "formID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.FormID{}, nil, false
	}
	f, err := h.forms.Get(r.Context(), formID)
	if err != nil {
		httputil.WriteError(w, err)
		return id.FormID{}, nil, false
	}
	return formID, f, true
}

// settle waits for in-flight lookups when the client asked for ?wait=true.
func (h *Handler) settle(r *http.Request, f *orchestrator.Orchestrator) {
	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))
	if !wait {
		return
	}
	if err := f.Wait(r.Context()); err != nil {
		h.logger.DebugContext(r.Context(), "stopped waiting for corporation lookup",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
	}
}

// parseFormID treats malformed IDs as unknown forms.
func parseFormID(raw string) (id.FormID, error) {
	formID, err := id.ParseFormID(raw)
	if err != nil {
		return id.FormID{}, dErrors.New(dErrors.CodeNotFound, "form not found")
	}
	return formID, nil
}
