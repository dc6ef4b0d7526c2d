// Package api is the thin HTTP layer over onboarding, newsletter creation,
// generation triggering and sending. All real work happens in the planner,
// worker and dispatcher; handlers only decode, delegate and map errors.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"LetterForge/internal/apperrors"
	"LetterForge/internal/csvparser"
	"LetterForge/internal/dispatch"
	"LetterForge/internal/mail"
	"LetterForge/internal/models"
	"LetterForge/internal/planner"
)

type Store interface {
	CreateCompany(ctx context.Context, c *models.Company) error
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	CreateNewsletter(ctx context.Context, n *models.Newsletter) error
	GetNewsletter(ctx context.Context, id uuid.UUID) (*models.Newsletter, error)
	ListSections(ctx context.Context, newsletterID uuid.UUID) ([]models.NewsletterSection, error)
	ListQueueItems(ctx context.Context, newsletterID uuid.UUID) ([]models.QueueItem, error)
	InsertContact(ctx context.Context, c *models.Contact) error
	AttachContacts(ctx context.Context, newsletterID, companyID uuid.UUID) error
}

type Planner interface {
	Plan(ctx context.Context, newsletterID uuid.UUID, selected ...string) (*planner.Plan, error)
}

type Dispatcher interface {
	SendDraft(ctx context.Context, newsletterID uuid.UUID, recipient string) error
	SendToContacts(ctx context.Context, newsletterID uuid.UUID) (sent, failed int, err error)
}

type Handler struct {
	Store      Store
	Planner    Planner
	Dispatcher Dispatcher
	Log        *zap.Logger
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/api/onboarding", h.Onboard)
	r.Post("/api/newsletters", h.CreateNewsletter)
	r.Route("/api/newsletters/{id}", func(r chi.Router) {
		r.Get("/", h.GetNewsletter)
		r.Post("/generate", h.TriggerGeneration)
		r.Post("/send-draft", h.SendDraft)
		r.Post("/send", h.Send)
	})
	r.Post("/api/companies/{id}/contacts/import", h.ImportContacts)
	return r
}

type onboardRequest struct {
	CompanyName         string `json:"company_name"`
	Industry            string `json:"industry"`
	TargetAudience      string `json:"target_audience"`
	AudienceDescription string `json:"audience_description"`
	ContactEmail        string `json:"contact_email"`
}

// Onboard creates a company together with its first draft newsletter,
// previewed to the company contact.
func (h *Handler) Onboard(w http.ResponseWriter, r *http.Request) {
	var req onboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CompanyName == "" || req.Industry == "" || req.ContactEmail == "" {
		h.writeError(w, http.StatusBadRequest, "company_name, industry and contact_email are required")
		return
	}
	if !mail.ValidateAddress(req.ContactEmail) {
		h.writeError(w, http.StatusBadRequest, "invalid contact_email")
		return
	}

	company := models.Company{
		Name:                req.CompanyName,
		Industry:            req.Industry,
		TargetAudience:      req.TargetAudience,
		AudienceDescription: req.AudienceDescription,
		ContactEmail:        req.ContactEmail,
	}
	if err := h.Store.CreateCompany(r.Context(), &company); err != nil {
		h.fail(w, err)
		return
	}

	newsletter := models.Newsletter{
		CompanyID:           company.ID,
		Subject:             dispatch.FormatSubject(company.Name, time.Now()),
		DraftRecipientEmail: req.ContactEmail,
	}
	if err := h.Store.CreateNewsletter(r.Context(), &newsletter); err != nil {
		h.fail(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]any{
		"company":    company,
		"newsletter": newsletter,
	})
}

type createNewsletterRequest struct {
	CompanyID           uuid.UUID `json:"company_id"`
	Subject             string    `json:"subject"`
	DraftRecipientEmail string    `json:"draft_recipient_email"`
}

func (h *Handler) CreateNewsletter(w http.ResponseWriter, r *http.Request) {
	var req createNewsletterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DraftRecipientEmail != "" && !mail.ValidateAddress(req.DraftRecipientEmail) {
		h.writeError(w, http.StatusBadRequest, "invalid draft_recipient_email")
		return
	}

	company, err := h.Store.GetCompany(r.Context(), req.CompanyID)
	if err != nil {
		h.fail(w, err)
		return
	}

	subject := req.Subject
	if subject == "" {
		subject = dispatch.FormatSubject(company.Name, time.Now())
	}

	newsletter := models.Newsletter{
		CompanyID:           company.ID,
		Subject:             subject,
		DraftRecipientEmail: req.DraftRecipientEmail,
	}
	if err := h.Store.CreateNewsletter(r.Context(), &newsletter); err != nil {
		h.fail(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, newsletter)
}

// GetNewsletter returns a newsletter with its sections and generation jobs.
func (h *Handler) GetNewsletter(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	newsletter, err := h.Store.GetNewsletter(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	sections, err := h.Store.ListSections(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	jobs, err := h.Store.ListQueueItems(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"newsletter": newsletter,
		"sections":   sections,
		"jobs":       jobs,
	})
}

type generateRequest struct {
	SectionTypes []string `json:"section_types"`
}

// TriggerGeneration plans the newsletter's sections and queues one
// generation job per section; workers pick the jobs up asynchronously.
func (h *Handler) TriggerGeneration(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req generateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	plan, err := h.Planner.Plan(r.Context(), id, req.SectionTypes...)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.writeJSON(w, http.StatusAccepted, map[string]any{
		"sections": plan.Sections,
		"jobs":     plan.Jobs,
	})
}

type sendDraftRequest struct {
	RecipientEmail string `json:"recipient_email"`
}

func (h *Handler) SendDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req sendDraftRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if err := h.Dispatcher.SendDraft(r.Context(), id, req.RecipientEmail); err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Send attaches the company's contact list to the newsletter and dispatches
// it to every recipient not already sent to.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	newsletter, err := h.Store.GetNewsletter(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	if err := h.Store.AttachContacts(r.Context(), id, newsletter.CompanyID); err != nil {
		h.fail(w, err)
		return
	}

	sent, failed, err := h.Dispatcher.SendToContacts(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"sent": sent, "failed": failed})
}

// ImportContacts parses a CSV request body (Email column required, Name
// optional) and upserts one contact per row.
func (h *Handler) ImportContacts(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if _, err := h.Store.GetCompany(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}

	rows, err := csvparser.ParseContacts(r.Body, 0)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	imported := 0
	for _, row := range rows {
		if !mail.ValidateAddress(row.Email) {
			continue
		}
		contact := models.Contact{CompanyID: id, Email: row.Email, Name: row.Name}
		if err := h.Store.InsertContact(r.Context(), &contact); err != nil {
			h.fail(w, err)
			return
		}
		imported++
	}

	h.writeJSON(w, http.StatusCreated, map[string]any{"imported": imported})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrConfiguration):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, apperrors.ErrSectionsIncomplete):
		h.writeError(w, http.StatusConflict, err.Error())
	default:
		h.Log.Error("request failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Log.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
