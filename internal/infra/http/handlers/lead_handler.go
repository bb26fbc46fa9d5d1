package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/http/middleware"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

const (
	codeInvalidJSON = "INVALID_JSON"
	maxBodyBytes    = 1 << 20
)

type LeadCreator interface {
	Execute(ctx context.Context, input usecase.CreateLeadInput) (*usecase.CreateLeadOutput, error)
}

type LeadLister interface {
	Execute(ctx context.Context, input usecase.ListLeadsInput) (*usecase.ListLeadsOutput, error)
}

type LeadHandler struct {
	CreateLeadUC LeadCreator
	ListLeadsUC  LeadLister
	Logger       *zap.Logger
}

func NewLeadHandler(create LeadCreator, list LeadLister, logger *zap.Logger) *LeadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadHandler{
		CreateLeadUC: create,
		ListLeadsUC:  list,
		Logger:       logger,
	}
}

type CreateLeadResponse struct {
	Success    bool                     `json:"success"`
	Lead       *entity.Lead             `json:"lead"`
	Enrichment usecase.EnrichmentStatus `json:"enrichment"`
}

type ListLeadsResponse struct {
	Success bool          `json:"success"`
	Leads   []entity.Lead `json:"leads"`
}

// CreateLead handles POST /api/leads.
func (h *LeadHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateLeadInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&input); err != nil {
		middleware.RecordIntakeError(codeInvalidJSON)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid JSON",
			Code:    codeInvalidJSON,
			Message: err.Error(),
		})
		return
	}

	output, err := h.CreateLeadUC.Execute(r.Context(), input)
	if err != nil {
		h.writeError(w, err)
		return
	}

	middleware.RecordLeadCreated(output.Lead.Qualified)
	middleware.RecordEnrichment(string(output.Enrichment.Source), output.Enrichment.Success)

	writeJSON(w, http.StatusCreated, CreateLeadResponse{
		Success:    true,
		Lead:       output.Lead,
		Enrichment: output.Enrichment,
	})
}

// ListLeads handles GET /api/leads/list?qualified=true&sortBy=score.
func (h *LeadHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	qualified, _ := strconv.ParseBool(q.Get("qualified"))

	output, err := h.ListLeadsUC.Execute(r.Context(), usecase.ListLeadsInput{
		QualifiedOnly: qualified,
		SortBy:        q.Get("sortBy"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ListLeadsResponse{
		Success: true,
		Leads:   output.Leads,
	})
}

func (h *LeadHandler) writeError(w http.ResponseWriter, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		middleware.RecordIntakeError(de.Code)
		switch de.Code {
		case usecase.CodeDuplicateEmail:
			writeJSON(w, http.StatusConflict, ErrorResponse{
				Error:   "Duplicate email",
				Code:    de.Code,
				Message: "A lead with this email already exists",
			})
		default:
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "Validation failed",
				Code:    de.Code,
				Details: de.Details,
			})
		}
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		middleware.RecordIntakeError(te.Code)
		h.Logger.Error("lead request failed", zap.String("code", te.Code), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal server error",
			Code:    te.Code,
			Message: te.Message,
		})
		return
	}

	middleware.RecordIntakeError("INTERNAL_ERROR")
	h.Logger.Error("unexpected lead request failure", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "Internal server error",
		Code:  "INTERNAL_ERROR",
	})
}
