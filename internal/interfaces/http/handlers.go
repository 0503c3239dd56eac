package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jcabrera/civil-registry/internal/application/port"
	"github.com/jcabrera/civil-registry/internal/application/service"
	"github.com/jcabrera/civil-registry/internal/domain/entity"
	"github.com/jcabrera/civil-registry/internal/domain/fee"
	"github.com/jcabrera/civil-registry/internal/domain/payment"
	domainwf "github.com/jcabrera/civil-registry/internal/domain/workflow"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	workflow  service.WorkflowService
	documents port.DocumentStore
	logger    Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(workflow service.WorkflowService, documents port.DocumentStore, logger Logger) *Handlers {
	return &Handlers{
		workflow:  workflow,
		documents: documents,
		logger:    logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// kindSlugs maps URL path segments to submission kinds
var kindSlugs = map[string]entity.Kind{
	"death-registration":  entity.KindDeathRegistration,
	"burial-permit":       entity.KindBurialPermit,
	"cremation-permit":    entity.KindCremationPermit,
	"exhumation-permit":   entity.KindExhumationPermit,
	"certificate-request": entity.KindCertificateRequest,
}

// SubmissionResponse represents a submission in API responses
type SubmissionResponse struct {
	ID                int64          `json:"id"`
	Kind              string         `json:"kind"`
	OwnerUserID       string         `json:"owner_user_id"`
	Status            string         `json:"status"`
	SubjectData       string         `json:"subject_data,omitempty"`
	Options           entity.Options `json:"options"`
	FeeCentavos       int64          `json:"fee_centavos"`
	OrderOfPaymentRef string         `json:"order_of_payment_ref,omitempty"`
	Proof             *payment.Proof `json:"proof,omitempty"`
	Remarks           string         `json:"remarks,omitempty"`
	ProcessedBy       string         `json:"processed_by,omitempty"`
	ProcessedAt       *string        `json:"processed_at,omitempty"`
	Documents         []DocumentInfo `json:"documents,omitempty"`
	CreatedAt         string         `json:"created_at"`
	UpdatedAt         string         `json:"updated_at"`
}

// DocumentInfo represents an uploaded requirement in API responses
type DocumentInfo struct {
	Name      string `json:"name"`
	Reference string `json:"reference"`
}

// CreateSubmissionRequest is the intake payload
type CreateSubmissionRequest struct {
	Kind        string         `json:"kind" binding:"required"`
	SubjectData string         `json:"subject_data"`
	Options     entity.Options `json:"options"`
	Documents   []DocumentInfo `json:"documents"`
}

// ActionRequest carries the action-specific payload for workflow actions
type ActionRequest struct {
	Remarks     string          `json:"remarks,omitempty"`
	Proof       *ProofRequest   `json:"proof,omitempty"`
	Options     *entity.Options `json:"options,omitempty"`
	SubjectData string          `json:"subject_data,omitempty"`
}

// ProofRequest is the payment proof payload: an uploaded-file reference or a
// receipt number, never both
type ProofRequest struct {
	Kind  string `json:"kind" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// UploadDocument handles POST /api/v1/documents
func (h *Handlers) UploadDocument(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "missing file field"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "failed to read upload"})
		return
	}

	reference, err := h.documents.Store(c.Request.Context(), header.Filename, content)
	if err != nil {
		h.logger.Error("Document upload failed", "error", err, "name", header.Filename)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to store document"})
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    DocumentInfo{Name: header.Filename, Reference: reference},
	})
}

// CreateSubmission handles POST /api/v1/submissions
func (h *Handlers) CreateSubmission(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Error: err.Error()})
		return
	}

	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	kind, ok := kindSlugs[req.Kind]
	if !ok {
		kind = entity.Kind(req.Kind)
	}

	docs := make([]entity.Document, 0, len(req.Documents))
	now := time.Now()
	for _, d := range req.Documents {
		docs = append(docs, entity.Document{
			Name:       d.Name,
			Reference:  d.Reference,
			UploadedAt: now,
		})
	}

	sub, err := h.workflow.Create(c.Request.Context(), actor, service.CreateInput{
		Kind:        kind,
		SubjectData: req.SubjectData,
		Options:     req.Options,
		Documents:   docs,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: toSubmissionResponse(sub)})
}

// GetSubmission handles GET /api/v1/submissions/:kind/:id
func (h *Handlers) GetSubmission(c *gin.Context) {
	actor, kind, id, ok := h.requestScope(c)
	if !ok {
		return
	}

	sub, err := h.workflow.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if sub.Kind != kind {
		h.respondError(c, port.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: toSubmissionResponse(sub)})
}

// ListSubmissions handles GET /api/v1/submissions
func (h *Handlers) ListSubmissions(c *gin.Context) {
	actor, err := actorFrom(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Error: err.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	status := domainwf.State(c.Query("status"))

	subs, err := h.workflow.List(c.Request.Context(), actor, status, limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]SubmissionResponse, 0, len(subs))
	for _, sub := range subs {
		out = append(out, toSubmissionResponse(sub))
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: out})
}

// GetHistory handles GET /api/v1/submissions/:kind/:id/history
func (h *Handlers) GetHistory(c *gin.Context) {
	actor, _, id, ok := h.requestScope(c)
	if !ok {
		return
	}

	entries, err := h.workflow.History(c.Request.Context(), actor, id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: entries})
}

// PerformAction returns a handler that applies one workflow trigger.
// One route per action keeps the transition surface explicit.
func (h *Handlers) PerformAction(trigger domainwf.Trigger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, kind, id, ok := h.requestScope(c)
		if !ok {
			return
		}

		var req ActionRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
				return
			}
		}

		payload := service.PerformPayload{
			Remarks:     req.Remarks,
			Options:     req.Options,
			SubjectData: req.SubjectData,
		}
		if req.Proof != nil {
			proof, err := payment.NewProof(payment.ProofKind(req.Proof.Kind), req.Proof.Value)
			if err != nil {
				c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
				return
			}
			payload.Proof = proof
		}

		sub, err := h.workflow.Perform(c.Request.Context(), kind, id, trigger, actor, payload)
		if err != nil {
			h.respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, Response{Success: true, Data: toSubmissionResponse(sub)})
	}
}

// requestScope extracts the actor, kind and id common to per-submission routes
func (h *Handlers) requestScope(c *gin.Context) (entity.Actor, entity.Kind, int64, bool) {
	actor, err := actorFrom(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Error: err.Error()})
		return entity.Actor{}, "", 0, false
	}

	kind, ok := kindSlugs[c.Param("kind")]
	if !ok {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "unknown submission kind"})
		return entity.Actor{}, "", 0, false
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid submission id"})
		return entity.Actor{}, "", 0, false
	}

	return actor, kind, id, true
}

// respondError maps each error kind to its HTTP status at this boundary only
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, port.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domainwf.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, domainwf.ErrInvalidTransition),
		errors.Is(err, port.ErrConcurrentModification),
		errors.Is(err, service.ErrAlreadyPaid):
		status = http.StatusConflict
	case errors.Is(err, fee.ErrInvalidOption),
		errors.Is(err, service.ErrMissingRemarks),
		errors.Is(err, service.ErrMissingProof),
		errors.Is(err, service.ErrMissingDocuments),
		errors.Is(err, service.ErrInvalidKind):
		status = http.StatusBadRequest
	default:
		h.logger.Error("Unhandled request error", "error", err)
	}

	c.JSON(status, Response{Success: false, Error: err.Error()})
}

func toSubmissionResponse(sub *entity.Submission) SubmissionResponse {
	resp := SubmissionResponse{
		ID:                sub.ID,
		Kind:              sub.Kind.String(),
		OwnerUserID:       sub.OwnerUserID,
		Status:            sub.Status.String(),
		SubjectData:       sub.SubjectData,
		Options:           sub.Options,
		FeeCentavos:       sub.FeeCentavos,
		OrderOfPaymentRef: sub.OrderOfPaymentRef,
		Proof:             sub.Proof,
		Remarks:           sub.Remarks,
		ProcessedBy:       sub.ProcessedBy,
		CreatedAt:         sub.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         sub.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if sub.ProcessedAt != nil {
		v := sub.ProcessedAt.UTC().Format(time.RFC3339)
		resp.ProcessedAt = &v
	}

	for _, d := range sub.Documents {
		resp.Documents = append(resp.Documents, DocumentInfo{Name: d.Name, Reference: d.Reference})
	}

	return resp
}
