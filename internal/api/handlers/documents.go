package handlers

import (
	"context"
	"dispatch-compliance-service/internal/api/dto"
	"dispatch-compliance-service/internal/domain"
	"dispatch-compliance-service/internal/platform/metrics"
	"dispatch-compliance-service/internal/ports"
	"dispatch-compliance-service/internal/services"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const maxUploadMemory = 32 << 20

// DocumentHandler serves the document vault, compliance alerts and inspection mode.
type DocumentHandler struct {
	Sessions      ports.SessionStore
	Repo          ports.DocumentRepository
	Ingestor      *services.DocumentIngestor
	Clock         ports.Clock
	WarningWindow time.Duration
	Metrics       *metrics.Metrics
}

func (h *DocumentHandler) Register(r chi.Router) {
	r.Get("/sessions/{sessionID}/documents", h.List)
	r.Post("/sessions/{sessionID}/documents", h.Add)
	r.Delete("/sessions/{sessionID}/documents", h.Clear)
	r.Post("/sessions/{sessionID}/documents/seed", h.Seed)
	r.Get("/sessions/{sessionID}/documents/{documentID}", h.Get)
	r.Put("/sessions/{sessionID}/documents/{documentID}/expiry", h.SetExpiry)
	r.Get("/sessions/{sessionID}/alerts", h.Alerts)
	r.Get("/sessions/{sessionID}/inspection", h.Inspection)
	r.Post("/sessions/{sessionID}/inspection/packet", h.Packet)
}

func (h *DocumentHandler) entitlements(ctx context.Context, sessionID string) (domain.Entitlements, error) {
	sess, err := h.Sessions.GetSession(ctx, sessionID)
	if err != nil {
		return domain.Entitlements{}, err
	}
	return domain.EntitlementsFor(sess.Tier), nil
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Repo.ListDocuments(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.FromDocuments(docs))
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid document id")
		return
	}

	d, err := h.Repo.GetDocument(r.Context(), chi.URLParam(r, "sessionID"), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.FromDocument(d))
}

// Add ingests uploaded files (multipart field "files") or a single JSON declaration.
// Uploaded bytes are not stored; only the file name feeds classification and extraction.
func (h *DocumentHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "sessionID")

	ent, err := h.entitlements(ctx, sessionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var reqs []services.IngestDocumentRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid multipart body")
			return
		}
		defer r.MultipartForm.RemoveAll()

		for _, fh := range r.MultipartForm.File["files"] {
			reqs = append(reqs, services.IngestDocumentRequest{FileName: fh.Filename, Source: domain.SourceUpload})
		}
		if len(reqs) == 0 {
			writeError(w, r, http.StatusBadRequest, "no files in field \"files\"")
			return
		}
	} else {
		var body dto.DeclareDocumentRequest
		if !decodeJSON(w, r, &body) {
			return
		}
		req, err := declareRequest(body)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		reqs = append(reqs, req)
	}

	docs := make([]domain.DocumentRecord, 0, len(reqs))
	for _, req := range reqs {
		d, err := h.Ingestor.Ingest(ctx, req, ent)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		docs = append(docs, d)
	}

	h.store(w, r, sessionID, docs)
}

func declareRequest(body dto.DeclareDocumentRequest) (services.IngestDocumentRequest, error) {
	req := services.IngestDocumentRequest{FileName: body.FileName, Source: domain.SourceManual}
	if strings.TrimSpace(body.Category) != "" {
		c, err := domain.ParseDocumentCategory(body.Category)
		if err != nil {
			return req, err
		}
		req.Category = c
	}
	if strings.TrimSpace(body.ExpiryDate) != "" {
		d, err := domain.ParseDate(body.ExpiryDate)
		if err != nil {
			return req, err
		}
		req.ExpiryDate = &d
	}
	return req, nil
}

func (h *DocumentHandler) Seed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "sessionID")

	ent, err := h.entitlements(ctx, sessionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	docs, err := h.Ingestor.SeedSamples(ctx, ent)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.store(w, r, sessionID, docs)
}

func (h *DocumentHandler) store(w http.ResponseWriter, r *http.Request, sessionID string, docs []domain.DocumentRecord) {
	ctx := r.Context()
	if err := h.Repo.AddDocuments(ctx, sessionID, docs); err != nil {
		writeServiceError(w, r, err)
		return
	}

	for _, d := range docs {
		h.Metrics.IncrementDocuments(string(d.Category), string(d.Source))
	}
	slog.InfoContext(ctx, "documents added",
		"req_id", middleware.GetReqID(ctx),
		"session_id", sessionID,
		"count", len(docs),
	)

	writeJSON(w, r, http.StatusCreated, dto.FromDocuments(docs))
}

func (h *DocumentHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.ClearDocuments(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DocumentHandler) SetExpiry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid document id")
		return
	}

	// An empty body means "extend from today".
	var body dto.SetExpiryRequest
	if !decodeOptionalJSON(w, r, &body) {
		return
	}

	var expiry *time.Time
	if strings.TrimSpace(body.ExpiryDate) != "" {
		d, err := domain.ParseDate(body.ExpiryDate)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		expiry = &d
	}

	got, err := services.SetDocumentExpiry(ctx, h.Repo, h.Clock, chi.URLParam(r, "sessionID"), id, expiry)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SetExpiryResponse{ID: id.String(), ExpiryDate: got.Format(domain.DateLayout)})
}

// Alerts evaluates the session's documents against the inspection table.
// ?today=YYYY-MM-DD overrides the evaluation date.
func (h *DocumentHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "sessionID")

	ent, err := h.entitlements(ctx, sessionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !ent.ComplianceAlerts {
		writeServiceError(w, r, fmt.Errorf("compliance alerts: %w", domain.ErrNotEntitled))
		return
	}

	today := h.Clock.Now()
	if q := r.URL.Query().Get("today"); q != "" {
		today, err = domain.ParseDate(q)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
	}

	docs, err := h.Repo.ListDocuments(ctx, sessionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	alerts, err := services.ComplianceAlertsWithWindow(docs, domain.InspectionRequiredDocuments(), today, h.WarningWindow)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	counts := map[domain.Severity]int{}
	for _, a := range alerts {
		counts[a.Severity]++
	}
	for sev, n := range counts {
		h.Metrics.AddAlerts(string(sev), n)
	}

	writeJSON(w, r, http.StatusOK, dto.FromAlerts(today, alerts))
}

func (h *DocumentHandler) inspectionDocs(w http.ResponseWriter, r *http.Request) ([]domain.DocumentRecord, bool) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "sessionID")

	ent, err := h.entitlements(ctx, sessionID)
	if err != nil {
		writeServiceError(w, r, err)
		return nil, false
	}
	if !ent.InspectionMode {
		writeServiceError(w, r, fmt.Errorf("inspection mode: %w", domain.ErrNotEntitled))
		return nil, false
	}

	docs, err := h.Repo.ListDocuments(ctx, sessionID)
	if err != nil {
		writeServiceError(w, r, err)
		return nil, false
	}
	return docs, true
}

func (h *DocumentHandler) Inspection(w http.ResponseWriter, r *http.Request) {
	docs, ok := h.inspectionDocs(w, r)
	if !ok {
		return
	}
	items := services.InspectionChecklist(docs, domain.InspectionRequiredDocuments())
	writeJSON(w, r, http.StatusOK, dto.FromChecklist(items))
}

func (h *DocumentHandler) Packet(w http.ResponseWriter, r *http.Request) {
	docs, ok := h.inspectionDocs(w, r)
	if !ok {
		return
	}
	packet := services.BuildInspectionPacket(docs, domain.InspectionRequiredDocuments(), h.Clock.Now())
	writeJSON(w, r, http.StatusOK, dto.FromPacket(packet))
}
