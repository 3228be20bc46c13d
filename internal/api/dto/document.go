package dto

import (
	"dispatch-compliance-service/internal/domain"
	"dispatch-compliance-service/internal/services"
	"time"
)

// Declares a document by name without uploading its contents.
type DeclareDocumentRequest struct {
	FileName   string `json:"file_name"`
	Category   string `json:"category"`
	ExpiryDate string `json:"expiry_date"`
}

// An empty ExpiryDate sets the default extension from today.
type SetExpiryRequest struct {
	ExpiryDate string `json:"expiry_date"`
}

type DocumentResponse struct {
	ID          string                 `json:"id"`
	Category    string                 `json:"category"`
	DisplayName string                 `json:"display_name"`
	ExpiryDate  *string                `json:"expiry_date"`
	UploadedAt  time.Time              `json:"uploaded_at"`
	Source      string                 `json:"source"`
	Extracted   domain.ExtractedFields `json:"extracted"`
}

type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

type SetExpiryResponse struct {
	ID         string `json:"id"`
	ExpiryDate string `json:"expiry_date"`
}

type AlertResponse struct {
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
}

type ListAlertsResponse struct {
	Today  string          `json:"today"`
	Alerts []AlertResponse `json:"alerts"`
}

type ChecklistItemResponse struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Present  bool   `json:"present"`
}

type InspectionResponse struct {
	Checklist []ChecklistItemResponse `json:"checklist"`
}

type PacketEntryResponse struct {
	Category   string  `json:"category"`
	DocumentID *string `json:"document_id"`
	Name       *string `json:"name"`
}

type InspectionPacketResponse struct {
	Packet      []PacketEntryResponse `json:"packet"`
	GeneratedAt time.Time             `json:"generated_at"`
	Mode        string                `json:"mode"`
}

func FromDocument(d domain.DocumentRecord) DocumentResponse {
	out := DocumentResponse{
		ID:          d.ID.String(),
		Category:    string(d.Category),
		DisplayName: d.DisplayName,
		UploadedAt:  d.UploadedAt,
		Source:      string(d.Source),
		Extracted:   d.Extracted,
	}
	if d.ExpiryDate != nil {
		s := d.ExpiryDate.Format(domain.DateLayout)
		out.ExpiryDate = &s
	}
	return out
}

func FromDocuments(docs []domain.DocumentRecord) ListDocumentsResponse {
	out := ListDocumentsResponse{Documents: make([]DocumentResponse, 0, len(docs))}
	for _, d := range docs {
		out.Documents = append(out.Documents, FromDocument(d))
	}
	return out
}

func FromAlerts(today time.Time, alerts []domain.ComplianceAlert) ListAlertsResponse {
	out := ListAlertsResponse{
		Today:  domain.DateOf(today).Format(domain.DateLayout),
		Alerts: make([]AlertResponse, 0, len(alerts)),
	}
	for _, a := range alerts {
		out.Alerts = append(out.Alerts, AlertResponse{
			Severity: string(a.Severity),
			Title:    a.Title,
			Detail:   a.Detail,
		})
	}
	return out
}

func FromChecklist(items []services.ChecklistItem) InspectionResponse {
	out := InspectionResponse{Checklist: make([]ChecklistItemResponse, 0, len(items))}
	for _, it := range items {
		out.Checklist = append(out.Checklist, ChecklistItemResponse{
			Category: string(it.Category),
			Label:    it.Label,
			Present:  it.Present,
		})
	}
	return out
}

func FromPacket(p services.InspectionPacket) InspectionPacketResponse {
	out := InspectionPacketResponse{
		Packet:      make([]PacketEntryResponse, 0, len(p.Entries)),
		GeneratedAt: p.GeneratedAt,
		Mode:        p.Mode,
	}
	for _, e := range p.Entries {
		entry := PacketEntryResponse{Category: string(e.Category), Name: e.Name}
		if e.DocumentID != nil {
			id := e.DocumentID.String()
			entry.DocumentID = &id
		}
		out.Packet = append(out.Packet, entry)
	}
	return out
}
