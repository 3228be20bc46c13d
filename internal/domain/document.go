package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Closed enumeration of document categories.
type DocumentCategory string

const (
	CategoryDriverLicense DocumentCategory = "CDL"
	CategoryMedicalCard   DocumentCategory = "MEDCARD"
	CategoryRegistration  DocumentCategory = "REG"
	CategoryInsurance     DocumentCategory = "INS"
	CategoryELD           DocumentCategory = "ELD"
	CategoryBillOfLading  DocumentCategory = "BOL"
	CategoryIFTA          DocumentCategory = "IFTA"
	CategoryIRP           DocumentCategory = "IRP"
	CategoryPermit        DocumentCategory = "PERMIT"
	CategoryMaintenance   DocumentCategory = "MAINT"
	CategoryOther         DocumentCategory = "OTHER"
)

var documentCategories = []DocumentCategory{
	CategoryDriverLicense,
	CategoryMedicalCard,
	CategoryRegistration,
	CategoryInsurance,
	CategoryELD,
	CategoryBillOfLading,
	CategoryIFTA,
	CategoryIRP,
	CategoryPermit,
	CategoryMaintenance,
	CategoryOther,
}

// DocumentCategories returns every category in display order.
func DocumentCategories() []DocumentCategory {
	out := make([]DocumentCategory, len(documentCategories))
	copy(out, documentCategories)
	return out
}

func (c DocumentCategory) Valid() bool {
	for _, known := range documentCategories {
		if c == known {
			return true
		}
	}
	return false
}

func (c DocumentCategory) String() string { return string(c) }

// ParseDocumentCategory accepts a category code case-insensitively.
func ParseDocumentCategory(s string) (DocumentCategory, error) {
	c := DocumentCategory(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("parse document category %q: %w", s, ErrInvalidInput)
	}
	return c, nil
}

// How a document record entered the session.
type DocumentSource string

const (
	SourceUpload DocumentSource = "upload"
	SourceSeed   DocumentSource = "seed"
	SourceManual DocumentSource = "manual"
)

// Extraction modes recorded on ExtractedFields.
const (
	ExtractionSimulatedOCR = "SIMULATED_OCR"
	ExtractionNone         = "NONE"
)

// Fields produced by a DocumentFieldExtractor.
// ExpiryDate is the raw YYYY-MM-DD text; parsing it is the ingestion service's job.
type ExtractedFields struct {
	Mode            string            `json:"_extraction_mode"`
	Category        DocumentCategory  `json:"doc_category,omitempty"`
	DocID           string            `json:"doc_id,omitempty"`
	HolderOrCompany string            `json:"holder_or_company,omitempty"`
	ExpiryDate      string            `json:"expiry_date,omitempty"`
	Confidence      float64           `json:"confidence,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	Hints           map[string]string `json:"hints,omitempty"`
}

// One uploaded or declared document owned by a single session.
// A nil ExpiryDate means the expiry is unknown or not tracked.
type DocumentRecord struct {
	ID          uuid.UUID
	Category    DocumentCategory
	DisplayName string
	ExpiryDate  *time.Time
	UploadedAt  time.Time
	Source      DocumentSource
	Extracted   ExtractedFields
}

// Clone returns a deep copy so callers can hand snapshots to evaluators.
func (d DocumentRecord) Clone() DocumentRecord {
	out := d
	if d.ExpiryDate != nil {
		exp := *d.ExpiryDate
		out.ExpiryDate = &exp
	}
	if d.Extracted.Hints != nil {
		out.Extracted.Hints = make(map[string]string, len(d.Extracted.Hints))
		for k, v := range d.Extracted.Hints {
			out.Extracted.Hints[k] = v
		}
	}
	return out
}

// A category that must be present for an inspection, with its display label.
type RequiredDocument struct {
	Category DocumentCategory
	Label    string
}

// InspectionRequiredDocuments lists the documents expected in inspection mode, in table order.
func InspectionRequiredDocuments() []RequiredDocument {
	return []RequiredDocument{
		{Category: CategoryDriverLicense, Label: "Driver License"},
		{Category: CategoryMedicalCard, Label: "Medical Card"},
		{Category: CategoryRegistration, Label: "Registration"},
		{Category: CategoryInsurance, Label: "Insurance"},
		{Category: CategoryELD, Label: "ELD Logs / Summary"},
		{Category: CategoryBillOfLading, Label: "Bill of Lading (current load)"},
	}
}
