package services

import (
	"context"
	"dispatch-compliance-service/internal/domain"
	"dispatch-compliance-service/internal/platform/obs"
	"dispatch-compliance-service/internal/ports"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultExpiryExtension is applied when a user sets an expiry without a date.
const DefaultExpiryExtension = 90 * 24 * time.Hour

// seedExpiryWithoutOCR is the expiry given to seeded documents when extraction is off.
const seedExpiryWithoutOCR = 120 * 24 * time.Hour

type IngestDocumentRequest struct {
	FileName string
	// Category overrides the guessed category when set.
	Category domain.DocumentCategory
	// ExpiryDate overrides the extracted expiry when set.
	ExpiryDate *time.Time
	Source     domain.DocumentSource
}

// DocumentIngestor turns file names into DocumentRecords.
// Extraction runs only when the session's entitlements include auto-OCR.
type DocumentIngestor struct {
	Guesser   ports.CategoryGuesser
	Extractor ports.DocumentFieldExtractor
	Clock     ports.Clock
}

// Ingest classifies, optionally extracts, and stamps a new document record.
func (in *DocumentIngestor) Ingest(
	ctx context.Context,
	req IngestDocumentRequest,
	ent domain.Entitlements,
) (_ domain.DocumentRecord, err error) {
	defer obs.Time(ctx, "documents.Ingest")(&err)

	name := strings.TrimSpace(req.FileName)
	if name == "" {
		return domain.DocumentRecord{}, fmt.Errorf("ingest document: file name is empty: %w", domain.ErrInvalidInput)
	}

	category := req.Category
	if category == "" {
		if in.Guesser == nil {
			return domain.DocumentRecord{}, errors.New("ingest document: category guesser is nil")
		}
		category = in.Guesser.GuessCategory(name)
	}
	if !category.Valid() {
		return domain.DocumentRecord{}, fmt.Errorf("ingest document: category %q: %w", category, domain.ErrInvalidInput)
	}

	extracted := domain.ExtractedFields{
		Mode:  domain.ExtractionNone,
		Notes: "Upgrade to Pro for Auto-OCR extraction.",
	}
	var expiry *time.Time

	if ent.AutoOCR {
		if in.Extractor == nil {
			return domain.DocumentRecord{}, errors.New("ingest document: extractor is nil")
		}
		extracted, err = in.Extractor.Extract(ctx, name, category)
		if err != nil {
			return domain.DocumentRecord{}, fmt.Errorf("ingest document: extract %q: %w", name, err)
		}
		expiry = parseExtractedExpiry(extracted)
	}

	if req.ExpiryDate != nil {
		d := domain.DateOf(*req.ExpiryDate)
		expiry = &d
	}

	source := req.Source
	if source == "" {
		source = domain.SourceUpload
	}

	return domain.DocumentRecord{
		ID:          uuid.New(),
		Category:    category,
		DisplayName: name,
		ExpiryDate:  expiry,
		UploadedAt:  in.Clock.Now().Truncate(time.Second),
		Source:      source,
		Extracted:   extracted,
	}, nil
}

// An unparseable extracted expiry is treated as unknown, not as an error.
func parseExtractedExpiry(f domain.ExtractedFields) *time.Time {
	if f.ExpiryDate == "" {
		return nil
	}
	d, err := domain.ParseDate(f.ExpiryDate)
	if err != nil {
		return nil
	}
	return &d
}

var sampleDocuments = []struct {
	name     string
	category domain.DocumentCategory
}{
	{"CDL_driver_EXP_2027-01-01.pdf", domain.CategoryDriverLicense},
	{"MEDCARD_EXP_2026-02-01.pdf", domain.CategoryMedicalCard},
	{"INS_policy_EXP_2026-01-20.pdf", domain.CategoryInsurance},
	{"REG_trailer_EXP_2026-07-01.pdf", domain.CategoryRegistration},
	{"ELD_summary_EXP_2026-01-10.pdf", domain.CategoryELD},
}

// SeedSamples builds the demo document set. Without auto-OCR every sample
// expires 120 days from today.
func (in *DocumentIngestor) SeedSamples(ctx context.Context, ent domain.Entitlements) ([]domain.DocumentRecord, error) {
	out := make([]domain.DocumentRecord, 0, len(sampleDocuments))
	for _, s := range sampleDocuments {
		req := IngestDocumentRequest{
			FileName: s.name,
			Category: s.category,
			Source:   domain.SourceSeed,
		}
		if !ent.AutoOCR {
			exp := domain.DateOf(in.Clock.Now()).Add(seedExpiryWithoutOCR)
			req.ExpiryDate = &exp
		}

		doc, err := in.Ingest(ctx, req, ent)
		if err != nil {
			return nil, fmt.Errorf("seed samples: %w", err)
		}
		if !ent.AutoOCR {
			doc.Extracted = domain.ExtractedFields{Mode: domain.ExtractionNone}
		}
		out = append(out, doc)
	}
	return out, nil
}

// SetDocumentExpiry sets an explicit expiry, or today+90 days when expiry is nil.
func SetDocumentExpiry(
	ctx context.Context,
	repo ports.DocumentRepository,
	clock ports.Clock,
	sessionID string,
	id uuid.UUID,
	expiry *time.Time,
) (time.Time, error) {
	exp := domain.DateOf(clock.Now()).Add(DefaultExpiryExtension)
	if expiry != nil {
		exp = domain.DateOf(*expiry)
	}

	if err := repo.SetExpiry(ctx, sessionID, id, exp); err != nil {
		return time.Time{}, fmt.Errorf("set document expiry: document %s: %w", id, err)
	}
	return exp, nil
}
