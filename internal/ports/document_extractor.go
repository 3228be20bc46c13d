package ports

import (
	"context"
	"dispatch-compliance-service/internal/domain"
)

// Contract for pulling structured fields out of an uploaded document.
type DocumentFieldExtractor interface {
	// Extract fields from the named file already classified as category.
	Extract(ctx context.Context, fileName string, category domain.DocumentCategory) (domain.ExtractedFields, error)
}

// Contract for classifying a document from its file name.
type CategoryGuesser interface {
	GuessCategory(fileName string) domain.DocumentCategory
}
