package services

import (
	"dispatch-compliance-service/internal/domain"
	"fmt"
	"slices"
	"time"
)

// DefaultWarningWindow is how far ahead of expiry a MED alert is raised.
const DefaultWarningWindow = 30 * 24 * time.Hour

// ComplianceAlerts derives alerts from a document snapshot using the default 30-day window.
func ComplianceAlerts(
	docs []domain.DocumentRecord,
	required []domain.RequiredDocument,
	today time.Time,
) ([]domain.ComplianceAlert, error) {
	return ComplianceAlertsWithWindow(docs, required, today, DefaultWarningWindow)
}

// ComplianceAlertsWithWindow derives alerts for missing required documents,
// expired documents and documents expiring within window of today.
//
// Missing-document alerts come first in required-table order, then expiry
// alerts in document order; a stable sort by severity rank interleaves them.
// Documents without an expiry never produce an alert.
//
// today is truncated to its calendar date; the generator never reads the clock.
func ComplianceAlertsWithWindow(
	docs []domain.DocumentRecord,
	required []domain.RequiredDocument,
	today time.Time,
	window time.Duration,
) ([]domain.ComplianceAlert, error) {
	if window < 0 {
		return nil, fmt.Errorf("compliance alerts: negative warning window %s: %w", window, domain.ErrInvalidInput)
	}

	present := make(map[domain.DocumentCategory]struct{}, len(docs))
	for _, d := range docs {
		if !d.Category.Valid() {
			return nil, fmt.Errorf("compliance alerts: document %s has category %q: %w", d.ID, d.Category, domain.ErrInvalidInput)
		}
		present[d.Category] = struct{}{}
	}

	alerts := []domain.ComplianceAlert{}

	for _, r := range required {
		if _, ok := present[r.Category]; ok {
			continue
		}
		alerts = append(alerts, domain.ComplianceAlert{
			Severity: domain.SeverityHigh,
			Title:    "Missing inspection doc",
			Detail:   fmt.Sprintf("%s (%s) not found.", r.Label, r.Category),
		})
	}

	day := domain.DateOf(today)
	horizon := day.Add(window)

	for _, d := range docs {
		if d.ExpiryDate == nil {
			continue
		}
		exp := domain.DateOf(*d.ExpiryDate)

		switch {
		case exp.Before(day):
			alerts = append(alerts, domain.ComplianceAlert{
				Severity: domain.SeverityHigh,
				Title:    "Document expired",
				Detail:   fmt.Sprintf("%s: %s expired on %s.", d.Category, d.DisplayName, exp.Format(domain.DateLayout)),
			})
		case !exp.After(horizon):
			alerts = append(alerts, domain.ComplianceAlert{
				Severity: domain.SeverityMed,
				Title:    "Document expiring soon",
				Detail:   fmt.Sprintf("%s: %s expires %s.", d.Category, d.DisplayName, exp.Format(domain.DateLayout)),
			})
		}
	}

	slices.SortStableFunc(alerts, func(a, b domain.ComplianceAlert) int {
		return a.Severity.Rank() - b.Severity.Rank()
	})

	return alerts, nil
}
