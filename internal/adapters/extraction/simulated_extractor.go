package extraction

import (
	"context"
	"dispatch-compliance-service/internal/domain"
	"dispatch-compliance-service/internal/ports"
	"hash/fnv"
	"math"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var expiryPattern = regexp.MustCompile(`(?:EXP|EXPIRES|EXPIRY|EXPDATE)[-_ ]?(\d{4}-\d{2}-\d{2})`)

// Default expiry horizons used when a file name carries no expiry.
var defaultHorizons = map[domain.DocumentCategory]int{
	domain.CategoryDriverLicense: 365 * 2,
	domain.CategoryMedicalCard:   365,
	domain.CategoryRegistration:  365,
	domain.CategoryInsurance:     365,
	domain.CategoryELD:           30,
	domain.CategoryBillOfLading:  7,
}

const fallbackHorizonDays = 180

// SimulatedExtractor fakes OCR by reading an expiry out of the file name and
// filling plausible fields. Replace with a real OCR pipeline behind the same port.
type SimulatedExtractor struct {
	Clock ports.Clock
}

func NewSimulatedExtractor(clock ports.Clock) *SimulatedExtractor {
	return &SimulatedExtractor{Clock: clock}
}

func (s *SimulatedExtractor) Extract(
	ctx context.Context,
	fileName string,
	category domain.DocumentCategory,
) (domain.ExtractedFields, error) {
	if err := ctx.Err(); err != nil {
		return domain.ExtractedFields{}, err
	}

	base := filepath.Base(fileName)

	expiry, ok := expiryFromName(base)
	if !ok {
		days, known := defaultHorizons[category]
		if !known {
			days = fallbackHorizonDays
		}
		expiry = domain.DateOf(s.Clock.Now()).AddDate(0, 0, days)
	}

	fields := domain.ExtractedFields{
		Mode:            domain.ExtractionSimulatedOCR,
		Category:        category,
		DocID:           uuid.NewString()[:8],
		HolderOrCompany: "ACME Trucking LLC",
		ExpiryDate:      expiry.Format(domain.DateLayout),
		Confidence:      confidenceFor(base),
		Notes:           "Simulated extraction; swap in a real OCR provider.",
	}

	switch category {
	case domain.CategoryDriverLicense:
		fields.Hints = map[string]string{"license_state": "IL", "class": "A"}
	case domain.CategoryMedicalCard:
		fields.Hints = map[string]string{"medical_examiner": "Dr. Example"}
	case domain.CategoryBillOfLading:
		fields.Hints = map[string]string{"shipper": "Example Shipper", "consignee": "Example Receiver"}
	}

	return fields, nil
}

func expiryFromName(base string) (time.Time, bool) {
	m := expiryPattern.FindStringSubmatch(strings.ToUpper(base))
	if m == nil {
		return time.Time{}, false
	}
	d, err := domain.ParseDate(m[1])
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// confidenceFor maps the name to a stable pseudo-confidence in [0.72, 0.91].
func confidenceFor(base string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(base))
	v := 0.72 + float64(h.Sum32()%20)/100
	return math.Round(v*100) / 100
}
