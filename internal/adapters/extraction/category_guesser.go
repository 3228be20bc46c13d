package extraction

import (
	"dispatch-compliance-service/internal/domain"
	"strings"
)

// Keyword rules checked in order; the first hit wins.
var categoryKeywords = []struct {
	category domain.DocumentCategory
	keywords []string
}{
	{domain.CategoryDriverLicense, []string{"CDL", "LICENSE"}},
	{domain.CategoryMedicalCard, []string{"MED", "CARD"}},
	{domain.CategoryRegistration, []string{"REG"}},
	{domain.CategoryInsurance, []string{"INS", "POLICY"}},
	{domain.CategoryELD, []string{"ELD", "HOS"}},
	{domain.CategoryBillOfLading, []string{"BOL", "BILL", "LADING"}},
	{domain.CategoryIFTA, []string{"IFTA"}},
	{domain.CategoryIRP, []string{"IRP"}},
	{domain.CategoryPermit, []string{"PERMIT"}},
	{domain.CategoryMaintenance, []string{"MAINT", "PM", "SERVICE"}},
}

// FilenameGuesser classifies documents by keywords in the file name.
type FilenameGuesser struct{}

func (FilenameGuesser) GuessCategory(fileName string) domain.DocumentCategory {
	name := strings.ToUpper(fileName)
	for _, rule := range categoryKeywords {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.category
			}
		}
	}
	return domain.CategoryOther
}
