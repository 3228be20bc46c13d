package services

import (
	"dispatch-compliance-service/internal/domain"
	"time"

	"github.com/google/uuid"
)

// One line of the inspection checklist.
type ChecklistItem struct {
	Category domain.DocumentCategory
	Label    string
	Present  bool
}

// InspectionChecklist reports, per required document in table order, whether
// the session holds at least one document of that category.
func InspectionChecklist(docs []domain.DocumentRecord, required []domain.RequiredDocument) []ChecklistItem {
	present := make(map[domain.DocumentCategory]struct{}, len(docs))
	for _, d := range docs {
		present[d.Category] = struct{}{}
	}

	items := make([]ChecklistItem, 0, len(required))
	for _, r := range required {
		_, ok := present[r.Category]
		items = append(items, ChecklistItem{Category: r.Category, Label: r.Label, Present: ok})
	}
	return items
}

// A packet slot; DocumentID and Name are nil when the category is missing.
type PacketEntry struct {
	Category   domain.DocumentCategory
	DocumentID *uuid.UUID
	Name       *string
}

type InspectionPacket struct {
	Entries     []PacketEntry
	GeneratedAt time.Time
	Mode        string
}

// InspectionPacketMode marks packets produced without a real document store.
const InspectionPacketMode = "PROTOTYPE"

// BuildInspectionPacket picks, for each required category, the most recently
// added matching document. Later entries in docs win.
func BuildInspectionPacket(docs []domain.DocumentRecord, required []domain.RequiredDocument, now time.Time) InspectionPacket {
	entries := make([]PacketEntry, 0, len(required))
	for _, r := range required {
		entry := PacketEntry{Category: r.Category}
		for i := len(docs) - 1; i >= 0; i-- {
			if docs[i].Category != r.Category {
				continue
			}
			id := docs[i].ID
			name := docs[i].DisplayName
			entry.DocumentID = &id
			entry.Name = &name
			break
		}
		entries = append(entries, entry)
	}

	return InspectionPacket{
		Entries:     entries,
		GeneratedAt: now,
		Mode:        InspectionPacketMode,
	}
}
