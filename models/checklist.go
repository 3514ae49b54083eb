package models

type ChecklistItem struct {
	Category string `json:"category" bson:"category"`
	Name     string `json:"name" bson:"name"`
	Checked  bool   `json:"checked" bson:"checked"`
}

// Checklists maps each trip member to their own packing list.
type Checklists map[string][]ChecklistItem

// DefaultChecklist is used when nothing has been stored yet.
func DefaultChecklist() []ChecklistItem {
	return []ChecklistItem{
		{Category: "documents", Name: "passport"},
		{Category: "documents", Name: "ESTA approval"},
		{Category: "documents", Name: "international driving permit"},
		{Category: "documents", Name: "driver's license"},
		{Category: "documents", Name: "travel insurance"},
		{Category: "electronics", Name: "phone charger"},
		{Category: "electronics", Name: "power adapter"},
		{Category: "electronics", Name: "car phone mount"},
		{Category: "clothing", Name: "jacket"},
		{Category: "clothing", Name: "walking shoes"},
		{Category: "toiletries", Name: "sunscreen"},
		{Category: "toiletries", Name: "sunglasses"},
		{Category: "medicine", Name: "motion sickness pills"},
		{Category: "medicine", Name: "basic medicine kit"},
	}
}
