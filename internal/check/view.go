package check

import (
	"time"

	"cardquant-backend/internal/models"
)

// View: oturumun dışarıya verilen anlık görüntüsü
type View struct {
	State         State                  `json:"state"`
	Outcome       State                  `json:"outcome,omitempty"`
	StartedAt     time.Time              `json:"startedAt"`
	Items         []models.CheckItem     `json:"items"`
	Checked       int                    `json:"checked"`
	Total         int                    `json:"total"`
	Result        *models.InventoryCheck `json:"result,omitempty"`
	Discrepancies []models.Discrepancy   `json:"discrepancies,omitempty"`
}

func (s *Session) View() View {
	checked, total := s.Progress()
	v := View{
		State:         s.state,
		Outcome:       s.outcome,
		StartedAt:     s.startedAt,
		Items:         s.Items(),
		Checked:       checked,
		Total:         total,
		Discrepancies: s.Discrepancies(),
	}
	if s.result != nil {
		r := *s.result
		v.Result = &r
	}
	return v
}

// FindCheck: geçmiş sayımlar içinde ID ile arama
func FindCheck(checks []models.InventoryCheck, id string) (models.InventoryCheck, bool) {
	for _, c := range checks {
		if c.ID == id {
			return c, true
		}
	}
	return models.InventoryCheck{}, false
}
