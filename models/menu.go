package models

// MenuItem is a read-only copy of a menu entry owned by the remote API.
type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Available   bool    `json:"available"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// AvailableOnly filters the buyer view; sellers see the full list.
func AvailableOnly(items []MenuItem) []MenuItem {
	var out []MenuItem
	for _, it := range items {
		if it.Available {
			out = append(out, it)
		}
	}
	return out
}
