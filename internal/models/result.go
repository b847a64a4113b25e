package models

// Identity names the plant the visual lookup settled on.
type Identity struct {
	Name           string `json:"name"`
	ScientificName string `json:"scientific_name"`
	ImageRef       string `json:"image_ref"`
}

// Health carries the pixel-heuristic assessment. Field names are part of
// the client contract and must not change.
type Health struct {
	Percentage int    `json:"health_percentage"`
	Sunlight   string `json:"sunlight_captured"`
	Issues     string `json:"issues"`
}

// Care holds static care-instruction text attached to an identification.
type Care struct {
	Water    string `json:"water"`
	Soil     string `json:"soil"`
	Humidity string `json:"humidity"`
}

// ShoppingLink points at an outbound supplies listing.
type ShoppingLink struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Result is the unit of value returned to the caller and stored in the
// cache. Immutable once composed.
type Result struct {
	ScanID   string         `json:"scan_id"`
	Identity Identity       `json:"identity"`
	Health   Health         `json:"health"`
	Care     Care           `json:"care"`
	Shopping []ShoppingLink `json:"shopping"`
}
