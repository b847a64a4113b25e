package lookup

// Link is an outbound shopping link taken from a visual match.
type Link struct {
	Title string
	URL   string
}

// CareText is the static care guidance attached to every identification.
// The values are fixed strings, not derived from the lookup.
type CareText struct {
	Water    string
	Soil     string
	Humidity string
}

// Candidate is the identity the provider settled on for an image.
type Candidate struct {
	Name           string
	ScientificName string
	ImageRef       string
	Shopping       []Link
	Care           CareText
}

type visualMatch struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Source    string `json:"source"`
	Thumbnail string `json:"thumbnail"`
}

type knowledgeEntry struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

type lensResponse struct {
	VisualMatches  []visualMatch    `json:"visual_matches"`
	KnowledgeGraph []knowledgeEntry `json:"knowledge_graph"`
}
