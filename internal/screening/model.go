package screening

// Token is an opaque capability over one PiiRecord held by the vault. It has
// no structural relationship to the PII it denotes.
type Token string

// JobProfile is produced once from a job description and read-only afterward.
type JobProfile struct {
	Title          string   `json:"title"`
	RequiredSkills []string `json:"required_skills"`
	Experience     string   `json:"experience"`
	Qualification  string   `json:"qualification"`
}

// PiiRecord is the personally-identifying data for one candidate. It is owned
// by the vault and reachable from selection code only through an explicit
// reveal.
type PiiRecord struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	DocumentID string `json:"document_id"`
}

// ProfessionalProfile carries the PII-free attributes used for ranking.
type ProfessionalProfile struct {
	Skills    []string `json:"skills"`
	Summary   string   `json:"summary"`
	Score     int      `json:"score"`
	Rationale string   `json:"rationale"`
}

// Document is one raw input of a batch after text extraction from its file.
type Document struct {
	ID   string
	Name string
	Text string
}
