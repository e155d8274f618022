package screening

import (
	"encoding/json"
	"os"
)

// Candidate is the anonymized view of one processed document. It deliberately
// has no field derived from PiiRecord; identity is reachable only through
// Registry.Reveal, which returns a RevealedCandidate.
type Candidate struct {
	Token   Token               `json:"-"`
	Alias   string              `json:"alias"`
	Profile ProfessionalProfile `json:"profile"`
}

// RevealedCandidate is the only PII-bearing view of a candidate. Values of
// this type exist only after an explicit reveal call.
type RevealedCandidate struct {
	Candidate
	Identity PiiRecord `json:"identity"`
}

// Candidates is a ranked list of anonymized candidates, best score first.
type Candidates struct {
	Items []*Candidate `json:"items"`
}

func (c *Candidates) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}

// FindByToken returns the candidate holding the given token, or nil.
func (c *Candidates) FindByToken(tok Token) *Candidate {
	if c == nil {
		return nil
	}
	for _, candidate := range c.Items {
		if candidate.Token == tok {
			return candidate
		}
	}
	return nil
}

// Aliases returns the candidate aliases in ranking order.
func (c *Candidates) Aliases() []string {
	aliases := make([]string, 0, c.Len())
	if c == nil {
		return aliases
	}
	for _, candidate := range c.Items {
		aliases = append(aliases, candidate.Alias)
	}
	return aliases
}

// DumpToTmpFile writes the anonymized candidate list to a temporary JSON file
// and returns its name. Tokens are excluded from the dump.
func (c *Candidates) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "candidates_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return "", err
	}
	return file.Name(), nil
}
