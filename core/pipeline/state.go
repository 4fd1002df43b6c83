package pipeline

import (
	"research-orchestrator/core/models"
)

// State is the shared workflow state for one pipeline run. It is owned
// exclusively by the engine driving it; stages receive it for reading and
// return their writes as an Update, which the engine merges back. Keys are a
// fixed schema rather than an open map so a missing or renamed key is a
// compile error.
type State struct {
	JobID      string
	Company    string
	Industry   string
	HQLocation string

	// Version counts applied updates.
	Version int

	// Raw holds collected documents per category, Curated the subset that
	// survived curation.
	Raw     map[models.Category][]models.Document
	Curated map[models.Category][]models.Document

	// References lists source URLs cited in the final report.
	References []string

	// CategoryBriefings has one entry per processed category, possibly
	// empty. Briefings holds successful categories only.
	CategoryBriefings map[models.Category]string
	Briefings         map[models.Category]string

	// Report is the compiled final report. EditorReport mirrors it under
	// the editor's own key.
	Report       string
	EditorReport string

	// Err carries the failure message of a halted run.
	Err string
}

// NewState builds the initial state for a run
func NewState(jobID string, req models.ResearchRequest) *State {
	return &State{
		JobID:             jobID,
		Company:           req.Company,
		Industry:          req.Industry,
		HQLocation:        req.HQLocation,
		Raw:               make(map[models.Category][]models.Document),
		Curated:           make(map[models.Category][]models.Document),
		CategoryBriefings: make(map[models.Category]string),
		Briefings:         make(map[models.Category]string),
	}
}

// Update is the partial write-set produced by one stage. Only set fields are
// merged; merging overwrites by key and never discards keys written by
// earlier stages.
type Update struct {
	Raw        map[models.Category][]models.Document
	Curated    map[models.Category][]models.Document
	References []string

	CategoryBriefings map[models.Category]string
	Briefings         map[models.Category]string

	Report       *string
	EditorReport *string
	Err          *string
}

// Apply merges the update into the state, overwriting by key
func (s *State) Apply(u Update) {
	for cat, docs := range u.Raw {
		s.Raw[cat] = docs
	}
	for cat, docs := range u.Curated {
		s.Curated[cat] = docs
	}
	if u.References != nil {
		s.References = u.References
	}
	for cat, text := range u.CategoryBriefings {
		s.CategoryBriefings[cat] = text
	}
	for cat, text := range u.Briefings {
		s.Briefings[cat] = text
	}
	if u.Report != nil {
		s.Report = *u.Report
	}
	if u.EditorReport != nil {
		s.EditorReport = *u.EditorReport
	}
	if u.Err != nil {
		s.Err = *u.Err
	}
	s.Version++
}

// ResolveReport returns the final report text under the documented
// precedence contract: the top-level report wins; the editor's copy is
// consulted only when the top-level one is empty.
func (s *State) ResolveReport() string {
	if s.Report != "" {
		return s.Report
	}
	return s.EditorReport
}

// companyOr returns the company name or a fallback for prompt context
func (s *State) companyOr(fallback string) string {
	if s.Company != "" {
		return s.Company
	}
	return fallback
}

// industryOr returns the industry or a fallback for prompt context
func (s *State) industryOr(fallback string) string {
	if s.Industry != "" {
		return s.Industry
	}
	return fallback
}

// hqOr returns the HQ location or a fallback for prompt context
func (s *State) hqOr(fallback string) string {
	if s.HQLocation != "" {
		return s.HQLocation
	}
	return fallback
}
