package models

import "strconv"

// Category identifies one independent research track
type Category string

const (
	CategoryFinancial Category = "financial"
	CategoryNews      Category = "news"
	CategoryIndustry  Category = "industry"
	CategoryCompany   Category = "company"
)

// Categories lists all research categories in their fixed processing order
var Categories = []Category{
	CategoryFinancial,
	CategoryNews,
	CategoryIndustry,
	CategoryCompany,
}

// DataKey returns the state key for the category's collected documents
func (c Category) DataKey() string {
	return string(c) + "_data"
}

// BriefingKey returns the state key holding the category's briefing text
func (c Category) BriefingKey() string {
	return string(c) + "_briefing"
}

// Document is a retrieved source document for one category
type Document struct {
	URL        string     `json:"url"`
	Title      string     `json:"title"`
	Content    string     `json:"content,omitempty"`
	RawContent string     `json:"raw_content,omitempty"`
	Evaluation Evaluation `json:"evaluation,omitempty"`
}

// Body returns the document text, preferring raw content when present
func (d Document) Body() string {
	if d.RawContent != "" {
		return d.RawContent
	}
	return d.Content
}

// Evaluation carries the curation verdict for a document. The score arrives
// from external collaborators and is not trusted to be numeric.
type Evaluation struct {
	OverallScore interface{} `json:"overall_score,omitempty"`
}

// Score coerces the overall score to a float64, defaulting to 0 for a
// missing or malformed value
func (e Evaluation) Score() float64 {
	switch v := e.OverallScore.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
