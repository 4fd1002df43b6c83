package pipeline

import (
	"sort"
	"strings"

	"research-orchestrator/core/models"
)

const (
	// defaultMaxDocLength caps the content taken from a single document.
	defaultMaxDocLength = 8000
	// defaultTotalBudget caps the combined size of all document entries in
	// one prompt.
	defaultTotalBudget = 120000

	truncationMarker = "... [content truncated]"
)

// docSeparator divides document entries inside a prompt body.
var docSeparator = "\n" + strings.Repeat("-", 40) + "\n"

// sortByScore returns the documents ordered by evaluation score, highest
// first. The sort is stable so equally scored documents keep their input
// order. A missing or malformed score sorts as 0.
func sortByScore(docs []models.Document) []models.Document {
	sorted := make([]models.Document, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Evaluation.Score() > sorted[j].Evaluation.Score()
	})
	return sorted
}

// buildPromptBody concatenates title and truncated content of the
// highest-scored documents until the total budget is reached. Documents past
// the budget are dropped entirely; higher-scored ones are always preferred.
func buildPromptBody(docs []models.Document, maxDocLength, totalBudget int) string {
	if maxDocLength <= 0 {
		maxDocLength = defaultMaxDocLength
	}
	if totalBudget <= 0 {
		totalBudget = defaultTotalBudget
	}

	var entries []string
	total := 0
	for _, doc := range sortByScore(docs) {
		content := doc.Body()
		if len(content) > maxDocLength {
			content = content[:maxDocLength] + truncationMarker
		}
		entry := "Title: " + doc.Title + "\n\nContent: " + content
		if total+len(entry) >= totalBudget {
			break
		}
		entries = append(entries, entry)
		total += len(entry)
	}
	return strings.Join(entries, docSeparator)
}
