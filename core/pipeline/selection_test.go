package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-orchestrator/core/models"
)

func doc(title, content string, score interface{}) models.Document {
	return models.Document{
		Title:      title,
		Content:    content,
		Evaluation: models.Evaluation{OverallScore: score},
	}
}

func TestSortByScoreDescending(t *testing.T) {
	docs := []models.Document{
		doc("low", "a", 0.2),
		doc("high", "b", 0.9),
		doc("mid", "c", 0.5),
	}
	sorted := sortByScore(docs)
	assert.Equal(t, "high", sorted[0].Title)
	assert.Equal(t, "mid", sorted[1].Title)
	assert.Equal(t, "low", sorted[2].Title)

	// Input order is untouched.
	assert.Equal(t, "low", docs[0].Title)
}

func TestSortByScoreStableForTies(t *testing.T) {
	docs := []models.Document{
		doc("first", "a", 0.5),
		doc("second", "b", 0.5),
		doc("third", "c", 0.5),
	}
	sorted := sortByScore(docs)
	assert.Equal(t, "first", sorted[0].Title)
	assert.Equal(t, "second", sorted[1].Title)
	assert.Equal(t, "third", sorted[2].Title)
}

func TestSortByScoreMalformedScores(t *testing.T) {
	docs := []models.Document{
		doc("missing", "a", nil),
		doc("garbage", "b", "not-a-number"),
		doc("numeric string", "c", "0.7"),
		doc("numeric", "d", 0.3),
	}
	require.NotPanics(t, func() { sortByScore(docs) })
	sorted := sortByScore(docs)
	assert.Equal(t, "numeric string", sorted[0].Title)
	assert.Equal(t, "numeric", sorted[1].Title)
	// Defaulted-to-zero docs keep their relative order.
	assert.Equal(t, "missing", sorted[2].Title)
	assert.Equal(t, "garbage", sorted[3].Title)
}

func TestBuildPromptBodyTruncatesLongDocuments(t *testing.T) {
	long := strings.Repeat("x", 9000)
	body := buildPromptBody([]models.Document{doc("big", long, 1.0)}, 0, 0)

	assert.Contains(t, body, truncationMarker)
	assert.Less(t, len(body), 9000)
}

func TestBuildPromptBodyRespectsTotalBudget(t *testing.T) {
	content := strings.Repeat("y", 400)
	docs := []models.Document{
		doc("best", content, 0.9),
		doc("good", content, 0.8),
		doc("worst", content, 0.1),
	}
	// Budget fits roughly two entries.
	body := buildPromptBody(docs, 8000, 1000)

	assert.Contains(t, body, "best")
	assert.Contains(t, body, "good")
	assert.NotContains(t, body, "worst")
}

func TestBuildPromptBodyPrefersRawContent(t *testing.T) {
	d := models.Document{
		Title:      "paper",
		Content:    "summary only",
		RawContent: "full raw text",
	}
	body := buildPromptBody([]models.Document{d}, 0, 0)
	assert.Contains(t, body, "full raw text")
	assert.NotContains(t, body, "summary only")
}

func TestBuildPromptBodyEmptyInput(t *testing.T) {
	assert.Equal(t, "", buildPromptBody(nil, 0, 0))
}
