package pipeline

import (
	"context"

	"go.uber.org/zap"

	"research-orchestrator/core/models"
)

// maxReferences caps how many source URLs are carried into the report's
// references section.
const maxReferences = 10

// CurateStage filters collected documents down to the ones worth briefing,
// using each document's evaluation score
type CurateStage struct {
	minScore float64
	log      *zap.Logger
}

// NewCurateStage creates the curation stage. Documents scoring below
// minScore are dropped; a malformed score counts as 0.
func NewCurateStage(minScore float64, log *zap.Logger) *CurateStage {
	if log == nil {
		log = zap.NewNop()
	}
	return &CurateStage{minScore: minScore, log: log}
}

// Name returns the stage name
func (s *CurateStage) Name() string {
	return "curate"
}

// Run writes the curated document set per category plus the reference list
func (s *CurateStage) Run(_ context.Context, st *State) Result {
	curated := make(map[models.Category][]models.Document)
	var refs []string

	for _, cat := range models.Categories {
		raw := st.Raw[cat]
		if len(raw) == 0 {
			continue
		}
		kept := make([]models.Document, 0, len(raw))
		for _, doc := range raw {
			if doc.Evaluation.Score() >= s.minScore {
				kept = append(kept, doc)
			}
		}
		curated[cat] = kept
		s.log.Info("curated documents",
			zap.String("category", string(cat)),
			zap.Int("kept", len(kept)),
			zap.Int("dropped", len(raw)-len(kept)),
		)
		for _, doc := range kept {
			if doc.URL == "" || len(refs) >= maxReferences {
				continue
			}
			refs = append(refs, doc.URL)
		}
	}

	return Success(Update{Curated: curated, References: refs})
}
