package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"research-orchestrator/core/models"
)

// Retriever supplies collected documents per category for a research
// request. It is an external collaborator; the pipeline only depends on
// this interface.
type Retriever interface {
	Collect(ctx context.Context, req models.ResearchRequest) (map[models.Category][]models.Document, error)
}

// CollectStage gathers source documents for every category
type CollectStage struct {
	retriever Retriever
	log       *zap.Logger
}

// NewCollectStage creates the collection stage
func NewCollectStage(retriever Retriever, log *zap.Logger) *CollectStage {
	if log == nil {
		log = zap.NewNop()
	}
	return &CollectStage{retriever: retriever, log: log}
}

// Name returns the stage name
func (s *CollectStage) Name() string {
	return "collect"
}

// Run gathers documents for the company. An error from the retriever is a
// hard failure: downstream stages cannot run without source material.
func (s *CollectStage) Run(ctx context.Context, st *State) Result {
	req := models.ResearchRequest{
		Company:    st.Company,
		Industry:   st.Industry,
		HQLocation: st.HQLocation,
	}
	docs, err := s.retriever.Collect(ctx, req)
	if err != nil {
		return HardFailure(eris.Wrap(err, "collect: gather documents"))
	}

	total := 0
	for cat, list := range docs {
		total += len(list)
		s.log.Info("collected documents",
			zap.String("category", string(cat)),
			zap.Int("count", len(list)),
		)
	}
	if total == 0 {
		s.log.Warn("no documents collected for any category", zap.String("company", st.Company))
	}

	return Success(Update{Raw: docs})
}
