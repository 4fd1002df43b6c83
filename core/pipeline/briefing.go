package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"research-orchestrator/core/events"
	"research-orchestrator/core/generation"
	"research-orchestrator/core/limiter"
	"research-orchestrator/core/models"
)

// BriefingStage generates one briefing per category with non-empty curated
// input, running categories concurrently under the limiter's cap. A single
// category's failure is absorbed as an empty briefing and never cancels its
// siblings.
type BriefingStage struct {
	gen          generation.Client
	limiter      *limiter.Limiter
	sink         events.Sink
	log          *zap.Logger
	maxDocLength int
	totalBudget  int
}

// NewBriefingStage creates the briefing stage
func NewBriefingStage(gen generation.Client, lim *limiter.Limiter, sink events.Sink, log *zap.Logger) *BriefingStage {
	if log == nil {
		log = zap.NewNop()
	}
	return &BriefingStage{
		gen:          gen,
		limiter:      lim,
		sink:         sink,
		log:          log,
		maxDocLength: defaultMaxDocLength,
		totalBudget:  defaultTotalBudget,
	}
}

// Name returns the stage name
func (s *BriefingStage) Name() string {
	return "briefing"
}

// Run fans out per-category briefing generation. Categories without curated
// documents are skipped: their briefing key is set to "" without calling the
// generation service.
func (s *BriefingStage) Run(ctx context.Context, st *State) Result {
	up := Update{
		CategoryBriefings: make(map[models.Category]string),
		Briefings:         make(map[models.Category]string),
	}

	// Settle skipped categories first so the maps are never written from
	// both the fan-out goroutines and this goroutine at once.
	var active []models.Category
	for _, cat := range models.Categories {
		if len(st.Curated[cat]) == 0 {
			s.log.Info("no curated documents, skipping briefing", zap.String("category", string(cat)))
			up.CategoryBriefings[cat] = ""
			continue
		}
		active = append(active, cat)
	}

	var mu sync.Mutex
	g := new(errgroup.Group)

	for _, cat := range active {
		cat, docs := cat, st.Curated[cat]
		g.Go(func() error {
			content := s.generateBriefing(ctx, st, cat, docs)
			mu.Lock()
			up.CategoryBriefings[cat] = content
			if content != "" {
				up.Briefings[cat] = content
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	s.log.Info("briefing stage finished",
		zap.Int("succeeded", len(up.Briefings)),
		zap.Int("attempted", len(active)),
	)

	return Success(up)
}

// generateBriefing produces one category briefing. All failures are absorbed
// and returned as an empty string.
func (s *BriefingStage) generateBriefing(ctx context.Context, st *State, cat models.Category, docs []models.Document) string {
	if err := s.limiter.Acquire(ctx); err != nil {
		s.log.Error("limiter acquire failed", zap.String("category", string(cat)), zap.Error(err))
		return ""
	}
	defer s.limiter.Release()

	s.emit(st.JobID, models.EventStatusBriefingStart,
		fmt.Sprintf("Generating %s briefing", cat),
		map[string]interface{}{
			"step":       "Briefing",
			"category":   string(cat),
			"total_docs": len(docs),
		})

	body := buildPromptBody(docs, s.maxDocLength, s.totalBudget)
	prompt := briefingPrompt(cat,
		st.companyOr("Unknown Company"),
		st.industryOr("Unknown"),
		st.hqOr("Unknown"),
		body)

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		s.log.Error("briefing generation failed",
			zap.String("category", string(cat)),
			zap.Error(err),
		)
		return ""
	}
	text = strings.TrimSpace(text)
	if text == "" {
		s.log.Error("empty briefing from generation service", zap.String("category", string(cat)))
		return ""
	}

	s.emit(st.JobID, models.EventStatusBriefingComplete,
		fmt.Sprintf("Completed %s briefing", cat),
		map[string]interface{}{
			"step":     "Briefing",
			"category": string(cat),
		})
	return text
}

// emit publishes a briefing progress event
func (s *BriefingStage) emit(jobID string, status models.EventStatus, message string, result map[string]interface{}) {
	if s.sink == nil {
		return
	}
	s.sink.Publish(models.StatusEvent{
		JobID:     jobID,
		Status:    status,
		Message:   message,
		Result:    result,
		Timestamp: time.Now(),
	})
}
