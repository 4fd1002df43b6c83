package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"research-orchestrator/core/events"
	"research-orchestrator/core/generation"
	"research-orchestrator/core/models"
)

// EditorStage compiles the per-category briefings into the final report in
// two passes: an initial compilation followed by a formatting sweep
type EditorStage struct {
	gen  generation.Client
	sink events.Sink
	log  *zap.Logger
}

// NewEditorStage creates the editor stage
func NewEditorStage(gen generation.Client, sink events.Sink, log *zap.Logger) *EditorStage {
	if log == nil {
		log = zap.NewNop()
	}
	return &EditorStage{gen: gen, sink: sink, log: log}
}

// Name returns the stage name
func (s *EditorStage) Name() string {
	return "editor"
}

// Run compiles the available briefings into the final report. A run with no
// briefings, or whose compilation yields no text, is a soft failure.
func (s *EditorStage) Run(ctx context.Context, st *State) Result {
	company := st.companyOr("Unknown Company")

	var sections []string
	for _, cat := range models.Categories {
		if text := st.CategoryBriefings[cat]; text != "" {
			sections = append(sections, text)
		}
	}
	if len(sections) == 0 {
		s.log.Error("no briefing sections available to compile")
		return SoftFailure(Update{}, softFailureMessage)
	}

	s.emit(st, models.EventStatusProcessing,
		fmt.Sprintf("Starting report compilation for %s", company),
		map[string]interface{}{"step": "Editor", "substep": "initialization"})

	combined := strings.Join(sections, "\n\n")

	s.emit(st, models.EventStatusProcessing, "Compiling initial research report",
		map[string]interface{}{"step": "Editor", "substep": "compilation"})
	draft := s.compile(ctx, st, company, combined)
	if draft == "" {
		s.log.Error("initial compilation produced no text")
		return SoftFailure(Update{}, softFailureMessage)
	}

	s.emit(st, models.EventStatusProcessing, "Formatting final report",
		map[string]interface{}{"step": "Editor", "substep": "format"})
	final := s.sweep(ctx, company, draft)
	if final == "" {
		s.log.Error("formatting sweep produced no text")
		return SoftFailure(Update{}, softFailureMessage)
	}

	report := final
	up := Update{Report: &report, EditorReport: &report}

	s.emit(st, models.EventStatusEditorComplete, "Research report completed",
		map[string]interface{}{
			"step":     "Editor",
			"report":   report,
			"company":  company,
			"is_final": true,
		})
	s.log.Info("report compiled", zap.Int("length", len(report)))

	return Success(up)
}

// compile produces the initial report draft. A generation error falls back
// to the concatenated briefings so already-produced work is not lost; an
// empty response does not.
func (s *EditorStage) compile(ctx context.Context, st *State, company, combined string) string {
	prompt := compilePrompt(company, st.industryOr("Unknown"), st.hqOr("Unknown"), combined)
	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		s.log.Error("report compilation failed, keeping raw briefings", zap.Error(err))
		text = combined
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if refs := referencesSection(st.References); refs != "" {
		text = text + "\n\n" + refs
	}
	return text
}

// sweep runs the formatting pass over the draft. A generation error keeps
// the draft; an empty response does not.
func (s *EditorStage) sweep(ctx context.Context, company, draft string) string {
	text, err := s.gen.Generate(ctx, sweepPrompt(company, draft))
	if err != nil {
		s.log.Error("formatting sweep failed, keeping draft", zap.Error(err))
		return draft
	}
	return strings.TrimSpace(text)
}

// referencesSection renders the cited source URLs as a markdown section
func referencesSection(refs []string) string {
	if len(refs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## References\n")
	for _, url := range refs {
		b.WriteString("* ")
		b.WriteString(url)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// emit publishes an editor progress event
func (s *EditorStage) emit(st *State, status models.EventStatus, message string, result map[string]interface{}) {
	if s.sink == nil {
		return
	}
	s.sink.Publish(models.StatusEvent{
		JobID:     st.JobID,
		Status:    status,
		Message:   message,
		Result:    result,
		Timestamp: time.Now(),
	})
}
