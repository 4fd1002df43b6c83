package pipeline

import (
	"fmt"

	"research-orchestrator/core/models"
)

// briefingPrompt builds the generation prompt for one category briefing
func briefingPrompt(cat models.Category, company, industry, hq, body string) string {
	var instructions string
	switch cat {
	case models.CategoryCompany:
		instructions = fmt.Sprintf(`Create a comprehensive company briefing for %s, a %s company based in %s.
Cover products and services, technology stack, leadership, target market and key differentiators.
Use markdown headers and bullet points. Each bullet must be a single verified fact.
Provide only the briefing, no explanations or commentary.`, company, industry, hq)
	case models.CategoryIndustry:
		instructions = fmt.Sprintf(`Create a focused industry briefing for %s, a %s company based in %s.
Cover market overview, direct competition, competitive advantages and market challenges.
Use markdown headers and bullet points. Provide only the briefing, no explanation.`, company, industry, hq)
	case models.CategoryFinancial:
		instructions = fmt.Sprintf(`Create a focused financial briefing for %s, a %s company based in %s.
Cover funding and investment, financial performance and market valuation, with specific
numbers and dates when available. Use bullet points only. Provide only the briefing.`, company, industry, hq)
	case models.CategoryNews:
		instructions = fmt.Sprintf(`Create a focused news briefing for %s, a %s company based in %s.
Group announcements, partnerships and business milestones, newest first, one event per
bullet point. Provide only the briefing, no commentary.`, company, industry, hq)
	default:
		instructions = fmt.Sprintf(`Create a focused, informative research briefing on the company %s
in the %s industry based on the provided documents.`, company, industry)
	}

	return fmt.Sprintf(`%s

Analyze the following documents and extract key information. Provide only the briefing, no explanations or commentary:

%s%s%s
`, instructions, docSeparator, body, docSeparator)
}

// compilePrompt builds the generation prompt for the initial report draft
func compilePrompt(company, industry, hq, combined string) string {
	return fmt.Sprintf(`You are compiling a comprehensive research report about %s.

Compiled briefings:
%s

Create a comprehensive and focused report on %s, a %s company headquartered in %s that:
1. Integrates information from all sections into a cohesive non-repetitive narrative
2. Maintains important details from each section
3. Logically organizes information and removes transitional commentary
4. Uses clear section headers and structure

Return the report in clean markdown format. No explanations or commentary.`,
		company, combined, company, industry, hq)
}

// sweepPrompt builds the generation prompt for the final formatting pass
func sweepPrompt(company, content string) string {
	return fmt.Sprintf(`You are an expert briefing editor. You are given a report on %s.

Current report:
%s

Remove redundant information, organize the content under an executive summary followed
by clearly separated chapters, and keep any references section exactly as provided.
Maintain factual accuracy and do not invent information.

Return the polished report in clean markdown format. No explanations or commentary.`,
		company, content)
}
