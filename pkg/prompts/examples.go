package prompts

import (
	"context"
	"fmt"

	"github.com/richard-senior/mcp-core/pkg/handler"
	"github.com/richard-senior/mcp-core/pkg/protocol"
)

// CodeReviewInput is adapted from the teacher's "code-review" sample
// prompt (pkg/prompts/registry.go's ensureSamplePrompts) into the typed
// argument shape this core requires.
type CodeReviewInput struct {
	Language string  `json:"language" desc:"Programming language of the code"`
	Code     string  `json:"code" desc:"The code to review"`
	Focus    *string `json:"focus,omitempty" desc:"Optional area to focus the review on, e.g. security"`
}

func CodeReviewPrompt() (Prompt, error) {
	return NewPrompt[CodeReviewInput]("code-review").
		Description("Review code for best practices, bugs, and improvements").
		Handler(func(_ context.Context, _ handler.State, in CodeReviewInput) ([]protocol.PromptMessage, error) {
			focus := "best practices, bugs, and performance"
			if in.Focus != nil && *in.Focus != "" {
				focus = *in.Focus
			}
			text := fmt.Sprintf(
				"Please review the following %s code, focusing on %s:\n\n```%s\n%s\n```",
				in.Language, focus, in.Language, in.Code,
			)
			return []protocol.PromptMessage{
				{Role: "user", Content: protocol.TextContent(text)},
			}, nil
		}).
		Build()
}

// ExplainConceptInput is adapted from the teacher's "explain-concept"
// sample prompt.
type ExplainConceptInput struct {
	Concept  string  `json:"concept" desc:"The technical concept to explain"`
	Audience *string `json:"audience,omitempty" desc:"Target audience, e.g. beginner or expert"`
}

func ExplainConceptPrompt() (Prompt, error) {
	return NewPrompt[ExplainConceptInput]("explain-concept").
		Description("Explain a technical concept in simple terms").
		Handler(func(_ context.Context, _ handler.State, in ExplainConceptInput) ([]protocol.PromptMessage, error) {
			audience := "a general audience"
			if in.Audience != nil && *in.Audience != "" {
				audience = *in.Audience
			}
			text := fmt.Sprintf(
				"Please explain %s in terms that %s would understand: what it is, why it matters, and how it works.",
				in.Concept, audience,
			)
			return []protocol.PromptMessage{
				{Role: "user", Content: protocol.TextContent(text)},
			}, nil
		}).
		Build()
}
