package ai

import (
	"fmt"
	"strings"
)

// IdeaSummary is the slice of an idea the prompts need.
type IdeaSummary struct {
	Title       string
	Description string
}

// GenerationInput is the student's brief for a generated project idea.
type GenerationInput struct {
	AreasOfInterest string
	DomainInterest  string
	LanguagesKnown  string
	AdditionalInfo  string
}

// BuildIdeaPrompt renders the generation instruction. Deterministic; output
// is the full prompt text sent to the model.
func BuildIdeaPrompt(input GenerationInput) string {
	additional := input.AdditionalInfo
	if additional == "" {
		additional = "None"
	}
	return fmt.Sprintf(`
Generate a unique project idea based on the following criteria:

Areas of Interest: %s
Domain Interest: %s
Programming Languages: %s
Additional Information: %s

The idea should be innovative, feasible for a student project, and include:
1. A clear title
2. A detailed description
3. Key features
4. Technical implementation details
5. Potential challenges

Format the response in Markdown.
`, input.AreasOfInterest, input.DomainInterest, input.LanguagesKnown, additional)
}

// BuildUniquenessPrompt embeds the new idea and the full text of every
// comparison idea, in the order given, and asks for the Similarity/Unique
// markers that ParseUniqueness looks for.
func BuildUniquenessPrompt(title, description string, existing []IdeaSummary) string {
	blocks := make([]string, 0, len(existing))
	for _, idea := range existing {
		blocks = append(blocks, fmt.Sprintf("Title: %s\nDescription: %s", idea.Title, idea.Description))
	}
	return fmt.Sprintf(`
I need to determine if a new project idea is sufficiently unique compared to existing ideas.

New idea:
Title: %s
Description: %s

Existing ideas:
%s

Analyze the similarity between the new idea and existing ideas.
First, provide a similarity percentage (0-100) representing how similar the new idea is to the most similar existing idea.
Then, determine if the new idea is sufficiently unique. Consider the core concept, implementation approach, and target domain.

Format your response exactly like this:
Similarity: X%%
Unique: yes/no
`, title, description, strings.Join(blocks, "\n\n"))
}

// BuildRankingPrompt numbers candidates [1..N] in input order. ParseRanking
// depends on exactly this numbering scheme.
func BuildRankingPrompt(idea IdeaSummary, candidates []IdeaSummary) string {
	blocks := make([]string, 0, len(candidates))
	for i, c := range candidates {
		blocks = append(blocks, fmt.Sprintf("[%d] Title: %s\nDescription: %s", i+1, c.Title, c.Description))
	}
	return fmt.Sprintf(`
I need to calculate similarity percentages between a project idea and several existing ideas.

New idea:
Title: %s
Description: %s

Existing ideas:
%s

For each existing idea [1] through [%d], provide a similarity percentage (0-100)
representing how similar the new idea is to that existing idea.

Format your response exactly like this:
[1]: X%%
[2]: Y%%
...and so on for each idea.
`, idea.Title, idea.Description, strings.Join(blocks, "\n\n"), len(candidates))
}
