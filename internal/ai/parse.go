package ai

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	similarityPattern = regexp.MustCompile(`(?i)Similarity:\s*(\d+)%`)
	uniquePattern     = regexp.MustCompile(`(?i)Unique:\s*(yes|no)`)
)

// UniquenessSignal is the structured result extracted from a free-form
// uniqueness reply.
type UniquenessSignal struct {
	SimilarityScore int
	IsUnique        bool
}

// ParseUniqueness extracts the Similarity/Unique markers from anywhere in
// the reply. Parse misses are not errors: a missing similarity marker
// defaults to 50 and a missing unique marker defaults to not-unique, so the
// pipeline degrades silently instead of failing on model formatting drift.
func ParseUniqueness(text string) UniquenessSignal {
	signal := UniquenessSignal{SimilarityScore: 50, IsUnique: false}
	if m := similarityPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			signal.SimilarityScore = n
		}
	}
	if m := uniquePattern.FindStringSubmatch(text); m != nil {
		signal.IsUnique = strings.EqualFold(m[1], "yes")
	}
	return signal
}

// RankedIdea is one scored candidate from a ranking reply.
type RankedIdea struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Similarity int       `json:"similarity"`
}

// Candidate pairs a prompt index with the idea it referred to. Order must
// match the order handed to BuildRankingPrompt.
type Candidate struct {
	ID    uuid.UUID
	Title string
}

// ParseRanking looks for a "[i]: N%" line per candidate. Candidates the
// model skipped are omitted, not defaulted, so the result may be shorter
// than the candidate list. Output preserves prompt order.
func ParseRanking(text string, candidates []Candidate) []RankedIdea {
	results := make([]RankedIdea, 0, len(candidates))
	for i, c := range candidates {
		pattern := regexp.MustCompile(fmt.Sprintf(`(?i)\[%d\]:\s*(\d+)%%`, i+1))
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		results = append(results, RankedIdea{ID: c.ID, Title: c.Title, Similarity: n})
	}
	return results
}
