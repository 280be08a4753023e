package scorer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"newsdesk/internal/usecase/rank"
)

// systemPrompt instructs a language model to answer with the scoring JSON only.
const systemPrompt = `You rate news articles for a market-focused digest.
Return ONLY a JSON object of the form {"relevance": N, "impact": N, "sentiment": N}
where every N is an integer from 0 to 100.
relevance: how relevant the article is to financial markets.
impact: how strongly it is likely to move prices or decisions.
sentiment: 0 is very negative, 50 is neutral, 100 is very positive.`

// buildPrompt renders the user message for one article.
func buildPrompt(req rank.ScoreRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Source: %s\n", req.SourceName)
	if req.PubDate != nil {
		fmt.Fprintf(&b, "Published: %s\n", req.PubDate.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "Title: %s\n", req.Title)
	if req.ContentSnippet != "" {
		fmt.Fprintf(&b, "Snippet: %s\n", req.ContentSnippet)
	}
	return b.String()
}

// scoreBody mirrors the JSON answer. Pointers detect missing fields.
type scoreBody struct {
	Relevance *float64 `json:"relevance"`
	Impact    *float64 `json:"impact"`
	Sentiment *float64 `json:"sentiment"`
}

func (b scoreBody) toRaw() (rank.RawScores, error) {
	if b.Relevance == nil || b.Impact == nil || b.Sentiment == nil {
		return rank.RawScores{}, fmt.Errorf("%w: missing score field", rank.ErrInvalidResponse)
	}
	return rank.RawScores{
		Relevance: *b.Relevance,
		Impact:    *b.Impact,
		Sentiment: *b.Sentiment,
	}, nil
}

// parseModelScores extracts the score object from a model reply. Models
// sometimes wrap the JSON in prose or a code fence, so the outermost braces
// are located first.
func parseModelScores(reply string) (rank.RawScores, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return rank.RawScores{}, fmt.Errorf("%w: no JSON object in reply", rank.ErrInvalidResponse)
	}
	var body scoreBody
	if err := json.Unmarshal([]byte(reply[start:end+1]), &body); err != nil {
		return rank.RawScores{}, fmt.Errorf("%w: %v", rank.ErrInvalidResponse, err)
	}
	return body.toRaw()
}
