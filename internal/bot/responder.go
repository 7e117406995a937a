package bot

import (
	"context"
	"strings"

	"tesla-crm/internal/models"

	"go.uber.org/zap"
)

// ===========================================================================
// Responder
// Composes the automatic assistant reply: price line for the detected
// category, a risk context line, and up to two knowledge base snippets.
// ===========================================================================

// maxSnippets knowledge base extracts appended to a reply
const maxSnippets = 2

// snippetLength characters of article body kept per snippet
const snippetLength = 160

// ReplyResult everything the responder derived from one message
type ReplyResult struct {
	// Text composed assistant reply
	Text string

	// Classification what the classifier found
	Classification Classification

	// Risk derived risk tier
	Risk RiskLevel

	// Phone extracted phone number, empty when none found
	Phone string
}

// Responder interface for reply generation
type Responder interface {
	// Reply composes the assistant reply for a visitor message.
	// Knowledge base articles are matched by substring against the message.
	Reply(ctx context.Context, content string, articles []models.KBArticle) ReplyResult
}

// ===========================================================================
// Responder Implementation
// ===========================================================================

type responder struct {
	logger *zap.Logger
}

// NewResponder creates a rule-based responder.
func NewResponder(logger *zap.Logger) Responder {
	return &responder{logger: logger}
}

// Reply composes the assistant reply for a visitor message.
func (r *responder) Reply(ctx context.Context, content string, articles []models.KBArticle) ReplyResult {
	classification := Classify(content)
	risk := ClassifyRisk(classification)
	phone, _ := ExtractPhone(content)

	parts := []string{PriceLine(classification.Category)}
	if line := RiskLine(risk); line != "" {
		parts = append(parts, line)
	}

	snippets := 0
	for _, article := range articles {
		if snippets >= maxSnippets {
			break
		}
		if article.MatchesText(content) {
			parts = append(parts, snippet(article))
			snippets++
		}
	}

	r.logger.Debug("reply composed",
		zap.String("category", string(classification.Category)),
		zap.String("sector", string(classification.Sector)),
		zap.Int("area_m2", classification.AreaM2),
		zap.String("risk", string(risk)),
	)

	return ReplyResult{
		Text:           strings.Join(parts, " "),
		Classification: classification,
		Risk:           risk,
		Phone:          phone,
	}
}

// snippet builds a short extract from an article.
func snippet(article models.KBArticle) string {
	body := strings.TrimSpace(article.Body)
	if runes := []rune(body); len(runes) > snippetLength {
		cut := string(runes[:snippetLength])
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		body = cut + "…"
	}
	return article.Title + ": " + body
}
