package models

import "strings"

// ===========================================================================
// KBArticle
// Short knowledge-base texts (ITSE requirements, grounding, fire detection)
// used to enrich automated chat replies.
// ===========================================================================

// KBArticle represents one knowledge-base entry.
type KBArticle struct {
	BaseModel

	// Slug stable identifier, unique
	Slug string `gorm:"size:100;not null;uniqueIndex" json:"slug"`

	Title string `gorm:"size:200;not null" json:"title"`
	Body  string `gorm:"type:text;not null" json:"body"`

	// Tags comma-separated search keywords
	Tags string `gorm:"size:500" json:"tags"`
}

func (KBArticle) TableName() string {
	return "kb_articles"
}

// MatchesText reports whether any of the article's tags appears in the
// given free text. Used to attach articles to chat messages.
func (a *KBArticle) MatchesText(text string) bool {
	t := strings.ToLower(text)
	for _, tag := range strings.Split(a.Tags, ",") {
		tag = strings.TrimSpace(strings.ToLower(tag))
		if tag != "" && strings.Contains(t, tag) {
			return true
		}
	}
	return false
}
