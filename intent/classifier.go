package intent

import (
	"strings"
)

// Classifier maps the text of a turn to an Intent. It holds no mutable
// state and is safe for concurrent use.
type Classifier struct {
	granularity Granularity
	greetings   map[string]struct{}
	keywords    []string
	normalize   func(string) string
}

// NewClassifier builds a classifier from cfg. Defaults are applied to a copy.
func NewClassifier(cfg Config) *Classifier {
	cfg.ApplyDefaults()
	c := &Classifier{
		granularity: cfg.Granularity,
		greetings:   make(map[string]struct{}, len(cfg.GreetingTokens)),
		keywords:    make([]string, 0, len(cfg.CodeKeywords)),
		normalize:   Normalize,
	}
	if cfg.FoldPunctuation {
		c.normalize = Fold
	}
	for _, tok := range cfg.GreetingTokens {
		c.greetings[c.normalize(tok)] = struct{}{}
	}
	for _, kw := range cfg.CodeKeywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			c.keywords = append(c.keywords, kw)
		}
	}
	return c
}

// Granularity returns the configured granularity.
func (c *Classifier) Granularity() Granularity { return c.granularity }

// Classify returns the intent of text. Rules are evaluated in order and the
// first match wins: greeting token, code keyword, otherwise conversational.
func (c *Classifier) Classify(text string) Intent {
	if c.granularity == Delegated {
		return Conversational
	}
	norm := c.normalize(text)
	if _, ok := c.greetings[norm]; ok && c.granularity == Ternary {
		return Greeting
	}
	for _, kw := range c.keywords {
		if strings.Contains(norm, kw) {
			return CodeRequest
		}
	}
	return Conversational
}

// Normalize lower-cases text and trims surrounding whitespace.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Fold normalizes text, then collapses inner whitespace, straightens
// apostrophes and strips trailing punctuation.
func Fold(text string) string {
	text = strings.ReplaceAll(Normalize(text), "’", "'")
	text = strings.Join(strings.Fields(text), " ")
	return strings.TrimRight(text, "!?.,")
}
