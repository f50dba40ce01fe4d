package intent

import (
	"fmt"
	"strings"
)

// DefaultGreetingTokens are matched exactly against the normalized turn.
var DefaultGreetingTokens = []string{
	"hi", "hii", "hello", "hey", "heya", "hiya", "yo", "sup", "howdy",
	"greetings", "hola", "what's up", "whats up", "hi there", "hello there",
	"hey there", "good morning", "good afternoon", "good evening",
}

// DefaultCodeKeywords are matched as substrings of the normalized turn.
var DefaultCodeKeywords = []string{
	"build", "create", "generate", "code", "website", "webpage", "web page",
	"landing page", "html", "css", "javascript", "fix", "debug", "make me",
	"design",
}

// Config configures classification and instruction selection.
type Config struct {
	Granularity    Granularity `yaml:"granularity" mapstructure:"granularity"`
	GreetingTokens []string    `yaml:"greeting_tokens" mapstructure:"greeting_tokens"`
	CodeKeywords   []string    `yaml:"code_keywords" mapstructure:"code_keywords"`

	// Instructions overrides the built-in instruction text per intent name
	// ("greeting", "code_request", "conversational", "delegated").
	Instructions map[string]string `yaml:"instructions" mapstructure:"instructions"`

	// DisableInstructions sends requests without any system instruction.
	// Routes that force an intent keep their instruction.
	DisableInstructions bool `yaml:"disable_instructions" mapstructure:"disable_instructions"`

	// FoldPunctuation matches "Hello!" like "hello". Off by default.
	FoldPunctuation bool `yaml:"fold_punctuation" mapstructure:"fold_punctuation"`
}

// ApplyDefaults fills in unset fields.
func (c *Config) ApplyDefaults() {
	if c.Granularity == "" {
		c.Granularity = Ternary
	}
	if len(c.GreetingTokens) == 0 {
		c.GreetingTokens = DefaultGreetingTokens
	}
	if len(c.CodeKeywords) == 0 {
		c.CodeKeywords = DefaultCodeKeywords
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !c.Granularity.Valid() {
		return fmt.Errorf("intent.granularity must be one of [binary ternary delegated] (got: %s)", c.Granularity)
	}
	for _, kw := range c.CodeKeywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("intent.code_keywords must not contain empty entries")
		}
	}
	for name := range c.Instructions {
		switch name {
		case "greeting", "code_request", "conversational", "delegated":
		default:
			return fmt.Errorf("intent.instructions: unknown intent %q", name)
		}
	}
	return nil
}
