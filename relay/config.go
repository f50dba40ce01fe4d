package relay

import "fmt"

// Mode selects how a generation is returned to the caller.
type Mode string

const (
	ModeBuffered Mode = "buffered"
	ModeStreamed Mode = "streamed"
)

// Format selects what a streamed response carries.
type Format string

const (
	// FormatRaw forwards upstream bytes untouched.
	FormatRaw Format = "raw"
	// FormatText forwards only the generated text deltas.
	FormatText Format = "text"
)

// Field names the JSON property that carries buffered text.
type Field string

const (
	FieldText Field = "text"
	FieldCode Field = "code"
)

const (
	DefaultEmptyText = "No content was generated. Please try a different prompt."
	DefaultEmptyCode = "No code was generated. Please try a different prompt."
)

// Config is the deployment-level relay configuration.
type Config struct {
	Mode         Mode   `yaml:"mode" mapstructure:"mode"`
	StreamFormat Format `yaml:"stream_format" mapstructure:"stream_format"`
	EmptyText    string `yaml:"empty_generation_text" mapstructure:"empty_generation_text"`
	EmptyCode    string `yaml:"empty_code_text" mapstructure:"empty_code_text"`
}

// ApplyDefaults fills in unset fields.
func (c *Config) ApplyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeBuffered
	}
	if c.StreamFormat == "" {
		c.StreamFormat = FormatRaw
	}
	if c.EmptyText == "" {
		c.EmptyText = DefaultEmptyText
	}
	if c.EmptyCode == "" {
		c.EmptyCode = DefaultEmptyCode
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeBuffered, ModeStreamed:
	default:
		return fmt.Errorf("relay.mode must be one of [buffered streamed] (got: %s)", c.Mode)
	}
	switch c.StreamFormat {
	case FormatRaw, FormatText:
	default:
		return fmt.Errorf("relay.stream_format must be one of [raw text] (got: %s)", c.StreamFormat)
	}
	return nil
}

// Defaults returns the empty-generation policy described by c.
func (c *Config) Defaults() Defaults {
	return Defaults{EmptyText: c.EmptyText, EmptyCode: c.EmptyCode}
}
