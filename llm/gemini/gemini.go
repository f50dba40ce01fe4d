// Package gemini implements the llm.Dialect for the Gemini generateContent
// API. Importing it registers the dialect as "gemini".
package gemini

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/kbukum/webgen/chat"
	"github.com/kbukum/webgen/llm"
)

// DialectName is the registered name of this dialect.
const DialectName = "gemini"

func init() {
	llm.RegisterDialect(DialectName, &Dialect{})
}

// Dialect maps chat histories to generateContent requests.
type Dialect struct{}

// Request is the generateContent request body.
type Request struct {
	Contents          chat.History       `json:"contents"`
	SystemInstruction *SystemInstruction `json:"systemInstruction,omitempty"`
}

// SystemInstruction carries the persona directive outside the turn sequence.
type SystemInstruction struct {
	Parts []chat.Part `json:"parts"`
}

// Response is the subset of the generateContent response that is read.
type Response struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one generated alternative.
type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// Content holds the parts of a candidate.
type Content struct {
	Role  string      `json:"role,omitempty"`
	Parts []chat.Part `json:"parts"`
}

func (d *Dialect) Name() string { return DialectName }

func (d *Dialect) GeneratePath(model string) string {
	return fmt.Sprintf("models/%s:generateContent", url.PathEscape(model))
}

func (d *Dialect) StreamPath(model string) string {
	return fmt.Sprintf("models/%s:streamGenerateContent", url.PathEscape(model))
}

func (d *Dialect) StreamQuery() map[string]string {
	return map[string]string{"alt": "sse"}
}

// BuildPayload passes the history through untouched and attaches the
// instruction as a top-level field when it is not empty.
func (d *Dialect) BuildPayload(history chat.History, instruction string) (any, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("gemini: history is empty")
	}
	req := Request{Contents: history}
	if instruction != "" {
		req.SystemInstruction = &SystemInstruction{Parts: []chat.Part{{Text: instruction}}}
	}
	return req, nil
}

// ParseText returns the text of the first part of the first candidate.
func (d *Dialect) ParseText(body []byte) (string, bool, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", false, fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", false, nil
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", false, nil
	}
	return content.Parts[0].Text, true, nil
}
