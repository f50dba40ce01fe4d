package intent

import (
	"github.com/kbukum/webgen/errors"
)

// Instruction is the system directive sent alongside the conversation.
type Instruction string

// String returns the instruction text.
func (i Instruction) String() string { return string(i) }

const (
	greetingInstruction Instruction = "You are a friendly AI assistant inside a website-building tool. " +
		"The user is greeting you. Reply warmly and briefly in plain conversational text " +
		"and ask what they would like to build. Do not write any code."

	codeInstruction Instruction = "You are a world-class web developer. Given the following user request, " +
		"generate a complete, single-file HTML website. The code should be fully self-contained in a single HTML file, " +
		"including all necessary CSS and JavaScript within <style> and <script> tags. " +
		"Use modern, clean design principles and ensure the website is fully mobile-responsive. " +
		"The website should look and function professionally. Respond with ONLY the complete HTML code, nothing else."

	conversationalInstruction Instruction = "You are a helpful AI web development assistant. " +
		"Answer questions and hold a natural conversation in plain text. " +
		"When the user asks for code, reply with a fenced code block labeled with its language, for example ```html."

	delegatedInstruction Instruction = "You are a helpful AI web development assistant. " +
		"Decide from the user's latest message what they want. " +
		"If they are greeting you or chatting, reply briefly in plain text without code. " +
		"If they ask for a website, page or component, reply with one complete, self-contained HTML document " +
		"inside a fenced code block labeled html, with CSS and JavaScript inline, and no extra commentary. " +
		"For other coding questions, answer with a short explanation and a fenced, labeled code block."
)

// Selector maps intents to instructions. It is a pure lookup.
type Selector struct {
	instructions map[Intent]Instruction
}

// NewSelector builds a selector. Under Delegated granularity the
// conversational intent carries the combined instruction.
func NewSelector(cfg Config) *Selector {
	cfg.ApplyDefaults()
	s := &Selector{instructions: map[Intent]Instruction{
		Greeting:       greetingInstruction,
		CodeRequest:    codeInstruction,
		Conversational: conversationalInstruction,
	}}
	if cfg.Granularity == Delegated {
		s.instructions[Conversational] = delegatedInstruction
	}

	overrides := map[string]Intent{
		"greeting":       Greeting,
		"code_request":   CodeRequest,
		"conversational": Conversational,
	}
	for name, text := range cfg.Instructions {
		if text == "" {
			continue
		}
		if name == "delegated" {
			if cfg.Granularity == Delegated {
				s.instructions[Conversational] = Instruction(text)
			}
			continue
		}
		if in, ok := overrides[name]; ok && !(name == "conversational" && cfg.Granularity == Delegated) {
			s.instructions[in] = Instruction(text)
		}
	}
	return s
}

// Select returns the instruction for in. An intent outside the enum is an
// internal invariant violation.
func (s *Selector) Select(in Intent) (Instruction, error) {
	instr, ok := s.instructions[in]
	if !ok {
		return "", errors.Internal(nil).WithDetail("intent", in.String())
	}
	return instr, nil
}
