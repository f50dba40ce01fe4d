// Package intent decides what kind of answer the newest user turn asks for
// and picks the system instruction that steers the model accordingly.
//
// Classification is a cheap keyword heuristic, not semantic understanding.
// Its only job is choosing an instruction, and ambiguous input falls through
// to Conversational so the model can decide for itself.
package intent
