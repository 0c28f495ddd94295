// Package generation is the boundary between the application and the LLM
// that extracts study vocabulary from essay text. The Generator interface is
// implemented by the Gemini adapter in internal/platform/gemini; responses are
// decoded and validated here so every adapter accepts the same shape.
package generation
