// Package llm talks to completion backends.
//
// Two backends satisfy the same Completer contract:
//
//   - ChatClient posts to an OpenAI-compatible /chat/completions endpoint
//     (DeepSeek, OpenAI, local gateways).
//   - GeminiClient calls Google Gemini through google.golang.org/genai.
//
// Every failure to obtain text is reported as a *TransportError or
// ErrMalformedResponse so the caller can count it as one failed attempt.
package llm
