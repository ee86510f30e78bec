// Package content turns raw model output into a display-safe fragment.
//
// It holds three independent pieces:
//   - Extract: an ordered chain of named, pure rules that strip fenced code
//     blocks, reasoning tags and narrative preambles from a completion
//   - IsValidPlainText / IsValidMarkup: deterministic verdicts on an extracted
//     fragment, one per content mode
//   - Pool: the curated fallback quotes used when generation gives up
//
// Nothing in this package performs I/O. The retry policy that ties these pieces
// together lives in the pipeline package.
//
// The heuristics are regex based on purpose. Model output is semi-trusted text,
// not arbitrary HTML, so a full parser would not add safety here.
package content
