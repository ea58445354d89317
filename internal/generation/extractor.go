package generation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/aura-archive-api/internal/models"
)

// Placeholder values for records recovered through fallback paths.
const (
	fallbackTitle    = "Audio Discussion (Processing Error)"
	fallbackSummary  = "Could not parse AI output"
	placeholderTitle = "Untitled Draft"
	defaultImageHint = "Tech abstract"
	maxReferences    = 5
)

var fencedBlockRe = regexp.MustCompile("(?s)```[a-zA-Z]*[ \t]*\n?(.*?)```")

// Extract recovers a structured ContentRecord from raw generation output.
// Model output is adversarial from a parsing standpoint: the JSON may be
// wrapped in prose, split across fences, doubly encoded, or missing
// entirely. Extract tries an ordered cascade of strategies and always
// returns a usable record; the second return value reports whether the
// record came from the last-resort fallback rather than a real parse.
func Extract(raw string) (models.ContentRecord, bool) {
	degraded := false

	record, ok := extractFromFences(raw)
	if !ok {
		record, ok = extractBalanced(raw)
	}
	if !ok {
		record, ok = extractOuterBrackets(raw)
	}
	if !ok {
		record = fallbackRecord(raw)
		degraded = true
	}

	repair(&record)
	return record, degraded
}

// extractFromFences looks for fenced code regions whose contents form a
// JSON object and strictly parses the longest candidate. A truncated or
// malformed fence is more likely to be the short one, so length is the
// tie-breaker when the model emits several.
func extractFromFences(raw string) (models.ContentRecord, bool) {
	matches := fencedBlockRe.FindAllStringSubmatch(raw, -1)
	best := ""
	for _, m := range matches {
		candidate := strings.TrimSpace(m[1])
		if !strings.HasPrefix(candidate, "{") {
			continue
		}
		if len(candidate) > len(best) {
			best = candidate
		}
	}
	if best == "" {
		return models.ContentRecord{}, false
	}
	return tryParse(best)
}

// extractBalanced scans left to right tracking brace nesting depth. Each
// time depth returns to zero the enclosed span is parsed; a malformed
// inner object is discarded and the scan continues, so a later valid
// object is still found.
func extractBalanced(raw string) (models.ContentRecord, bool) {
	depth := 0
	start := -1
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				if record, ok := tryParse(raw[start : i+1]); ok {
					return record, true
				}
				start = -1
			}
		}
	}
	return models.ContentRecord{}, false
}

// extractOuterBrackets is the blunt fallback: the substring from the first
// '{' to the last '}' in the text.
func extractOuterBrackets(raw string) (models.ContentRecord, bool) {
	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first < 0 || last <= first {
		return models.ContentRecord{}, false
	}
	return tryParse(raw[first : last+1])
}

// fallbackRecord wraps unparseable output verbatim so a reviewer still
// sees what the model produced.
func fallbackRecord(raw string) models.ContentRecord {
	return models.ContentRecord{
		Title:      fallbackTitle,
		Summary:    fallbackSummary,
		Body:       raw,
		ImageHint:  defaultImageHint,
		References: []models.Reference{},
	}
}

func tryParse(candidate string) (models.ContentRecord, bool) {
	var record models.ContentRecord
	if err := json.Unmarshal([]byte(candidate), &record); err != nil {
		return models.ContentRecord{}, false
	}
	return record, true
}

// repair fixes known pathologies and guarantees every field is populated,
// whichever cascade stage produced the record.
func repair(record *models.ContentRecord) {
	unwrapNestedBody(record)

	record.Title = strings.TrimSpace(record.Title)
	if record.Title == "" {
		record.Title = placeholderTitle
	}
	if strings.TrimSpace(record.Body) == "" {
		record.Body = synthesizeBody(record.Title, record.Summary)
	}
	if record.ImageHint == "" {
		record.ImageHint = defaultImageHint
	}
	if record.References == nil {
		record.References = []models.Reference{}
	}
	if len(record.References) > maxReferences {
		record.References = record.References[:maxReferences]
	}
}

// unwrapNestedBody handles the model re-emitting the whole envelope inside
// the body field: if body itself parses as a record carrying its own body,
// the inner one wins.
func unwrapNestedBody(record *models.ContentRecord) {
	body := strings.TrimSpace(record.Body)
	if !strings.HasPrefix(body, "{") || !strings.Contains(body, "blog_markdown") {
		return
	}
	nested, ok := tryParse(body)
	if !ok || strings.TrimSpace(nested.Body) == "" {
		return
	}
	record.Body = nested.Body
}

func synthesizeBody(title, summary string) string {
	if strings.TrimSpace(summary) == "" {
		return fmt.Sprintf("# %s\n", title)
	}
	return fmt.Sprintf("# %s\n\n%s\n", title, summary)
}
