// Package planparse turns raw model output into persistable plan structures.
// The text is expected to contain a JSON object but routinely arrives wrapped
// in markdown fences, prefixed with prose, or structurally broken.
package planparse

import (
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

var fencedBlockRe = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)\\s*```")

// ExtractPayload pulls the JSON payload out of arbitrary model output: the
// interior of the first fenced code block if one exists, otherwise the whole
// text, with single-line // comments stripped. It never fails; whether the
// result is parseable is for the caller to decide.
func ExtractPayload(text string) string {
	payload := text
	if m := fencedBlockRe.FindStringSubmatch(text); m != nil {
		payload = m[1]
	}

	lines := strings.Split(payload, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		kept = append(kept, line)
	}

	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// Repair applies tolerant JSON repair (trailing commas, unquoted keys,
// unbalanced brackets). Best effort: if the repairer itself gives up, the
// input is returned unchanged and the downstream strict parse reports the
// failure.
func Repair(text string) string {
	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return text
	}
	return repaired
}

// Normalize is the full text-to-candidate-JSON path.
func Normalize(text string) string {
	return Repair(ExtractPayload(text))
}
