package vls

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"vls-mesh/internal/ops"
)

// WarningCode identifies why a chunk was dropped or only partly applied.
type WarningCode int

const (
	WarnUnknownToken WarningCode = iota
	WarnUnimplemented
	WarnStructural
	WarnMalformedPower
	WarnPowerClamped
	WarnMalformedMaterial
	WarnMalformedLighting
	WarnDanglingSign
	WarnInvalidArgument
)

var warningNames = [...]string{
	WarnUnknownToken:      "unknown-token",
	WarnUnimplemented:     "unimplemented",
	WarnStructural:        "structural-only",
	WarnMalformedPower:    "malformed-power",
	WarnPowerClamped:      "power-clamped",
	WarnMalformedMaterial: "malformed-material",
	WarnMalformedLighting: "malformed-lighting",
	WarnDanglingSign:      "dangling-sign",
	WarnInvalidArgument:   "invalid-argument",
}

func (c WarningCode) String() string {
	if int(c) >= 0 && int(c) < len(warningNames) {
		return warningNames[c]
	}
	return fmt.Sprintf("WarningCode(%d)", int(c))
}

// Warning is a non-fatal decode diagnostic. Decoding never returns errors;
// batch tooling audits these instead.
type Warning struct {
	Index      int         `json:"index"`
	Chunk      string      `json:"chunk"`
	Code       WarningCode `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

func (w Warning) String() string {
	s := fmt.Sprintf("chunk %d %q: %s: %s", w.Index, w.Chunk, w.Code, w.Message)
	if w.Suggestion != "" {
		s += fmt.Sprintf(" (did you mean %q?)", w.Suggestion)
	}
	return s
}

// MarshalText lets warning codes appear by name in JSON manifests.
func (c WarningCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// suggest returns the registry code closest to an unknown chunk, or "".
// Candidates are codes the chunk fuzzily matches in either direction;
// the closest by Levenshtein distance wins, then the longest code.
func suggest(chunk string) string {
	upper := strings.ToUpper(chunk)
	if upper == "" {
		return ""
	}
	codes := ops.Codes()

	seen := make(map[string]bool)
	var candidates []string
	for _, r := range fuzzy.RankFindFold(upper, codes) {
		if !seen[r.Target] {
			seen[r.Target] = true
			candidates = append(candidates, r.Target)
		}
	}
	for _, c := range codes {
		if !seen[c] && fuzzy.MatchFold(c, upper) {
			seen[c] = true
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	sort.Slice(candidates, func(i, j int) bool {
		di := fuzzy.LevenshteinDistance(upper, candidates[i])
		dj := fuzzy.LevenshteinDistance(upper, candidates[j])
		if di != dj {
			return di < dj
		}
		if len(candidates[i]) != len(candidates[j]) {
			return len(candidates[i]) > len(candidates[j])
		}
		return candidates[i] < candidates[j]
	})
	best := candidates[0]
	if fuzzy.LevenshteinDistance(upper, best) > 2 {
		return ""
	}
	return best
}
