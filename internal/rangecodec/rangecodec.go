// Package rangecodec parses and serializes human-entered Asset-ID
// range text such as "12-15, 20" or the legacy
// "Dept/WS/F-5/001 to Dept/WS/F-5/098" form, and maps between a lab's
// 1-indexed seat positions and the identifiers of its contiguous
// Asset-ID block.
//
// Parsing is deliberately lenient: malformed tokens are collected in
// Result.Skipped instead of raising an error, and callers decide
// whether to warn the user.  Output order of parsed IDs is not
// guaranteed; callers must sort when a canonical order matters.
package rangecodec

import (
	"sort"
	"strconv"
	"strings"
)

// Result is the outcome of a lenient parse: the identifiers that could
// be extracted plus the raw tokens that could not.
type Result struct {
	IDs     []int    // extracted identifiers, deduplicated, unordered
	Skipped []string // tokens that did not yield a number
}

// Parse extracts Asset IDs from comma-separated range text.  Each
// token is either a bare integer, an inclusive dash range "a-b" with
// b >= a, or the legacy "X to Y" form where X and Y are slash-delimited
// paths whose last segment is the numeric identifier.  A plain token
// may also carry a slash-path prefix; only the final path segment is
// parsed.  Parse never fails: unusable tokens end up in Skipped.
func Parse(text string) Result {
	var res Result
	seen := make(map[int]struct{})
	for _, raw := range strings.Split(text, ",") {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			continue
		}
		ids, ok := parseToken(tok)
		if !ok {
			res.Skipped = append(res.Skipped, tok)
			continue
		}
		for _, id := range ids {
			if _, dup := seen[id]; !dup {
				seen[id] = struct{}{}
				res.IDs = append(res.IDs, id)
			}
		}
	}
	return res
}

// Format is the inverse of Parse for the simple numeric-list case:
// identifiers are deduplicated, sorted ascending and joined with ", ".
// The legacy slash/"to" form is only consumed, never produced.
func Format(ids []int) string {
	uniq := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			uniq = append(uniq, id)
		}
	}
	sort.Ints(uniq)
	parts := make([]string, len(uniq))
	for i, id := range uniq {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}

// SeatIdentifiers expands a lab's simple "start-end" range string into
// the identifier sequence for seat positions 1..labTotal, i.e.
// start, start+1, ....  The returned slice always has length labTotal
// when the range parses, even if the configured range is shorter than
// the lab (under-provisioned labs are a display concern, not an
// error).  It returns nil when rangeText is not a simple dash range.
func SeatIdentifiers(rangeText string, labTotal int) []int {
	start, _, ok := parseSimpleRange(rangeText)
	if !ok || labTotal <= 0 {
		return nil
	}
	ids := make([]int, labTotal)
	for i := 0; i < labTotal; i++ {
		ids[i] = start + i
	}
	return ids
}

// IdentifierAt returns the identifier for a 1-indexed seat position,
// or false when the lab has no parseable range or the position falls
// outside the configured identifier block.
func IdentifierAt(rangeText string, position int) (int, bool) {
	start, end, ok := parseSimpleRange(rangeText)
	if !ok || position < 1 {
		return 0, false
	}
	id := start + position - 1
	if id > end {
		return 0, false
	}
	return id, true
}

// PositionOf is the inverse of IdentifierAt: it returns the 1-indexed
// seat position for an identifier within the lab's block, or false
// when the identifier does not map to a position 1..labTotal.
func PositionOf(rangeText string, labTotal int, id int) (int, bool) {
	start, _, ok := parseSimpleRange(rangeText)
	if !ok {
		return 0, false
	}
	pos := id - start + 1
	if pos < 1 || pos > labTotal {
		return 0, false
	}
	return pos, true
}

// parseSimpleRange parses "start-end" with end >= start.
func parseSimpleRange(text string) (start, end int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(text), "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errA != nil || errB != nil || b < a {
		return 0, 0, false
	}
	return a, b, true
}

// parseToken extracts the identifiers of a single comma-separated
// token.  The bool result is false when the token is malformed.
func parseToken(tok string) ([]int, bool) {
	// Legacy "X to Y" form: both sides are paths ending in a number.
	if parts := strings.Split(tok, " to "); len(parts) == 2 {
		a, okA := lastSegmentNumber(parts[0])
		b, okB := lastSegmentNumber(parts[1])
		if !okA || !okB || b < a {
			return nil, false
		}
		return span(a, b), true
	}
	// Slash-path prefix: only the final segment carries the number.
	if strings.Contains(tok, "/") {
		n, ok := lastSegmentNumber(tok)
		if !ok {
			return nil, false
		}
		return []int{n}, true
	}
	// Dash range "a-b".
	if i := strings.Index(tok, "-"); i > 0 {
		a, errA := strconv.Atoi(strings.TrimSpace(tok[:i]))
		b, errB := strconv.Atoi(strings.TrimSpace(tok[i+1:]))
		if errA != nil || errB != nil || b < a {
			return nil, false
		}
		return span(a, b), true
	}
	// Bare integer.
	n, err := strconv.Atoi(tok)
	if err != nil {
		return nil, false
	}
	return []int{n}, true
}

// lastSegmentNumber parses the final slash-delimited segment of a path
// as an integer.  "Dept/WS/F-5/001" yields 1.
func lastSegmentNumber(path string) (int, bool) {
	seg := strings.TrimSpace(path)
	if i := strings.LastIndex(seg, "/"); i >= 0 {
		seg = strings.TrimSpace(seg[i+1:])
	}
	n, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	return n, true
}

func span(a, b int) []int {
	out := make([]int, 0, b-a+1)
	for v := a; v <= b; v++ {
		out = append(out, v)
	}
	return out
}
