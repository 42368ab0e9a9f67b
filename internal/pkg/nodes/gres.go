package nodes

import (
	"strconv"
	"strings"
)

// GPUAllocation is one item of a GRES string, e.g. "gpu:a100:4".
type GPUAllocation struct {
	Type       string `json:"type"`
	Count      int    `json:"count"`
	IndexRange string `json:"index_range,omitempty"`
}

// ParseGres parses a configured GRES string such as
// "gpu:a100:4(S:0-1),gpu:h100:2". Items without a parsable count are skipped.
func ParseGres(gres string) []GPUAllocation {
	out := make([]GPUAllocation, 0)
	for _, item := range splitGres(gres) {
		head, _, _ := strings.Cut(item, "(")
		if a, ok := parseGresItem(head); ok {
			out = append(out, a)
		}
	}
	return out
}

// ParseGresUsed parses gres_used, keeping the "(IDX:...)" part as IndexRange.
func ParseGresUsed(gresUsed string) []GPUAllocation {
	out := make([]GPUAllocation, 0)
	for _, item := range splitGres(gresUsed) {
		head, rest, hasIdx := strings.Cut(item, "(")
		a, ok := parseGresItem(head)
		if !ok {
			continue
		}
		if hasIdx {
			a.IndexRange = strings.TrimSuffix(rest, ")")
		}
		out = append(out, a)
	}
	return out
}

// GPUUsage sums the gpu items of gres_used and gres.
func GPUUsage(n Node) (used, total int) {
	for _, a := range ParseGresUsed(n.GresUsed) {
		if isGPU(a.Type) {
			used += a.Count
		}
	}
	for _, a := range ParseGres(n.Gres) {
		if isGPU(a.Type) {
			total += a.Count
		}
	}
	return used, total
}

func isGPU(typ string) bool {
	name, _, _ := strings.Cut(typ, ":")
	return name == "gpu"
}

// splitGres splits on commas that are not inside parentheses, since index
// ranges may themselves contain commas ("IDX:0,2-3").
func splitGres(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "(null)" {
		return nil
	}
	var (
		out   []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, strings.TrimSpace(s[start:]))
	return out
}

// parseGresItem handles "name:type:count" and "name:count".
func parseGresItem(item string) (GPUAllocation, bool) {
	parts := strings.Split(item, ":")
	switch len(parts) {
	case 2:
		n, ok := leadingInt(parts[1])
		if !ok {
			return GPUAllocation{}, false
		}
		return GPUAllocation{Type: parts[0], Count: n}, true
	case 3:
		n, ok := leadingInt(parts[2])
		if !ok {
			return GPUAllocation{}, false
		}
		return GPUAllocation{Type: parts[0] + ":" + parts[1], Count: n}, true
	}
	return GPUAllocation{}, false
}

func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
