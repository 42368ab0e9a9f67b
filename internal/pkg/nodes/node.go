// Package nodes normalizes slurmrestd node records and derives the filtered,
// aggregated and per-node views served to the dashboard.
package nodes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Response is the subset of the slurmrestd /nodes payload the dashboard uses.
type Response struct {
	Nodes      []Node `json:"nodes"`
	LastUpdate Number `json:"last_update"`
}

// Node is a compute host as reported by slurmrestd. Field shapes differ between
// API versions; StringList and Number absorb those differences.
type Node struct {
	Name        string     `json:"name"`
	Hostname    string     `json:"hostname"`
	State       StringList `json:"state"`
	Partitions  StringList `json:"partitions"`
	Features    StringList `json:"features"`
	Gres        string     `json:"gres"`
	GresUsed    string     `json:"gres_used"`
	CPUs        int64      `json:"cpus"`
	AllocCPUs   int64      `json:"alloc_cpus"`
	RealMemory  int64      `json:"real_memory"`
	AllocMemory int64      `json:"alloc_memory"`
	CPULoad     Number     `json:"cpu_load"`
	Reason      string     `json:"reason"`
	Owner       string     `json:"owner"`
}

// Decode parses a raw /nodes payload and normalizes every node.
func Decode(raw []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("unable to decode nodes payload: %w", err)
	}
	for i := range resp.Nodes {
		Normalize(&resp.Nodes[i])
	}
	return &resp, nil
}

// Normalize upper-cases state flags and fills the name from the hostname when
// slurm omits it. Older API versions report state as "idle+drain".
func Normalize(n *Node) {
	if len(n.State) == 1 && strings.Contains(n.State[0], "+") {
		n.State = StringList(strings.Split(n.State[0], "+"))
	}
	for i, s := range n.State {
		n.State[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	if n.Name == "" {
		n.Name = n.Hostname
	}
	if n.Hostname == "" {
		n.Hostname = n.Name
	}
	if n.Partitions == nil {
		n.Partitions = StringList{}
	}
	if n.Features == nil {
		n.Features = StringList{}
	}
}

// IsGPU reports whether the node advertises any generic resources.
func (n Node) IsGPU() bool { return n.Gres != "" }

// PrimaryState is state[0], or "" for a node without state flags.
func (n Node) PrimaryState() string { return n.stateAt(0) }

// SecondaryState is state[1] (DRAIN, NOT_RESPONDING, ...), or "".
func (n Node) SecondaryState() string { return n.stateAt(1) }

func (n Node) stateAt(i int) string {
	if i < len(n.State) {
		return n.State[i]
	}
	return ""
}

// HasPartition reports whether the node belongs to partition p.
func (n Node) HasPartition(p string) bool { return contains(n.Partitions, p) }

// HasFeature reports whether the node advertises feature f.
func (n Node) HasFeature(f string) bool { return contains(n.Features, f) }

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// StringList accepts a JSON array of strings, a comma separated string or
// null. Empty items are dropped.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*l = StringList{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = splitList(s)
		return nil
	}
	var items []string
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("expected string or array of strings: %w", err)
	}
	out := make(StringList, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	*l = out
	return nil
}

func splitList(s string) StringList {
	out := make(StringList, 0)
	for _, it := range strings.Split(s, ",") {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

// Number accepts a plain JSON number or the slurmrestd v0.0.39+ object form
// {"set": true, "infinite": false, "number": 42}.
type Number struct {
	Set      bool
	Infinite bool
	Value    float64
}

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = Number{}
		return nil
	}
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			Set      bool    `json:"set"`
			Infinite bool    `json:"infinite"`
			Number   float64 `json:"number"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*n = Number{Set: obj.Set, Infinite: obj.Infinite, Value: obj.Number}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("expected number or number object: %w", err)
	}
	*n = Number{Set: true, Value: v}
	return nil
}

// MarshalJSON renders the plain number, or null when unset or infinite.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Set || n.Infinite {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Int64 returns the value truncated to an integer, 0 when unset.
func (n Number) Int64() int64 {
	if !n.Set || n.Infinite {
		return 0
	}
	return int64(n.Value)
}
