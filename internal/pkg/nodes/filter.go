package nodes

import "fmt"

// Filter values as sent by the dashboard's select menus.
const (
	TypeAll = "allNodes"
	TypeGPU = "gpuNodes"
	TypeCPU = "cpuNodes"

	StateAll   = "allState"
	StateIdle  = "idleState"
	StateMixed = "mixedState"
	StateAlloc = "allocState"
	StateDown  = "downState"
	StateDrain = "drainState"

	PartitionAll = "allPartitions"
	FeatureAll   = "allFeatures"
)

var typeAliases = map[string]string{
	"":      TypeAll,
	"all":   TypeAll,
	"gpu":   TypeGPU,
	"cpu":   TypeCPU,
	TypeAll: TypeAll,
	TypeGPU: TypeGPU,
	TypeCPU: TypeCPU,
}

var stateAliases = map[string]string{
	"":         StateAll,
	"all":      StateAll,
	"idle":     StateIdle,
	"mixed":    StateMixed,
	"alloc":    StateAlloc,
	"down":     StateDown,
	"drain":    StateDrain,
	StateAll:   StateAll,
	StateIdle:  StateIdle,
	StateMixed: StateMixed,
	StateAlloc: StateAlloc,
	StateDown:  StateDown,
	StateDrain: StateDrain,
}

// Filter is the conjunction of the four dashboard predicates.
type Filter struct {
	Type      string `json:"type"`
	State     string `json:"state"`
	Partition string `json:"partition"`
	Feature   string `json:"feature"`
}

// NewFilter canonicalizes raw query values. Empty values and the short forms
// ("gpu", "idle", ...) are accepted.
func NewFilter(typ, state, partition, feature string) (Filter, error) {
	f := Filter{Partition: partition, Feature: feature}
	var ok bool
	if f.Type, ok = typeAliases[typ]; !ok {
		return Filter{}, fmt.Errorf("unknown node type %q", typ)
	}
	if f.State, ok = stateAliases[state]; !ok {
		return Filter{}, fmt.Errorf("unknown node state %q", state)
	}
	if f.Partition == "" {
		f.Partition = PartitionAll
	}
	if f.Feature == "" {
		f.Feature = FeatureAll
	}
	return f, nil
}

// Match reports whether n satisfies every predicate of f. Zero-valued fields
// match everything.
func (f Filter) Match(n Node) bool {
	return f.matchType(n) && f.matchState(n) && f.matchPartition(n) && f.matchFeature(n)
}

func (f Filter) matchType(n Node) bool {
	switch f.Type {
	case "", TypeAll:
		return true
	case TypeGPU:
		return n.IsGPU()
	case TypeCPU:
		return !n.IsGPU()
	}
	return false
}

func (f Filter) matchState(n Node) bool {
	switch f.State {
	case "", StateAll:
		return true
	case StateIdle:
		return n.PrimaryState() == "IDLE"
	case StateMixed:
		return n.PrimaryState() == "MIXED"
	case StateAlloc:
		return n.PrimaryState() == "ALLOCATED"
	case StateDown:
		return n.PrimaryState() == "DOWN"
	case StateDrain:
		return n.SecondaryState() == "DRAIN"
	}
	return false
}

func (f Filter) matchPartition(n Node) bool {
	return f.Partition == "" || f.Partition == PartitionAll || n.HasPartition(f.Partition)
}

func (f Filter) matchFeature(n Node) bool {
	return f.Feature == "" || f.Feature == FeatureAll || n.HasFeature(f.Feature)
}

// Apply returns the nodes matching f, preserving input order.
func (f Filter) Apply(in []Node) []Node {
	out := make([]Node, 0, len(in))
	for _, n := range in {
		if f.Match(n) {
			out = append(out, n)
		}
	}
	return out
}

// UniquePartitions lists every partition in first-seen order.
func UniquePartitions(in []Node) []string {
	return unique(in, func(n Node) []string { return n.Partitions })
}

// UniqueFeatures lists every feature in first-seen order.
func UniqueFeatures(in []Node) []string {
	return unique(in, func(n Node) []string { return n.Features })
}

func unique(in []Node, get func(Node) []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, n := range in {
		for _, v := range get(n) {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
