package nodes

import "time"

// Card is everything a node tile and its hover panel show.
type Card struct {
	Name        string          `json:"name"`
	Hostname    string          `json:"hostname"`
	Load        float64         `json:"load"`
	Partitions  []string        `json:"partitions"`
	Features    []string        `json:"features"`
	CoresUsed   int64           `json:"cores_used"`
	CoresTotal  int64           `json:"cores_total"`
	MemoryUsed  int64           `json:"memory_used"`
	MemoryTotal int64           `json:"memory_total"`
	GPUsUsed    int             `json:"gpus_used"`
	GPUsTotal   int             `json:"gpus_total"`
	State       []string        `json:"state"`
	Status      string          `json:"status"`
	Color       string          `json:"color"`
	Definition  string          `json:"definition"`
	Reason      string          `json:"reason,omitempty"`
	Owner       string          `json:"owner,omitempty"`
	GPUs        []GPUAllocation `json:"gpus"`
	GPUsInUse   []GPUAllocation `json:"gpus_in_use"`
}

// BuildCard derives the card view of n.
func BuildCard(n Node) Card {
	level := StatusLevel(n.State)
	used, total := GPUUsage(n)
	c := Card{
		Name:        n.Name,
		Hostname:    n.Hostname,
		Load:        n.CPULoad.Value,
		Partitions:  n.Partitions,
		Features:    n.Features,
		CoresUsed:   n.AllocCPUs,
		CoresTotal:  n.CPUs,
		MemoryUsed:  n.AllocMemory,
		MemoryTotal: n.RealMemory,
		GPUsUsed:    used,
		GPUsTotal:   total,
		State:       n.State,
		Status:      level,
		Color:       StatusColor(level),
		Definition:  StatusDefinition(level),
		Reason:      n.Reason,
		Owner:       n.Owner,
		GPUs:        []GPUAllocation{},
		GPUsInUse:   []GPUAllocation{},
	}
	if n.IsGPU() {
		c.GPUs = ParseGres(n.Gres)
		for _, a := range ParseGresUsed(n.GresUsed) {
			if a.IndexRange != "" {
				c.GPUsInUse = append(c.GPUsInUse, a)
			}
		}
	}
	return c
}

// BuildCards maps BuildCard over in.
func BuildCards(in []Node) []Card {
	out := make([]Card, 0, len(in))
	for _, n := range in {
		out = append(out, BuildCard(n))
	}
	return out
}

// Find returns the node whose name or hostname equals name.
func Find(in []Node, name string) (Node, bool) {
	for _, n := range in {
		if n.Name == name || n.Hostname == name {
			return n, true
		}
	}
	return Node{}, false
}

// FormatUnix renders unix seconds in loc; zero renders as "".
func FormatUnix(ts int64, loc *time.Location) string {
	if ts == 0 {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(ts, 0).In(loc).Format("2006-01-02 15:04:05")
}
