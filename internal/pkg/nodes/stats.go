package nodes

// Stats aggregates a node list for the dashboard header and the rewind view.
type Stats struct {
	Total     int `json:"total"`
	GPUNodes  int `json:"gpu_nodes"`
	CPUNodes  int `json:"cpu_nodes"`
	Idle      int `json:"idle"`
	Mixed     int `json:"mixed"`
	Allocated int `json:"allocated"`
	Down      int `json:"down"`
	Drain     int `json:"drain"`

	CPUsAlloc   int64 `json:"cpus_alloc"`
	CPUsTotal   int64 `json:"cpus_total"`
	MemoryAlloc int64 `json:"memory_alloc"` // MB
	MemoryTotal int64 `json:"memory_total"` // MB
	GPUsAlloc   int   `json:"gpus_alloc"`
	GPUsTotal   int   `json:"gpus_total"`

	// ByState counts nodes per status level (state[1] when set, else state[0]).
	ByState map[string]int `json:"by_state"`
}

// ComputeStats counts nodes with the same predicates the filters use, so a
// state count always equals the length of the matching filtered list.
func ComputeStats(in []Node) Stats {
	s := Stats{Total: len(in), ByState: make(map[string]int)}
	for _, n := range in {
		if n.IsGPU() {
			s.GPUNodes++
		} else {
			s.CPUNodes++
		}
		switch n.PrimaryState() {
		case "IDLE":
			s.Idle++
		case "MIXED":
			s.Mixed++
		case "ALLOCATED":
			s.Allocated++
		case "DOWN":
			s.Down++
		}
		if n.SecondaryState() == "DRAIN" {
			s.Drain++
		}
		if lvl := StatusLevel(n.State); lvl != "" {
			s.ByState[lvl]++
		}

		s.CPUsAlloc += n.AllocCPUs
		s.CPUsTotal += n.CPUs
		s.MemoryAlloc += n.AllocMemory
		s.MemoryTotal += n.RealMemory
		used, total := GPUUsage(n)
		s.GPUsAlloc += used
		s.GPUsTotal += total
	}
	return s
}
