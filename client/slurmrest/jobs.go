package slurmrest

import (
	"encoding/json"
	"fmt"
)

// AccountingJobs is the subset of a slurmdb /jobs payload used to annotate a
// node with the jobs running on it.
type AccountingJobs struct {
	Jobs []AccountingJob `json:"jobs"`
}

type AccountingJob struct {
	JobID     int64  `json:"job_id"`
	Name      string `json:"name"`
	User      string `json:"user"`
	Account   string `json:"account"`
	Partition string `json:"partition"`
	Nodes     string `json:"nodes"`
	State     struct {
		Current StateList `json:"current"`
		Reason  string    `json:"reason"`
	} `json:"state"`
}

// DecodeAccountingJobs parses a slurmdb /jobs payload.
func DecodeAccountingJobs(raw []byte) (*AccountingJobs, error) {
	var out AccountingJobs
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unable to decode slurmdb jobs payload: %w", err)
	}
	return &out, nil
}

// Users returns the distinct job owners in first-seen order.
func (j *AccountingJobs) Users() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, job := range j.Jobs {
		if job.User == "" {
			continue
		}
		if _, ok := seen[job.User]; ok {
			continue
		}
		seen[job.User] = struct{}{}
		out = append(out, job.User)
	}
	return out
}

// StateList accepts "RUNNING" (v0.0.38) or ["RUNNING"] (v0.0.39+).
type StateList []string

func (s *StateList) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		if one == "" {
			*s = StateList{}
		} else {
			*s = StateList{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*s = many
	return nil
}
