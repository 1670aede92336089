package driver

import (
	"clipper/internal/instructions"
	"clipper/internal/outputindex"
)

// Descriptor is a parsed job as reported by args-only mode.
type Descriptor struct {
	Job          instructions.Job
	ExistingPath string
}

// Describe returns every job without building requests, probing, fetching or
// running anything. Jobs whose output is already indexed are kept and marked.
func Describe(jobs []instructions.Job, index *outputindex.Index) []Descriptor {
	out := make([]Descriptor, 0, len(jobs))
	for _, job := range jobs {
		existing, _ := index.Lookup(job.OutputName)
		out = append(out, Descriptor{Job: job, ExistingPath: existing})
	}
	return out
}
