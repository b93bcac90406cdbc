package enrollment

// PipelineState is one step of the enrollment pipeline. The flow runs
// VALIDATING_CONFLICT, then VALIDATING_PREREQ, then ENROLLING, ending in DONE;
// each step has its own terminal failure state and the first failure stops
// the run.
type PipelineState string

const (
	StateValidatingConflict PipelineState = "VALIDATING_CONFLICT"
	StateValidatingPrereq   PipelineState = "VALIDATING_PREREQ"
	StateEnrolling          PipelineState = "ENROLLING"
	StateDone               PipelineState = "DONE"

	// terminal failures
	StateConflict     PipelineState = "CONFLICT"
	StatePrereqUnmet  PipelineState = "PREREQ_UNMET"
	StateEnrollFailed PipelineState = "ENROLL_FAILED"
)

// Terminal reports whether the state ends a pipeline run.
func (s PipelineState) Terminal() bool {
	switch s {
	case StateDone, StateConflict, StatePrereqUnmet, StateEnrollFailed:
		return true
	}
	return false
}

// Failed reports whether the state is a terminal failure.
func (s PipelineState) Failed() bool {
	return s.Terminal() && s != StateDone
}

// PipelineResult is the outcome of an enrollment attempt: the state it ended
// in, the step failure messages if any, and the created enrollment on DONE.
type PipelineResult struct {
	State      PipelineState `json:"state"`
	Errors     []string      `json:"errors,omitempty"`
	Enrollment *Enrollment   `json:"enrollment,omitempty"`
}

// pipelineStep runs one check; it returns the failure state and messages, or
// ok with the (possibly nil) enrollment produced.
type pipelineStep struct {
	state PipelineState
	fail  PipelineState
	run   func() (*Enrollment, []string, error)
}

// runPipeline executes the steps in order, short-circuiting on the first
// failure. An error return means infrastructure trouble, not a failed check.
func runPipeline(steps []pipelineStep) (PipelineResult, error) {
	var enr *Enrollment
	for _, step := range steps {
		created, msgs, err := step.run()
		if err != nil {
			return PipelineResult{}, err
		}
		if len(msgs) > 0 {
			return PipelineResult{State: step.fail, Errors: msgs}, nil
		}
		if created != nil {
			enr = created
		}
	}
	return PipelineResult{State: StateDone, Enrollment: enr}, nil
}
