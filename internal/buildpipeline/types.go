package buildpipeline

import "time"

// Stage names one step a source file goes through on its way to the VM.
type Stage string

const (
	StageParse    Stage = "parse"    // lexing and parsing
	StageDiagnose Stage = "diagnose" // semantic passes
	StageGenerate Stage = "generate" // bytecode generation
	StageWrite    Stage = "write"    // module serialization
	StageRun      Stage = "run"      // VM execution
)

// Stages lists every stage in pipeline order.
var Stages = [...]Stage{StageParse, StageDiagnose, StageGenerate, StageWrite, StageRun}

func (s Stage) index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// Status is the state of one file within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file, or for the whole run when File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}
