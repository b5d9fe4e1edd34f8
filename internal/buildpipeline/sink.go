package buildpipeline

import "time"

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// FuncSink adapts a function to ProgressSink.
type FuncSink func(Event)

func (f FuncSink) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

// EmitQueued reports every file as waiting to be parsed.
func EmitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageParse, Status: StatusQueued})
	}
}

// Begin reports stage as working for file and returns the function that
// reports its outcome. The elapsed time is also stored in timings when it
// is not nil.
func Begin(sink ProgressSink, timings *Timings, file string, stage Stage) func(err error) {
	start := time.Now()
	if sink != nil {
		sink.OnEvent(Event{File: file, Stage: stage, Status: StatusWorking})
	}
	return func(err error) {
		elapsed := time.Since(start)
		timings.Set(stage, elapsed)
		if sink == nil {
			return
		}
		status := StatusDone
		if err != nil {
			status = StatusError
		}
		sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	}
}
