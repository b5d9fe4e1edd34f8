package buildpipeline

import (
	"errors"
	"testing"
)

func TestBeginReportsOutcome(t *testing.T) {
	var events []Event
	sink := FuncSink(func(ev Event) { events = append(events, ev) })
	var timings Timings

	EmitQueued(sink, []string{"a.play"})
	Begin(sink, &timings, "a.play", StageParse)(nil)
	Begin(sink, &timings, "a.play", StageDiagnose)(errors.New("boom"))

	want := []struct {
		stage  Stage
		status Status
	}{
		{StageParse, StatusQueued},
		{StageParse, StatusWorking},
		{StageParse, StatusDone},
		{StageDiagnose, StatusWorking},
		{StageDiagnose, StatusError},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, w := range want {
		if events[i].Stage != w.stage || events[i].Status != w.status || events[i].File != "a.play" {
			t.Fatalf("event %d = %+v, want %s/%s", i, events[i], w.stage, w.status)
		}
	}
	if events[4].Err == nil {
		t.Fatal("error event lost its error")
	}
	if !timings.Has(StageParse) || !timings.Has(StageDiagnose) || timings.Has(StageRun) {
		t.Fatal("timings not recorded per stage")
	}
}

func TestChannelSinkForwards(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{Stage: StageRun, Status: StatusDone})
	if ev := <-ch; ev.Stage != StageRun {
		t.Fatalf("event = %+v", ev)
	}
	ChannelSink{}.OnEvent(Event{}) // nil channel is ignored
}

func TestNilTimingsAreIgnored(t *testing.T) {
	var timings *Timings
	timings.Set(StageRun, 1)
	Begin(nil, nil, "", StageWrite)(nil)
}
