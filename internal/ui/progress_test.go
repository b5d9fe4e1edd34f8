package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"playscript/internal/buildpipeline"
)

func newModel(final buildpipeline.Stage, files ...string) *progressModel {
	return NewProgressModel("check", files, final, nil).(*progressModel)
}

func TestApplyTracksFinalStage(t *testing.T) {
	m := newModel(buildpipeline.StageDiagnose, "a.play", "b.play")

	m.apply(buildpipeline.Event{File: "a.play", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking})
	if got := m.items[0].label(); got != "parsing" {
		t.Fatalf("label = %q, want parsing", got)
	}
	if p := m.percent(); p != 0.125 {
		t.Fatalf("percent = %v, want 0.125", p)
	}
	m.apply(buildpipeline.Event{File: "a.play", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusDone, Elapsed: time.Millisecond})
	if m.items[0].state == stateDone {
		t.Fatal("file finished before its final stage")
	}
	m.apply(buildpipeline.Event{File: "a.play", Stage: buildpipeline.StageDiagnose, Status: buildpipeline.StatusDone, Elapsed: 2 * time.Millisecond})
	if it := m.items[0]; it.state != stateDone || it.elapsed != 3*time.Millisecond {
		t.Fatalf("item = %+v, want done after 3ms", it)
	}

	m.apply(buildpipeline.Event{File: "b.play", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusError, Err: errors.New("x")})
	// later events for a finished file are ignored
	m.apply(buildpipeline.Event{File: "b.play", Stage: buildpipeline.StageDiagnose, Status: buildpipeline.StatusWorking})
	if got := m.items[1].label(); got != "error" {
		t.Fatalf("label = %q after a late event", got)
	}
	if p := m.percent(); p != 1 {
		t.Fatalf("percent = %v, want 1", p)
	}
	if got := m.summary(); got != "2/2 files, 1 failed" {
		t.Fatalf("summary = %q", got)
	}
}

func TestViewShowsPhaseAndFiles(t *testing.T) {
	m := newModel(buildpipeline.StageDiagnose, "dir/a.play")
	m.apply(buildpipeline.Event{Stage: buildpipeline.StageDiagnose, Status: buildpipeline.StatusWorking})
	view := m.View()
	for _, want := range []string{"dir/a.play", "check (diagnosing)", "queued", "0/1 files"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view lacks %q: %q", want, view)
		}
	}
}

func TestUnknownFilesAreIgnored(t *testing.T) {
	m := newModel(buildpipeline.StageDiagnose, "a.play")
	if cmd := m.apply(buildpipeline.Event{File: "zzz.play", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusError}); cmd != nil {
		t.Fatal("unknown file produced a command")
	}
	if m.items[0].state != stateQueued {
		t.Fatalf("state = %v", m.items[0].state)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefgh", 6); runewidth.StringWidth(got) > 6 || !strings.HasSuffix(got, "...") {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 6); got != "abc" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("truncate = %q", got)
	}
}
