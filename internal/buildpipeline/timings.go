package buildpipeline

import "time"

// Timings records how long each stage took. The zero value is empty and
// ready to use.
type Timings struct {
	dur  [len(Stages)]time.Duration
	seen [len(Stages)]bool
}

// Set stores dur for stage. Unknown stages and a nil receiver are ignored.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	i := stage.index()
	if t == nil || i < 0 {
		return
	}
	t.dur[i] = dur
	t.seen[i] = true
}

// Has reports whether stage ran.
func (t Timings) Has(stage Stage) bool {
	i := stage.index()
	return i >= 0 && t.seen[i]
}

func (t Timings) Duration(stage Stage) time.Duration {
	if i := stage.index(); i >= 0 {
		return t.dur[i]
	}
	return 0
}

// Each calls fn for the recorded stages in pipeline order.
func (t Timings) Each(fn func(Stage, time.Duration)) {
	for i, st := range Stages {
		if t.seen[i] {
			fn(st, t.dur[i])
		}
	}
}

// Total sums the recorded durations, leaving out the stages in skip.
func (t Timings) Total(skip ...Stage) time.Duration {
	var total time.Duration
	t.Each(func(st Stage, d time.Duration) {
		for _, s := range skip {
			if s == st {
				return
			}
		}
		total += d
	})
	return total
}
