package fuzztests

import (
	"context"
	"errors"
	"testing"

	"playscript/internal/bytecode"
	"playscript/internal/driver"
	"playscript/internal/vm"
)

// maxSteps bounds fuzzed programs, which may legitimately loop forever.
const maxSteps = 100_000

func FuzzCompileAndRun(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)
		res, err := driver.CompileSource(context.Background(), "fuzz.play", input, driver.Options{MaxDiagnostics: 32})
		if err != nil {
			t.Fatalf("compile: %v", err)
		}
		if !res.OK() || res.Module == nil {
			return
		}

		data, err := bytecode.Encode(res.Module)
		if err != nil {
			// string or constant tables past the wire limits
			return
		}
		m, err := bytecode.DecodeModule(data)
		if err != nil {
			t.Fatalf("decode of a freshly encoded module: %v", err)
		}

		machine := vm.New(m, vm.Options{Runtime: vm.NewTestRuntime(), MaxDepth: 256})
		if fault := machine.Start(); fault != nil {
			t.Fatalf("start: %v", fault)
		}
		for i := 0; i < maxSteps && !machine.Halted; i++ {
			fault := machine.Step()
			if fault == nil {
				continue
			}
			switch fault.Code {
			case vm.FaultDivideByZero, vm.FaultCallDepth:
				return
			}
			t.Fatalf("fault in checked program: %s", fault.Format())
		}
	})
}

func FuzzModuleDecode(f *testing.F) {
	for _, src := range languageSeeds {
		res, err := driver.CompileSource(context.Background(), "seed.play", []byte(src), driver.Options{})
		if err != nil || !res.OK() || res.Module == nil {
			continue
		}
		if data, err := bytecode.Encode(res.Module); err == nil {
			f.Add(data)
		}
	}
	f.Add([]byte{})
	f.Add([]byte{0xCA, 0xFE, 0xBA, 0xBE})

	f.Fuzz(func(t *testing.T, data []byte) {
		m, err := bytecode.DecodeModule(clamp(data, maxFuzzInput))
		if err != nil {
			if !errors.Is(err, bytecode.ErrMalformed) {
				t.Fatalf("decode error does not wrap ErrMalformed: %v", err)
			}
			return
		}
		if _, err := bytecode.Encode(m); err != nil {
			t.Fatalf("re-encode of a decoded module: %v", err)
		}
	})
}
