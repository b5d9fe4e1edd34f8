package vm

// intrinsicFunc runs one built-in against the caller's frame.
type intrinsicFunc func(vm *VM, frame *Frame) *Fault

var intrinsics = map[string]intrinsicFunc{
	"println":           (*VM).handlePrintln,
	"tick":              (*VM).handleTick,
	"integer_to_string": (*VM).handleIntegerToString,
}

func (vm *VM) callIntrinsic(frame *Frame, name string) *Fault {
	fn, ok := intrinsics[name]
	if !ok {
		return vm.fault(FaultMissingCode, "no intrinsic named %s", name)
	}
	return fn(vm, frame)
}

func (vm *VM) handlePrintln(frame *Frame) *Fault {
	v, err := vm.pop(frame)
	if err != nil {
		return err
	}
	vm.RT.Println(v.String())
	return nil
}

func (vm *VM) handleTick(frame *Frame) *Fault {
	frame.push(MakeInt(vm.RT.TickMillis()))
	return nil
}

func (vm *VM) handleIntegerToString(frame *Frame) *Fault {
	v, err := vm.pop(frame)
	if err != nil {
		return err
	}
	frame.push(MakeString(v.String()))
	return nil
}
