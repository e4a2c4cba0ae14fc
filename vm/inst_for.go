package vm

import . "github.com/lollipopkit/glua/api"

// R(A) -= R(A+2); pc += sBx
func forPrep(i Instruction, vm LuaVM) {
	a, sBx := i.AsBx()
	a += 1

	// coerce the three control values to numbers once, up front
	names := []string{"initial value", "limit", "step"}
	for j := 0; j < 3; j++ {
		if f, ok := vm.ToNumberX(a + j); ok {
			vm.PushNumber(f)
			vm.Replace(a + j)
		} else {
			vm.Error2("'for' %s must be a number", names[j])
		}
	}
	if vm.ToNumber(a+2) == 0 {
		vm.Error2("'for' step is zero")
	}

	vm.PushValue(a)
	vm.PushValue(a + 2)
	vm.Arith(LUA_OPSUB)
	vm.Replace(a)
	vm.AddPC(sBx)
}

// R(A) += R(A+2)
// if R(A) <?= R(A+1) then { pc += sBx; R(A+3) = R(A) }
func forLoop(i Instruction, vm LuaVM) {
	a, sBx := i.AsBx()
	a += 1

	step := vm.ToNumber(a + 2)
	idx := vm.ToNumber(a) + step
	limit := vm.ToNumber(a + 1)

	vm.PushNumber(idx)
	vm.Replace(a)

	if (step > 0 && idx <= limit) || (step < 0 && idx >= limit) {
		vm.AddPC(sBx)   // jump back to loop body
		vm.Copy(a, a+3) // expose the control variable
	}
}

// R(A+3), ... ,R(A+2+C) := R(A)(R(A+1), R(A+2))
// if R(A+3) ~= nil then R(A+2) = R(A+3) else pc++
func tForLoop(i Instruction, vm LuaVM) {
	a, _, c := i.ABC()
	a += 1

	vm.CheckStack(3)
	vm.PushValue(a)     // iterator function
	vm.PushValue(a + 1) // state
	vm.PushValue(a + 2) // control
	vm.Call(2, c)

	for j := a + 2 + c; j > a+2; j-- {
		vm.Replace(j)
	}

	if vm.IsNil(a + 3) {
		vm.AddPC(1) // loop is done, skip the back jump
	} else {
		vm.Copy(a+3, a+2) // next control value
	}
}
