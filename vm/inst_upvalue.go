package vm

import . "github.com/lollipopkit/glua/api"

// R(A) := UpValue[B]
func getUpval(i Instruction, vm LuaVM) {
	a, b, _ := i.ABC()
	a += 1
	b += 1

	vm.Copy(LuaUpvalueIndex(b), a)
}

// UpValue[B] := R(A)
func setUpval(i Instruction, vm LuaVM) {
	a, b, _ := i.ABC()
	a += 1
	b += 1

	vm.Copy(a, LuaUpvalueIndex(b))
}

// R(A) := Gbl[Kst(Bx)]
func getGlobal(i Instruction, vm LuaVM) {
	a, bx := i.ABx()
	a += 1

	vm.PushGlobalTable()
	vm.GetConst(bx)
	vm.GetTable(-2)
	vm.Replace(a)
	vm.Pop(1)
}

// Gbl[Kst(Bx)] := R(A)
func setGlobal(i Instruction, vm LuaVM) {
	a, bx := i.ABx()
	a += 1

	vm.PushGlobalTable()
	vm.GetConst(bx)
	vm.PushValue(a)
	vm.SetTable(-3)
	vm.Pop(1)
}

// close all upvalues >= R(A)
func closeUps(i Instruction, vm LuaVM) {
	a, _, _ := i.ABC()
	vm.CloseUpvalues(a + 1)
}
