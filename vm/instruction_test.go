package vm

import "testing"

func TestABCRoundTrip(t *testing.T) {
	for _, c := range []struct{ a, b, c int }{
		{0, 0, 0}, {7, 300, 12}, {255, 511, 511},
	} {
		i := Instruction(c.b<<23 | c.c<<14 | c.a<<6 | OP_ADD)
		a, b, cc := i.ABC()
		if a != c.a || b != c.b || cc != c.c {
			t.Errorf("ABC(%v): got %d %d %d", c, a, b, cc)
		}
		if i.Opcode() != OP_ADD {
			t.Errorf("opcode lost")
		}
	}
}

func TestAsBxRoundTrip(t *testing.T) {
	for _, sbx := range []int{0, 1, -1, 1000, -1000, MAXARG_sBx, -MAXARG_sBx} {
		i := Instruction((sbx+MAXARG_sBx)<<14 | 3<<6 | OP_JMP)
		a, got := i.AsBx()
		if a != 3 || got != sbx {
			t.Errorf("AsBx(%d): got a=%d sbx=%d", sbx, a, got)
		}
	}
}

func TestOpcodeTableConsistent(t *testing.T) {
	if len(opcodes) != OP_EXTRAARG+1 {
		t.Fatalf("opcode table has %d entries, want %d", len(opcodes), OP_EXTRAARG+1)
	}
	for op, info := range opcodes {
		if op != OP_EXTRAARG && info.action == nil {
			t.Errorf("opcode %s has no action", info.name)
		}
	}
}

func TestFpbRoundTrip(t *testing.T) {
	for _, x := range []int{0, 1, 7, 8, 9, 15, 16, 50, 100, 1000, 5000} {
		fb := Int2fb(x)
		back := Fb2int(fb)
		if back < x {
			t.Errorf("Fb2int(Int2fb(%d)) = %d, must not shrink", x, back)
		}
	}
}
