package vm

/*
Instruction words are 32 bits with the opcode in the low 6 bits.
Field layout, from the low end:

	iABC:   op:6  a:8  c:9  b:9
	iABx:   op:6  a:8  bx:18
	iAsBx:  op:6  a:8  sbx:18  (stored excess-MAXARG_sBx)
	iAx:    op:6  ax:26
*/
const (
	sizeOp = 6
	sizeA  = 8
	sizeC  = 9
	sizeB  = 9
	sizeBx = sizeC + sizeB
	sizeAx = sizeA + sizeBx

	posA  = sizeOp
	posC  = posA + sizeA
	posB  = posC + sizeC
	posBx = posC
	posAx = posA
)

const (
	MAXARG_Bx  = 1<<sizeBx - 1  // 262143
	MAXARG_sBx = MAXARG_Bx >> 1 // 131071
)

type Instruction uint32

func (self Instruction) field(pos, size int) int {
	return int(self>>uint(pos)) & (1<<size - 1)
}

func (self Instruction) Opcode() int {
	return self.field(0, sizeOp)
}

func (self Instruction) ABC() (a, b, c int) {
	return self.field(posA, sizeA),
		self.field(posB, sizeB),
		self.field(posC, sizeC)
}

func (self Instruction) ABx() (a, bx int) {
	return self.field(posA, sizeA), self.field(posBx, sizeBx)
}

func (self Instruction) AsBx() (a, sbx int) {
	a, bx := self.ABx()
	return a, bx - MAXARG_sBx
}

func (self Instruction) Ax() int {
	return self.field(posAx, sizeAx)
}
