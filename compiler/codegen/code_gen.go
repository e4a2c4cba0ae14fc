package codegen

import (
	. "github.com/lollipopkit/glua/binchunk"
	. "github.com/lollipopkit/glua/compiler/ast"
)

// GenProto lowers a parsed chunk to its prototype tree. The chunk
// itself becomes a vararg function.
func GenProto(chunk *Block, chunkName string) *Prototype {
	fd := &FuncDefExp{
		LastLine: chunk.LastLine,
		IsVararg: true,
		Block:    chunk,
	}

	fi := newFuncInfo(nil, fd)
	cgFuncDefExp(fi, fd, 0)
	return toProto(fi.subFuncs[0], "@"+chunkName)
}
