package binchunk

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleProto() *Prototype {
	return &Prototype{
		Source:          "@sample.lua",
		LineDefined:     0,
		LastLineDefined: 3,
		NumParams:       0,
		IsVararg:        1,
		MaxStackSize:    4,
		Code:            []uint32{0x4000001, 0x800001, 0x1000000},
		Constants:       []any{nil, true, 42.5, "hello"},
		Upvalues:        []Upvalue{{Instack: 1, Idx: 0}},
		UpvalueNames:    []string{"x"},
		LineInfo:        []uint32{1, 2, 3},
		Protos: []*Prototype{
			{
				LineDefined:     2,
				LastLineDefined: 2,
				NumParams:       1,
				MaxStackSize:    2,
				Code:            []uint32{0x1000000},
				Constants:       []any{},
				Upvalues:        []Upvalue{},
			},
		},
		LocVars: []LocVar{{VarName: "a", StartPC: 1, EndPC: 3}},
	}
}

func TestDumpUndumpRoundTrip(t *testing.T) {
	proto := sampleProto()
	data, err := proto.Dump("hash123")
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !IsChunk(data) {
		t.Fatal("dumped chunk does not carry the signature")
	}

	got, err := Undump(data)
	if err != nil {
		t.Fatalf("undump: %v", err)
	}
	if diff := cmp.Diff(proto, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestVerifyHash(t *testing.T) {
	proto := sampleProto()
	data, err := proto.Dump("goodhash")
	if err != nil {
		t.Fatalf("dump: %v", err)
	}

	if _, err := Verify(data, "goodhash"); err != nil {
		t.Errorf("matching hash rejected: %v", err)
	}
	if _, err := Verify(data, "otherhash"); !errors.Is(err, ErrMismatchedHash) {
		t.Errorf("stale chunk not detected: %v", err)
	}
}

func TestUndumpRejectsGarbage(t *testing.T) {
	if _, err := Undump([]byte("print('hi')")); !errors.Is(err, ErrNotAChunk) {
		t.Errorf("plain source accepted as chunk: %v", err)
	}
	if _, err := Undump([]byte(SIGNATURE + "{broken")); err == nil {
		t.Errorf("truncated chunk accepted")
	}
}

func TestNumbersDecodeAsFloats(t *testing.T) {
	proto := &Prototype{Constants: []any{1.0, 2.5}, Code: []uint32{}, Upvalues: []Upvalue{}}
	data, err := proto.Dump("")
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	got, err := Undump(data)
	if err != nil {
		t.Fatalf("undump: %v", err)
	}
	for i, k := range got.Constants {
		if _, ok := k.(float64); !ok {
			t.Errorf("constant %d decoded as %T, want float64", i, k)
		}
	}
}
