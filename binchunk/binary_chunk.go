package binchunk

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	SIGNATURE = "\x1bGLua"
	VERSION   = "1"
)

var (
	ErrNotAChunk        = errors.New("not a precompiled chunk")
	ErrMismatchedHash   = errors.New("mismatched source hash")
	ErrMismatchVersion  = errors.New("mismatched chunk version")
)

// Prototype is the compile-time representation of one function body.
// Field tags keep dumped chunks compact.
type Prototype struct {
	Source          string       `json:"s,omitempty"` // debug
	LineDefined     uint32       `json:"ld"`
	LastLineDefined uint32       `json:"lld"`
	NumParams       byte         `json:"np"`
	IsVararg        byte         `json:"iv"`
	MaxStackSize    byte         `json:"ms"`
	Code            []uint32     `json:"c"`
	Constants       []any        `json:"k"`
	Upvalues        []Upvalue    `json:"us"`
	Protos          []*Prototype `json:"ps,omitempty"`
	LineInfo        []uint32     `json:"li,omitempty"`  // debug
	LocVars         []LocVar     `json:"lvs,omitempty"` // debug
	UpvalueNames    []string     `json:"uns,omitempty"` // debug
}

// Upvalue describes how one upvalue of this prototype binds in the
// enclosing function: a local register (Instack=1, Idx=slot) or an
// upvalue of the parent (Instack=0, Idx=index).
type Upvalue struct {
	Instack byte `json:"is"`
	Idx     byte `json:"idx"`
}

type LocVar struct {
	VarName string `json:"vn"`
	StartPC uint32 `json:"spc"`
	EndPC   uint32 `json:"epc"`
}

type header struct {
	Version string `json:"v"`
	Hash    string `json:"h"`
}

// Dump serializes the prototype tree, stamped with the hash of the
// source it was compiled from.
func (proto *Prototype) Dump(srcHash string) ([]byte, error) {
	head, err := json.Marshal(header{VERSION, srcHash})
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(proto)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(SIGNATURE)
	buf.Write(head)
	buf.WriteByte('\n')
	buf.Write(body)
	return buf.Bytes(), nil
}

// IsChunk reports whether data looks like a dumped chunk.
func IsChunk(data []byte) bool {
	return bytes.HasPrefix(data, []byte(SIGNATURE))
}

// Undump decodes a dumped chunk without verifying its source hash.
func Undump(data []byte) (*Prototype, error) {
	proto, _, err := undump(data)
	return proto, err
}

// Verify decodes a dumped chunk and checks it against the hash of the
// current source text, so stale chunks recompile.
func Verify(data []byte, srcHash string) (*Prototype, error) {
	proto, head, err := undump(data)
	if err != nil {
		return nil, err
	}
	if head.Version != VERSION {
		return nil, fmt.Errorf("%w: chunk %q, runtime %q", ErrMismatchVersion, head.Version, VERSION)
	}
	if srcHash != "" && head.Hash != srcHash {
		return nil, ErrMismatchedHash
	}
	return proto, nil
}

func undump(data []byte) (*Prototype, header, error) {
	var head header
	if !IsChunk(data) {
		return nil, head, ErrNotAChunk
	}
	rest := string(data[len(SIGNATURE):])
	nl := strings.IndexByte(rest, '\n')
	if nl < 0 {
		return nil, head, ErrNotAChunk
	}

	// header is a flat json object; gjson keeps the sniff cheap
	head.Version = gjson.Get(rest[:nl], "v").String()
	head.Hash = gjson.Get(rest[:nl], "h").String()

	// json decodes every constant number as float64, which is exactly
	// the Lua value representation, so no post-processing is needed.
	var proto Prototype
	if err := json.UnmarshalFromString(rest[nl+1:], &proto); err != nil {
		return nil, head, err
	}
	return &proto, head, nil
}
