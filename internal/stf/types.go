// Package stf implements the Mesh Term Format: a versioned,
// self-describing binary codec for runtime values exchanged between
// nodes (§4.9). Every payload starts with a version byte followed by a
// single encoded value, tag-led so decoding never needs an external
// schema.
//
// The codec here operates on an in-memory Value tree rather than raw
// GC-heap pointers: the original runtime layout (contiguous u64 slots,
// GC-allocated headers) is a C-like memory model this Go module does not
// reimplement, so Value stands in for "the bits the encoder would read
// off a live Mesh object". The wire bytes produced and consumed are
// byte-for-byte identical to the original format regardless.
package stf

// Version is the single version byte written at the front of every
// payload. A mismatch on decode is always a hard error.
const Version byte = 1

// Tag is a one-byte wire type discriminator.
type Tag byte

const (
	TagInt        Tag = 1
	TagFloat      Tag = 2
	TagBoolTrue   Tag = 3
	TagBoolFalse  Tag = 4
	TagString     Tag = 5
	TagUnit       Tag = 6
	TagList       Tag = 10
	TagMap        Tag = 11
	TagSet        Tag = 12
	TagTuple      Tag = 13
	TagStruct     Tag = 20
	TagSumType    Tag = 21
	TagPid        Tag = 30
	TagOptionSome Tag = 40
	TagOptionNone Tag = 41
	TagResultOk   Tag = 42
	TagResultErr  Tag = 43
	TagClosure    Tag = 0xFF // never written; decoding it is always an error
)

// Safety limits enforced before any allocation (§4.9 "Safety limits").
const (
	MaxStringLen     = 16 * 1024 * 1024
	MaxCollectionLen = 1_000_000
	MaxNameLen       = 1<<16 - 1
)

// TypeKind is the closed set of shapes a type hint can take.
type TypeKind int

const (
	KindInt TypeKind = iota
	KindFloat
	KindBool
	KindString
	KindUnit
	KindPid
	KindList
	KindMap
	KindSet
	KindTuple
	KindStruct
	KindSumType
	KindOptionOf
	KindResultOf
	KindClosure
	KindFnPtr
)

// Type is a structural type hint mirroring MirType, telling the encoder
// how to interpret a Value's bits and telling the decoder what shape to
// reconstruct (§4.9 "Type hints").
type Type struct {
	Kind TypeKind

	Elem *Type // List, Set, OptionOf

	Key *Type // Map
	Val *Type // Map

	Ok  *Type // ResultOf
	Err *Type // ResultOf

	Elems []Type // Tuple

	Name     string      // Struct, SumType
	Fields   []FieldType // Struct
	Variants []Variant   // SumType
}

// FieldType names one struct field's declared type.
type FieldType struct {
	Name string
	Type Type
}

// Variant names one sum-type variant's field types.
type Variant struct {
	Name   string
	Fields []Type
}

func IntType() Type    { return Type{Kind: KindInt} }
func FloatType() Type  { return Type{Kind: KindFloat} }
func BoolType() Type   { return Type{Kind: KindBool} }
func StringType() Type { return Type{Kind: KindString} }
func UnitType() Type   { return Type{Kind: KindUnit} }
func PidType() Type    { return Type{Kind: KindPid} }

func ListOf(elem Type) Type   { return Type{Kind: KindList, Elem: &elem} }
func SetOf(elem Type) Type    { return Type{Kind: KindSet, Elem: &elem} }
func MapOf(key, val Type) Type { return Type{Kind: KindMap, Key: &key, Val: &val} }
func TupleOf(elems ...Type) Type { return Type{Kind: KindTuple, Elems: elems} }
func OptionOf(inner Type) Type { return Type{Kind: KindOptionOf, Elem: &inner} }
func ResultOf(ok, err Type) Type { return Type{Kind: KindResultOf, Ok: &ok, Err: &err} }
func StructOf(name string, fields []FieldType) Type {
	return Type{Kind: KindStruct, Name: name, Fields: fields}
}
func SumTypeOf(name string, variants []Variant) Type {
	return Type{Kind: KindSumType, Name: name, Variants: variants}
}
func ClosureType() Type { return Type{Kind: KindClosure} }
func FnPtrType() Type   { return Type{Kind: KindFnPtr} }

// ValueKind is the closed set of shapes a decoded/to-be-encoded value
// can take.
type ValueKind int

const (
	ValInt ValueKind = iota
	ValFloat
	ValBool
	ValString
	ValUnit
	ValPid
	ValList
	ValMap
	ValSet
	ValTuple
	ValStruct
	ValSum
	ValOption
	ValResult
)

// PID is a Mesh process identifier: node id, creation counter, and a
// local id packed as `node_id<<48 | creation<<40 | local_id` (§4.9, PID
// tag). Raw preserves the original packed form so a PID round-trips
// bit-for-bit even if the three components are never split apart.
type PID struct {
	Raw uint64
}

func (p PID) NodeID() uint16  { return uint16(p.Raw >> 48) }
func (p PID) Creation() uint8 { return uint8(p.Raw >> 40) }
func (p PID) LocalID() uint64 { return p.Raw & 0xFF_FFFF_FFFF }

func NewPID(nodeID uint16, creation uint8, localID uint64) PID {
	return PID{Raw: uint64(nodeID)<<48 | uint64(creation)<<40 | (localID & 0xFF_FFFF_FFFF)}
}

// MapEntry is one key/value pair of a Value of kind ValMap.
type MapEntry struct {
	Key Value
	Val Value
}

// Field is one named field of a Value of kind ValStruct.
type Field struct {
	Name string
	Val  Value
}

// Value is an in-memory Mesh runtime value ready for encoding, or the
// result of decoding one. Only the field(s) matching Kind are
// meaningful.
type Value struct {
	Kind ValueKind

	Int    int64
	Float  float64
	Bool   bool
	String string
	Pid    PID

	List []Value

	// MapKeyTag is a key-type classification independent of the map's
	// declared key Type (int=0, float=1, bool=2, string=3, other=4) —
	// mirrors the runtime's own key_type_tag field, which the original
	// encoder reads from a location separate from the keys' own encoded
	// values (§4.9 "Map" row; original_source wire.rs key_type_tag).
	MapKeyTag byte
	Map       []MapEntry

	Set []Value

	Tuple []Value

	StructName string
	Struct     []Field

	SumName string
	SumTag  uint8
	Sum     []Value

	// Option/Result share a tag+payload shape at the value level too.
	OptionSome   bool
	OptionInner  *Value
	ResultOk     bool
	ResultInner  *Value
}

func Int(v int64) Value    { return Value{Kind: ValInt, Int: v} }
func Float(v float64) Value { return Value{Kind: ValFloat, Float: v} }
func Bool(v bool) Value    { return Value{Kind: ValBool, Bool: v} }
func Str(v string) Value   { return Value{Kind: ValString, String: v} }
func Unit() Value          { return Value{Kind: ValUnit} }
func PidValue(p PID) Value { return Value{Kind: ValPid, Pid: p} }

func ListValue(elems []Value) Value { return Value{Kind: ValList, List: elems} }
func SetValue(elems []Value) Value  { return Value{Kind: ValSet, Set: elems} }
func TupleValue(elems []Value) Value { return Value{Kind: ValTuple, Tuple: elems} }

func MapValue(keyTag byte, entries []MapEntry) Value {
	return Value{Kind: ValMap, MapKeyTag: keyTag, Map: entries}
}

func StructValue(name string, fields []Field) Value {
	return Value{Kind: ValStruct, StructName: name, Struct: fields}
}

func SumValue(name string, tag uint8, fields []Value) Value {
	return Value{Kind: ValSum, SumName: name, SumTag: tag, Sum: fields}
}

func Some(inner Value) Value { return Value{Kind: ValOption, OptionSome: true, OptionInner: &inner} }
func None() Value            { return Value{Kind: ValOption, OptionSome: false} }

func Ok(inner Value) Value  { return Value{Kind: ValResult, ResultOk: true, ResultInner: &inner} }
func Err(inner Value) Value { return Value{Kind: ValResult, ResultOk: false, ResultInner: &inner} }
