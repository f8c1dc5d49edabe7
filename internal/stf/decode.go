package stf

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// DecodeValue validates the version byte then decodes a single value
// (§4.9 "Framing"). Returns the decoded value and the Type reconstructed
// from the wire bytes.
func DecodeValue(data []byte) (Value, Type, error) {
	if len(data) == 0 {
		return Value{}, Type{}, errUnexpectedEOF()
	}
	if data[0] != Version {
		return Value{}, Type{}, errInvalidVersion(data[0])
	}
	pos := 1
	return decode(data, &pos)
}

// decode reads one tagged value from data starting at *pos, advancing
// *pos past the consumed bytes.
func decode(data []byte, pos *int) (Value, Type, error) {
	tag, err := readU8(data, pos)
	if err != nil {
		return Value{}, Type{}, err
	}
	switch Tag(tag) {
	case TagInt:
		raw, err := readUint64LE(data, pos)
		if err != nil {
			return Value{}, Type{}, err
		}
		return Int(int64(raw)), IntType(), nil

	case TagFloat:
		raw, err := readUint64LE(data, pos)
		if err != nil {
			return Value{}, Type{}, err
		}
		return Float(math.Float64frombits(raw)), FloatType(), nil

	case TagBoolTrue:
		return Bool(true), BoolType(), nil

	case TagBoolFalse:
		return Bool(false), BoolType(), nil

	case TagString:
		length, err := readUint32LE(data, pos)
		if err != nil {
			return Value{}, Type{}, err
		}
		if length > MaxStringLen {
			return Value{}, Type{}, errPayloadTooLarge(uint64(length))
		}
		raw, err := readBytes(data, pos, int(length))
		if err != nil {
			return Value{}, Type{}, err
		}
		if !utf8.Valid(raw) {
			return Value{}, Type{}, errInvalidUTF8()
		}
		return Str(string(raw)), StringType(), nil

	case TagUnit:
		return Unit(), UnitType(), nil

	case TagPid:
		raw, err := readUint64LE(data, pos)
		if err != nil {
			return Value{}, Type{}, err
		}
		return PidValue(PID{Raw: raw}), PidType(), nil

	case TagClosure:
		return Value{}, Type{}, errClosureNotSerializable()

	case TagList:
		return decodeList(data, pos)

	case TagMap:
		return decodeMap(data, pos)

	case TagSet:
		return decodeSet(data, pos)

	case TagTuple:
		return decodeTuple(data, pos)

	case TagStruct:
		return decodeStruct(data, pos)

	case TagSumType:
		return decodeSum(data, pos)

	case TagOptionSome:
		inner, innerTy, err := decode(data, pos)
		if err != nil {
			return Value{}, Type{}, err
		}
		return Some(inner), OptionOf(innerTy), nil

	case TagOptionNone:
		return None(), OptionOf(UnitType()), nil

	case TagResultOk:
		inner, innerTy, err := decode(data, pos)
		if err != nil {
			return Value{}, Type{}, err
		}
		return Ok(inner), ResultOf(innerTy, UnitType()), nil

	case TagResultErr:
		inner, innerTy, err := decode(data, pos)
		if err != nil {
			return Value{}, Type{}, err
		}
		return Err(inner), ResultOf(UnitType(), innerTy), nil

	default:
		return Value{}, Type{}, errInvalidTag(tag)
	}
}

func decodeList(data []byte, pos *int) (Value, Type, error) {
	count, err := readUint32LE(data, pos)
	if err != nil {
		return Value{}, Type{}, err
	}
	if count > MaxCollectionLen {
		return Value{}, Type{}, errPayloadTooLarge(uint64(count))
	}
	elems := make([]Value, count)
	elemTy := UnitType()
	for i := uint32(0); i < count; i++ {
		v, ty, err := decode(data, pos)
		if err != nil {
			return Value{}, Type{}, err
		}
		elems[i] = v
		if i == 0 {
			elemTy = ty
		}
	}
	return ListValue(elems), ListOf(elemTy), nil
}

func decodeSet(data []byte, pos *int) (Value, Type, error) {
	count, err := readUint32LE(data, pos)
	if err != nil {
		return Value{}, Type{}, err
	}
	if count > MaxCollectionLen {
		return Value{}, Type{}, errPayloadTooLarge(uint64(count))
	}
	elems := make([]Value, count)
	elemTy := UnitType()
	for i := uint32(0); i < count; i++ {
		v, ty, err := decode(data, pos)
		if err != nil {
			return Value{}, Type{}, err
		}
		elems[i] = v
		if i == 0 {
			elemTy = ty
		}
	}
	return SetValue(elems), SetOf(elemTy), nil
}

// decodeMap reconstructs a Map(K, V) type hint from only the first
// decoded entry, same as the list/set decoders — an intentional,
// documented degradation rather than a bug (an empty map gets the
// default Map(Int, Unit) hint, and later entries of a different type
// are not reflected; round-trip of the values themselves is still
// exact).
func decodeMap(data []byte, pos *int) (Value, Type, error) {
	keyTag, err := readU8(data, pos)
	if err != nil {
		return Value{}, Type{}, err
	}
	count, err := readUint32LE(data, pos)
	if err != nil {
		return Value{}, Type{}, err
	}
	if count > MaxCollectionLen {
		return Value{}, Type{}, errPayloadTooLarge(uint64(count))
	}
	entries := make([]MapEntry, count)
	keyTy, valTy := IntType(), UnitType()
	for i := uint32(0); i < count; i++ {
		k, kt, err := decode(data, pos)
		if err != nil {
			return Value{}, Type{}, err
		}
		v, vt, err := decode(data, pos)
		if err != nil {
			return Value{}, Type{}, err
		}
		entries[i] = MapEntry{Key: k, Val: v}
		if i == 0 {
			keyTy, valTy = kt, vt
		}
	}
	return MapValue(keyTag, entries), MapOf(keyTy, valTy), nil
}

func decodeTuple(data []byte, pos *int) (Value, Type, error) {
	arity, err := readU8(data, pos)
	if err != nil {
		return Value{}, Type{}, err
	}
	elems := make([]Value, arity)
	elemTypes := make([]Type, arity)
	for i := byte(0); i < arity; i++ {
		v, ty, err := decode(data, pos)
		if err != nil {
			return Value{}, Type{}, err
		}
		elems[i] = v
		elemTypes[i] = ty
	}
	return TupleValue(elems), TupleOf(elemTypes...), nil
}

func decodeStruct(data []byte, pos *int) (Value, Type, error) {
	name, err := readName(data, pos)
	if err != nil {
		return Value{}, Type{}, err
	}
	fieldCount, err := readU16(data, pos)
	if err != nil {
		return Value{}, Type{}, err
	}
	fields := make([]Field, fieldCount)
	fieldTypes := make([]FieldType, fieldCount)
	for i := uint16(0); i < fieldCount; i++ {
		fieldName, err := readName(data, pos)
		if err != nil {
			return Value{}, Type{}, err
		}
		v, ty, err := decode(data, pos)
		if err != nil {
			return Value{}, Type{}, err
		}
		fields[i] = Field{Name: fieldName, Val: v}
		fieldTypes[i] = FieldType{Name: fieldName, Type: ty}
	}
	return StructValue(name, fields), StructOf(name, fieldTypes), nil
}

// decodeSum mirrors the original decoder's placeholder-variants
// reconstruction: the returned SumType hint has one Variant entry per
// index up to and including the decoded tag, with every index other
// than the tag left as an empty placeholder (§4 supplemented behavior,
// original_source wire.rs `stf_decode`'s TAG_SUM_TYPE arm).
func decodeSum(data []byte, pos *int) (Value, Type, error) {
	name, err := readName(data, pos)
	if err != nil {
		return Value{}, Type{}, err
	}
	variantTag, err := readU8(data, pos)
	if err != nil {
		return Value{}, Type{}, err
	}
	fieldCount, err := readU16(data, pos)
	if err != nil {
		return Value{}, Type{}, err
	}
	fields := make([]Value, fieldCount)
	fieldTypes := make([]Type, fieldCount)
	for i := uint16(0); i < fieldCount; i++ {
		v, ty, err := decode(data, pos)
		if err != nil {
			return Value{}, Type{}, err
		}
		fields[i] = v
		fieldTypes[i] = ty
	}
	variants := make([]Variant, int(variantTag)+1)
	for i := range variants {
		if i == int(variantTag) {
			variants[i] = Variant{Fields: fieldTypes}
		}
	}
	return SumValue(name, variantTag, fields), SumTypeOf(name, variants), nil
}

func readU8(data []byte, pos *int) (byte, error) {
	if *pos >= len(data) {
		return 0, errUnexpectedEOF()
	}
	b := data[*pos]
	*pos++
	return b, nil
}

func readU16(data []byte, pos *int) (uint16, error) {
	return readUint16LE(data, pos)
}

func readBytes(data []byte, pos *int, n int) ([]byte, error) {
	if *pos+n > len(data) {
		return nil, errUnexpectedEOF()
	}
	out := data[*pos : *pos+n]
	*pos += n
	return out, nil
}

func readName(data []byte, pos *int) (string, error) {
	length, err := readUint16LE(data, pos)
	if err != nil {
		return "", err
	}
	if length > MaxNameLen {
		return "", errPayloadTooLarge(uint64(length))
	}
	raw, err := readBytes(data, pos, int(length))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", errInvalidUTF8()
	}
	return string(raw), nil
}

func readUint16LE(data []byte, pos *int) (uint16, error) {
	raw, err := readBytes(data, pos, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(raw), nil
}

func readUint32LE(data []byte, pos *int) (uint32, error) {
	raw, err := readBytes(data, pos, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(raw), nil
}

func readUint64LE(data []byte, pos *int) (uint64, error) {
	raw, err := readBytes(data, pos, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(raw), nil
}
