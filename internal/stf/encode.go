package stf

import (
	"encoding/binary"
	"math"
)

// EncodeValue encodes v under the structural type hint into a complete
// STF payload: `[version byte][encoded value]` (§4.9 "Framing").
func EncodeValue(v Value, hint Type) ([]byte, error) {
	buf := make([]byte, 0, 64)
	buf = append(buf, Version)
	buf, err := encode(buf, v, hint)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// encode appends the tag-led encoding of v (without a version byte) to
// buf, per the type hint. Never allocates into caller-visible state
// beyond buf; never calls anything that could block or fail
// non-deterministically (§4.9 "Encoder contract").
func encode(buf []byte, v Value, hint Type) ([]byte, error) {
	switch hint.Kind {
	case KindInt:
		buf = append(buf, byte(TagInt))
		return appendUint64LE(buf, uint64(v.Int)), nil

	case KindFloat:
		buf = append(buf, byte(TagFloat))
		return appendUint64LE(buf, math.Float64bits(v.Float)), nil

	case KindBool:
		if v.Bool {
			buf = append(buf, byte(TagBoolTrue))
		} else {
			buf = append(buf, byte(TagBoolFalse))
		}
		return buf, nil

	case KindString:
		buf = append(buf, byte(TagString))
		raw := []byte(v.String)
		if len(raw) > MaxStringLen {
			return nil, errPayloadTooLarge(uint64(len(raw)))
		}
		buf = appendUint32LE(buf, uint32(len(raw)))
		return append(buf, raw...), nil

	case KindUnit:
		return append(buf, byte(TagUnit)), nil

	case KindPid:
		buf = append(buf, byte(TagPid))
		return appendUint64LE(buf, v.Pid.Raw), nil

	case KindClosure, KindFnPtr:
		return nil, errClosureNotSerializable()

	case KindList:
		return encodeList(buf, v.List, *hint.Elem)

	case KindSet:
		buf = append(buf, byte(TagSet))
		if len(v.Set) > MaxCollectionLen {
			return nil, errPayloadTooLarge(uint64(len(v.Set)))
		}
		buf = appendUint32LE(buf, uint32(len(v.Set)))
		for _, elem := range v.Set {
			var err error
			buf, err = encode(buf, elem, *hint.Elem)
			if err != nil {
				return nil, err
			}
		}
		return buf, nil

	case KindMap:
		buf = append(buf, byte(TagMap))
		if len(v.Map) > MaxCollectionLen {
			return nil, errPayloadTooLarge(uint64(len(v.Map)))
		}
		buf = append(buf, v.MapKeyTag)
		buf = appendUint32LE(buf, uint32(len(v.Map)))
		for _, entry := range v.Map {
			var err error
			buf, err = encode(buf, entry.Key, *hint.Key)
			if err != nil {
				return nil, err
			}
			buf, err = encode(buf, entry.Val, *hint.Val)
			if err != nil {
				return nil, err
			}
		}
		return buf, nil

	case KindTuple:
		buf = append(buf, byte(TagTuple))
		buf = append(buf, byte(len(hint.Elems)))
		for i, et := range hint.Elems {
			var err error
			buf, err = encode(buf, v.Tuple[i], et)
			if err != nil {
				return nil, err
			}
		}
		return buf, nil

	case KindStruct:
		return encodeStruct(buf, v, hint)

	case KindSumType:
		return encodeSum(buf, v, hint)

	case KindOptionOf:
		if v.OptionSome {
			buf = append(buf, byte(TagOptionSome))
			return encode(buf, *v.OptionInner, *hint.Elem)
		}
		return append(buf, byte(TagOptionNone)), nil

	case KindResultOf:
		if v.ResultOk {
			buf = append(buf, byte(TagResultOk))
			return encode(buf, *v.ResultInner, *hint.Ok)
		}
		buf = append(buf, byte(TagResultErr))
		return encode(buf, *v.ResultInner, *hint.Err)

	default:
		return nil, errInvalidTag(0)
	}
}

func encodeList(buf []byte, elems []Value, elemTy Type) ([]byte, error) {
	buf = append(buf, byte(TagList))
	if len(elems) > MaxCollectionLen {
		return nil, errPayloadTooLarge(uint64(len(elems)))
	}
	buf = appendUint32LE(buf, uint32(len(elems)))
	for _, elem := range elems {
		var err error
		buf, err = encode(buf, elem, elemTy)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func encodeStruct(buf []byte, v Value, hint Type) ([]byte, error) {
	buf = append(buf, byte(TagStruct))
	nameBytes := []byte(hint.Name)
	if len(nameBytes) > MaxNameLen {
		return nil, errPayloadTooLarge(uint64(len(nameBytes)))
	}
	buf = appendUint16LE(buf, uint16(len(nameBytes)))
	buf = append(buf, nameBytes...)
	buf = appendUint16LE(buf, uint16(len(hint.Fields)))
	for i, ft := range hint.Fields {
		fieldNameBytes := []byte(ft.Name)
		if len(fieldNameBytes) > MaxNameLen {
			return nil, errPayloadTooLarge(uint64(len(fieldNameBytes)))
		}
		buf = appendUint16LE(buf, uint16(len(fieldNameBytes)))
		buf = append(buf, fieldNameBytes...)
		var err error
		buf, err = encode(buf, v.Struct[i].Val, ft.Type)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func encodeSum(buf []byte, v Value, hint Type) ([]byte, error) {
	buf = append(buf, byte(TagSumType))
	nameBytes := []byte(hint.Name)
	if len(nameBytes) > MaxNameLen {
		return nil, errPayloadTooLarge(uint64(len(nameBytes)))
	}
	buf = appendUint16LE(buf, uint16(len(nameBytes)))
	buf = append(buf, nameBytes...)
	buf = append(buf, v.SumTag)
	if int(v.SumTag) >= len(hint.Variants) {
		return nil, errInvalidTag(v.SumTag)
	}
	fieldTypes := hint.Variants[v.SumTag].Fields
	buf = appendUint16LE(buf, uint16(len(fieldTypes)))
	for i, ft := range fieldTypes {
		var err error
		buf, err = encode(buf, v.Sum[i], ft)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func appendUint16LE(buf []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendUint32LE(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendUint64LE(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}
