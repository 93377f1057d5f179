package chain

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// ClarityType is the wire-format type tag of a Clarity value.
type ClarityType byte

// Type tags from the Clarity consensus serialization.
const (
	TypeInt               ClarityType = 0x00
	TypeUInt              ClarityType = 0x01
	TypeBuffer            ClarityType = 0x02
	TypeBoolTrue          ClarityType = 0x03
	TypeBoolFalse         ClarityType = 0x04
	TypePrincipalStandard ClarityType = 0x05
	TypePrincipalContract ClarityType = 0x06
	TypeResponseOk        ClarityType = 0x07
	TypeResponseErr       ClarityType = 0x08
	TypeOptionalNone      ClarityType = 0x09
	TypeOptionalSome      ClarityType = 0x0a
	TypeList              ClarityType = 0x0b
	TypeTuple             ClarityType = 0x0c
	TypeStringASCII       ClarityType = 0x0d
	TypeStringUTF8        ClarityType = 0x0e
)

// Value is a decoded Clarity value. Exactly one payload field is meaningful,
// selected by Type.
type Value struct {
	Type      ClarityType
	Uint      uint64
	Int       int64
	Bytes     []byte // buffer and string payloads
	Principal Principal
	Inner     *Value // optional some / response payload
	List      []Value
	Tuple     map[string]Value
}

// Constructors for argument building.

func UintValue(u uint64) Value   { return Value{Type: TypeUInt, Uint: u} }
func IntValue(i int64) Value     { return Value{Type: TypeInt, Int: i} }
func BufferValue(b []byte) Value { return Value{Type: TypeBuffer, Bytes: b} }
func StringASCIIValue(s string) Value {
	return Value{Type: TypeStringASCII, Bytes: []byte(s)}
}
func StringUTF8Value(s string) Value {
	return Value{Type: TypeStringUTF8, Bytes: []byte(s)}
}

func BoolValue(b bool) Value {
	if b {
		return Value{Type: TypeBoolTrue}
	}
	return Value{Type: TypeBoolFalse}
}

func NoneValue() Value        { return Value{Type: TypeOptionalNone} }
func SomeValue(v Value) Value { return Value{Type: TypeOptionalSome, Inner: &v} }
func OkValue(v Value) Value   { return Value{Type: TypeResponseOk, Inner: &v} }
func ErrValue(v Value) Value  { return Value{Type: TypeResponseErr, Inner: &v} }

func ListValue(vs ...Value) Value { return Value{Type: TypeList, List: vs} }

func TupleValue(fields map[string]Value) Value {
	return Value{Type: TypeTuple, Tuple: fields}
}

// PrincipalValue parses a c32 principal (standard or "addr.contract") into
// a Clarity value.
func PrincipalValue(s string) (Value, error) {
	p, err := ParsePrincipal(s)
	if err != nil {
		return Value{}, err
	}
	if p.Contract != "" {
		return Value{Type: TypePrincipalContract, Principal: p}, nil
	}
	return Value{Type: TypePrincipalStandard, Principal: p}, nil
}

// Bool reports the boolean payload; false for non-boolean values.
func (v Value) Bool() bool {
	return v.Type == TypeBoolTrue
}

// IsNone reports whether the value is the empty optional.
func (v Value) IsNone() bool {
	return v.Type == TypeOptionalNone
}

// Unwrap strips response and optional wrappers, returning the innermost
// value. (ok (some x)) → x. none unwraps to itself.
func (v Value) Unwrap() Value {
	switch v.Type {
	case TypeResponseOk, TypeResponseErr, TypeOptionalSome:
		if v.Inner != nil {
			return v.Inner.Unwrap()
		}
	}
	return v
}

// Field looks up a tuple field, trying each candidate name in turn. The
// contract's reply schema has been seen with both hyphenated and camel-case
// keys, so callers pass both spellings.
func (v Value) Field(names ...string) (Value, bool) {
	if v.Type != TypeTuple {
		return Value{}, false
	}
	for _, name := range names {
		if fv, ok := v.Tuple[name]; ok {
			return fv, true
		}
	}
	return Value{}, false
}

// Encode serializes the value into the Clarity consensus wire format.
func (v Value) Encode() ([]byte, error) {
	var out []byte
	return v.appendTo(out)
}

// EncodeHex returns the serialized value as a 0x-prefixed hex string, the
// form the node's call-read endpoint takes as arguments.
func (v Value) EncodeHex() (string, error) {
	b, err := v.Encode()
	if err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(b), nil
}

func (v Value) appendTo(out []byte) ([]byte, error) {
	out = append(out, byte(v.Type))
	switch v.Type {
	case TypeInt:
		var buf [16]byte
		u := uint64(v.Int)
		if v.Int < 0 {
			for i := 0; i < 8; i++ {
				buf[i] = 0xff
			}
		}
		binary.BigEndian.PutUint64(buf[8:], u)
		out = append(out, buf[:]...)
	case TypeUInt:
		var buf [16]byte
		binary.BigEndian.PutUint64(buf[8:], v.Uint)
		out = append(out, buf[:]...)
	case TypeBuffer, TypeStringASCII, TypeStringUTF8:
		out = appendUint32(out, uint32(len(v.Bytes)))
		out = append(out, v.Bytes...)
	case TypeBoolTrue, TypeBoolFalse, TypeOptionalNone:
		// tag only
	case TypePrincipalStandard:
		out = append(out, v.Principal.Version)
		out = append(out, v.Principal.Hash[:]...)
	case TypePrincipalContract:
		out = append(out, v.Principal.Version)
		out = append(out, v.Principal.Hash[:]...)
		if len(v.Principal.Contract) > 128 {
			return nil, fmt.Errorf("contract name too long: %d", len(v.Principal.Contract))
		}
		out = append(out, byte(len(v.Principal.Contract)))
		out = append(out, v.Principal.Contract...)
	case TypeResponseOk, TypeResponseErr, TypeOptionalSome:
		if v.Inner == nil {
			return nil, fmt.Errorf("clarity: %#x value with no inner payload", byte(v.Type))
		}
		var err error
		out, err = v.Inner.appendTo(out)
		if err != nil {
			return nil, err
		}
	case TypeList:
		out = appendUint32(out, uint32(len(v.List)))
		for _, item := range v.List {
			var err error
			out, err = item.appendTo(out)
			if err != nil {
				return nil, err
			}
		}
	case TypeTuple:
		out = appendUint32(out, uint32(len(v.Tuple)))
		// Consensus serialization orders tuple fields by name.
		names := make([]string, 0, len(v.Tuple))
		for name := range v.Tuple {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if len(name) > 128 {
				return nil, fmt.Errorf("tuple field name too long: %q", name)
			}
			out = append(out, byte(len(name)))
			out = append(out, name...)
			var err error
			out, err = v.Tuple[name].appendTo(out)
			if err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("clarity: cannot encode type %#x", byte(v.Type))
	}
	return out, nil
}

func appendUint32(out []byte, n uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], n)
	return append(out, buf[:]...)
}

// DecodeHex decodes a 0x-prefixed hex string into a Clarity value.
func DecodeHex(s string) (Value, error) {
	s = strings.TrimPrefix(s, "0x")
	data, err := hex.DecodeString(s)
	if err != nil {
		return Value{}, fmt.Errorf("clarity: bad hex: %w", err)
	}
	return Decode(data)
}

// Decode deserializes a single Clarity value, requiring that it consume the
// whole input.
func Decode(data []byte) (Value, error) {
	d := decoder{data: data}
	v, err := d.value()
	if err != nil {
		return Value{}, err
	}
	if d.pos != len(d.data) {
		return Value{}, fmt.Errorf("clarity: %d trailing bytes", len(d.data)-d.pos)
	}
	return v, nil
}

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) take(n int) ([]byte, error) {
	if d.pos+n > len(d.data) {
		return nil, fmt.Errorf("clarity: truncated value at offset %d", d.pos)
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) uint32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (d *decoder) value() (Value, error) {
	tag, err := d.take(1)
	if err != nil {
		return Value{}, err
	}
	t := ClarityType(tag[0])
	switch t {
	case TypeInt, TypeUInt:
		b, err := d.take(16)
		if err != nil {
			return Value{}, err
		}
		hi := binary.BigEndian.Uint64(b[:8])
		lo := binary.BigEndian.Uint64(b[8:])
		if t == TypeUInt {
			if hi != 0 {
				return Value{}, fmt.Errorf("clarity: uint exceeds 64 bits")
			}
			return Value{Type: t, Uint: lo}, nil
		}
		// Signed values outside int64 do not occur in this contract's
		// schema; reject rather than silently truncate.
		if hi != 0 && hi != ^uint64(0) {
			return Value{}, fmt.Errorf("clarity: int exceeds 64 bits")
		}
		i := int64(lo)
		if hi == ^uint64(0) && i >= 0 || hi == 0 && i < 0 {
			return Value{}, fmt.Errorf("clarity: int exceeds 64 bits")
		}
		return Value{Type: t, Int: i}, nil
	case TypeBuffer, TypeStringASCII, TypeStringUTF8:
		n, err := d.uint32()
		if err != nil {
			return Value{}, err
		}
		b, err := d.take(int(n))
		if err != nil {
			return Value{}, err
		}
		out := make([]byte, n)
		copy(out, b)
		return Value{Type: t, Bytes: out}, nil
	case TypeBoolTrue, TypeBoolFalse, TypeOptionalNone:
		return Value{Type: t}, nil
	case TypePrincipalStandard, TypePrincipalContract:
		b, err := d.take(21)
		if err != nil {
			return Value{}, err
		}
		var p Principal
		p.Version = b[0]
		copy(p.Hash[:], b[1:])
		if t == TypePrincipalContract {
			nb, err := d.take(1)
			if err != nil {
				return Value{}, err
			}
			name, err := d.take(int(nb[0]))
			if err != nil {
				return Value{}, err
			}
			p.Contract = string(name)
		}
		return Value{Type: t, Principal: p}, nil
	case TypeResponseOk, TypeResponseErr, TypeOptionalSome:
		inner, err := d.value()
		if err != nil {
			return Value{}, err
		}
		return Value{Type: t, Inner: &inner}, nil
	case TypeList:
		n, err := d.uint32()
		if err != nil {
			return Value{}, err
		}
		// Cap the preallocation at what the payload could possibly hold;
		// a hostile length prefix must not drive a huge allocation.
		items := make([]Value, 0, min(int(n), len(d.data)-d.pos))
		for i := uint32(0); i < n; i++ {
			item, err := d.value()
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{Type: TypeList, List: items}, nil
	case TypeTuple:
		n, err := d.uint32()
		if err != nil {
			return Value{}, err
		}
		fields := make(map[string]Value, min(int(n), len(d.data)-d.pos))
		for i := uint32(0); i < n; i++ {
			nb, err := d.take(1)
			if err != nil {
				return Value{}, err
			}
			name, err := d.take(int(nb[0]))
			if err != nil {
				return Value{}, err
			}
			fv, err := d.value()
			if err != nil {
				return Value{}, err
			}
			fields[string(name)] = fv
		}
		return Value{Type: TypeTuple, Tuple: fields}, nil
	default:
		return Value{}, fmt.Errorf("clarity: unknown type tag %#x", tag[0])
	}
}
