package sfs2x

import (
	"encoding/binary"
	"math"
)

// DecodeObject decodes a complete frame: a tagged SFS_OBJECT consuming the
// whole payload. Trailing bytes are a malformed frame, not ignored.
func DecodeObject(data []byte) (*Object, error) {
	d := &decoder{data: data}
	v, err := d.readValue(0)
	if err != nil {
		return nil, err
	}
	if d.pos != len(data) {
		return nil, frameErrorf(d.pos, "%d trailing bytes after value", len(data)-d.pos)
	}
	obj, err := v.Object()
	if err != nil {
		return nil, frameErrorf(0, "top-level value is %s, want SFS_OBJECT", v.Type())
	}
	return obj, nil
}

// DecodeValue decodes a single tagged value consuming the whole payload.
func DecodeValue(data []byte) (Value, error) {
	d := &decoder{data: data}
	v, err := d.readValue(0)
	if err != nil {
		return Value{}, err
	}
	if d.pos != len(data) {
		return Value{}, frameErrorf(d.pos, "%d trailing bytes after value", len(data)-d.pos)
	}
	return v, nil
}

// decoder walks the payload left to right, tracking the offset for error
// reporting.
type decoder struct {
	data []byte
	pos  int
}

// need checks n bytes remain, otherwise reports truncation at the current
// offset.
func (d *decoder) need(n int) error {
	if len(d.data)-d.pos < n {
		return frameErrorf(d.pos, "need %d bytes, %d remain", n, len(d.data)-d.pos)
	}
	return nil
}

func (d *decoder) readByte() (byte, error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) readUint16() (uint16, error) {
	if err := d.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(d.data[d.pos:])
	d.pos += 2
	return v, nil
}

func (d *decoder) readUint32() (uint32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(d.data[d.pos:])
	d.pos += 4
	return v, nil
}

func (d *decoder) readUint64() (uint64, error) {
	if err := d.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(d.data[d.pos:])
	d.pos += 8
	return v, nil
}

func (d *decoder) readBytes(n int) ([]byte, error) {
	if err := d.need(n); err != nil {
		return nil, err
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *decoder) readBool() (bool, error) {
	b, err := d.readByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// readUTFBody reads the short string form: 2-byte length then bytes.
func (d *decoder) readUTFBody() (string, error) {
	n, err := d.readUint16()
	if err != nil {
		return "", err
	}
	b, err := d.readBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// readValue decodes one tagged value. depth counts SFS_OBJECT/SFS_ARRAY
// nesting and is capped to keep hostile frames from exhausting the stack.
func (d *decoder) readValue(depth int) (Value, error) {
	if depth > maxDecodeDepth {
		return Value{}, frameErrorf(d.pos, "nesting exceeds depth %d", maxDecodeDepth)
	}

	tagOffset := d.pos
	tag, err := d.readByte()
	if err != nil {
		return Value{}, err
	}

	switch TypeID(tag) {
	case TypeNull:
		return NewNull(), nil

	case TypeBool:
		b, err := d.readBool()
		if err != nil {
			return Value{}, err
		}
		return NewBool(b), nil

	case TypeByte:
		b, err := d.readByte()
		if err != nil {
			return Value{}, err
		}
		return NewByte(b), nil

	case TypeShort:
		v, err := d.readUint16()
		if err != nil {
			return Value{}, err
		}
		return NewShort(int16(v)), nil

	case TypeInt:
		v, err := d.readUint32()
		if err != nil {
			return Value{}, err
		}
		return NewInt(int32(v)), nil

	case TypeLong:
		v, err := d.readUint64()
		if err != nil {
			return Value{}, err
		}
		return NewLong(int64(v)), nil

	case TypeFloat:
		v, err := d.readUint32()
		if err != nil {
			return Value{}, err
		}
		return NewFloat(math.Float32frombits(v)), nil

	case TypeDouble:
		v, err := d.readUint64()
		if err != nil {
			return Value{}, err
		}
		return NewDouble(math.Float64frombits(v)), nil

	case TypeUTFString:
		s, err := d.readUTFBody()
		if err != nil {
			return Value{}, err
		}
		// Preserve the wire tag even for short strings that arrived as
		// UTF_STRING so round-trips stay byte-identical.
		return Value{typ: TypeUTFString, v: s}, nil

	case TypeText:
		n, err := d.readUint32()
		if err != nil {
			return Value{}, err
		}
		if n > math.MaxInt32 {
			return Value{}, frameErrorf(tagOffset, "TEXT length %d out of range", n)
		}
		b, err := d.readBytes(int(n))
		if err != nil {
			return Value{}, err
		}
		return Value{typ: TypeText, v: string(b)}, nil

	case TypeBoolArray:
		n, err := d.readUint16()
		if err != nil {
			return Value{}, err
		}
		a := make([]bool, n)
		for i := range a {
			if a[i], err = d.readBool(); err != nil {
				return Value{}, err
			}
		}
		return NewBoolArray(a), nil

	case TypeByteArray:
		n, err := d.readUint16()
		if err != nil {
			return Value{}, err
		}
		b, err := d.readBytes(int(n))
		if err != nil {
			return Value{}, err
		}
		a := make([]byte, n)
		copy(a, b)
		return NewByteArray(a), nil

	case TypeShortArray:
		n, err := d.readUint16()
		if err != nil {
			return Value{}, err
		}
		a := make([]int16, n)
		for i := range a {
			v, err := d.readUint16()
			if err != nil {
				return Value{}, err
			}
			a[i] = int16(v)
		}
		return NewShortArray(a), nil

	case TypeIntArray:
		n, err := d.readUint16()
		if err != nil {
			return Value{}, err
		}
		a := make([]int32, n)
		for i := range a {
			v, err := d.readUint32()
			if err != nil {
				return Value{}, err
			}
			a[i] = int32(v)
		}
		return NewIntArray(a), nil

	case TypeLongArray:
		n, err := d.readUint16()
		if err != nil {
			return Value{}, err
		}
		a := make([]int64, n)
		for i := range a {
			v, err := d.readUint64()
			if err != nil {
				return Value{}, err
			}
			a[i] = int64(v)
		}
		return NewLongArray(a), nil

	case TypeFloatArray:
		n, err := d.readUint16()
		if err != nil {
			return Value{}, err
		}
		a := make([]float32, n)
		for i := range a {
			v, err := d.readUint32()
			if err != nil {
				return Value{}, err
			}
			a[i] = math.Float32frombits(v)
		}
		return NewFloatArray(a), nil

	case TypeDoubleArray:
		n, err := d.readUint16()
		if err != nil {
			return Value{}, err
		}
		a := make([]float64, n)
		for i := range a {
			v, err := d.readUint64()
			if err != nil {
				return Value{}, err
			}
			a[i] = math.Float64frombits(v)
		}
		return NewDoubleArray(a), nil

	case TypeUTFStringArray:
		n, err := d.readUint16()
		if err != nil {
			return Value{}, err
		}
		a := make([]string, n)
		for i := range a {
			if a[i], err = d.readUTFBody(); err != nil {
				return Value{}, err
			}
		}
		return NewUTFStringArray(a), nil

	case TypeSFSArray:
		n, err := d.readUint16()
		if err != nil {
			return Value{}, err
		}
		arr := NewArray()
		for i := 0; i < int(n); i++ {
			v, err := d.readValue(depth + 1)
			if err != nil {
				return Value{}, err
			}
			arr.Add(v)
		}
		return NewArrayValue(arr), nil

	case TypeSFSObject:
		n, err := d.readUint16()
		if err != nil {
			return Value{}, err
		}
		obj := NewObject()
		for i := 0; i < int(n); i++ {
			key, err := d.readUTFBody()
			if err != nil {
				return Value{}, err
			}
			v, err := d.readValue(depth + 1)
			if err != nil {
				return Value{}, err
			}
			obj.Put(key, v)
		}
		return NewObjectValue(obj), nil

	default:
		return Value{}, frameErrorf(tagOffset, "unknown type tag 0x%02x", tag)
	}
}
