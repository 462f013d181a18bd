package sfs2x

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Encode serializes the object as a tagged SFS_OBJECT, the top-level form
// every protocol message uses.
func (o *Object) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, NewObjectValue(o)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeValue serializes a single tagged value.
func EncodeValue(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeValue emits the 1-byte tag and the tag-specific body.
func writeValue(buf *bytes.Buffer, v Value) error {
	if err := buf.WriteByte(byte(v.typ)); err != nil {
		return fmt.Errorf("write tag: %w", err)
	}

	switch v.typ {
	case TypeNull:
		return nil
	case TypeBool:
		return writeBool(buf, v.v.(bool))
	case TypeByte:
		return buf.WriteByte(v.v.(byte))
	case TypeShort:
		return writeBE(buf, v.v.(int16))
	case TypeInt:
		return writeBE(buf, v.v.(int32))
	case TypeLong:
		return writeBE(buf, v.v.(int64))
	case TypeFloat:
		return writeBE(buf, v.v.(float32))
	case TypeDouble:
		return writeBE(buf, v.v.(float64))
	case TypeUTFString:
		return writeUTFString(buf, v.v.(string))
	case TypeText:
		return writeText(buf, v.v.(string))
	case TypeBoolArray:
		return writeBoolArray(buf, v.v.([]bool))
	case TypeByteArray:
		return writeByteArray(buf, v.v.([]byte))
	case TypeShortArray:
		return writeNumericArray(buf, v.v.([]int16))
	case TypeIntArray:
		return writeNumericArray(buf, v.v.([]int32))
	case TypeLongArray:
		return writeNumericArray(buf, v.v.([]int64))
	case TypeFloatArray:
		return writeNumericArray(buf, v.v.([]float32))
	case TypeDoubleArray:
		return writeNumericArray(buf, v.v.([]float64))
	case TypeUTFStringArray:
		return writeUTFStringArray(buf, v.v.([]string))
	case TypeSFSArray:
		return writeArray(buf, v.v.(*Array))
	case TypeSFSObject:
		return writeObject(buf, v.v.(*Object))
	default:
		return fmt.Errorf("encode: unsupported type %s", v.typ)
	}
}

func writeBE(buf *bytes.Buffer, v any) error {
	if err := binary.Write(buf, binary.BigEndian, v); err != nil {
		return fmt.Errorf("write value: %w", err)
	}
	return nil
}

func writeBool(buf *bytes.Buffer, b bool) error {
	if b {
		return buf.WriteByte(1)
	}
	return buf.WriteByte(0)
}

// writeCount emits the 2-byte BE element count shared by strings, arrays
// and objects.
func writeCount(buf *bytes.Buffer, n int, what string) error {
	if n > math.MaxUint16 {
		return fmt.Errorf("encode: %s count %d exceeds 2-byte length", what, n)
	}
	return writeBE(buf, uint16(n))
}

func writeUTFString(buf *bytes.Buffer, s string) error {
	if len(s) > MaxUTFStringLen {
		return fmt.Errorf("encode: UTF_STRING length %d exceeds %d", len(s), MaxUTFStringLen)
	}
	if err := writeCount(buf, len(s), "string"); err != nil {
		return err
	}
	_, err := buf.WriteString(s)
	return err
}

func writeText(buf *bytes.Buffer, s string) error {
	if len(s) > math.MaxInt32 {
		return fmt.Errorf("encode: TEXT length %d exceeds 4-byte length", len(s))
	}
	if err := writeBE(buf, int32(len(s))); err != nil {
		return err
	}
	_, err := buf.WriteString(s)
	return err
}

func writeBoolArray(buf *bytes.Buffer, a []bool) error {
	if err := writeCount(buf, len(a), "bool array"); err != nil {
		return err
	}
	for _, b := range a {
		if err := writeBool(buf, b); err != nil {
			return err
		}
	}
	return nil
}

func writeByteArray(buf *bytes.Buffer, a []byte) error {
	if err := writeCount(buf, len(a), "byte array"); err != nil {
		return err
	}
	_, err := buf.Write(a)
	return err
}

// writeNumericArray handles the fixed-width element arrays: the count then
// each element in its own width, untagged.
func writeNumericArray[T int16 | int32 | int64 | float32 | float64](buf *bytes.Buffer, a []T) error {
	if err := writeCount(buf, len(a), "array"); err != nil {
		return err
	}
	for _, e := range a {
		if err := writeBE(buf, e); err != nil {
			return err
		}
	}
	return nil
}

func writeUTFStringArray(buf *bytes.Buffer, a []string) error {
	if err := writeCount(buf, len(a), "string array"); err != nil {
		return err
	}
	for _, s := range a {
		if err := writeUTFString(buf, s); err != nil {
			return err
		}
	}
	return nil
}

func writeArray(buf *bytes.Buffer, a *Array) error {
	if err := writeCount(buf, a.Len(), "SFS_ARRAY"); err != nil {
		return err
	}
	for i, e := range a.items {
		if err := writeValue(buf, e); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

func writeObject(buf *bytes.Buffer, o *Object) error {
	if err := writeCount(buf, o.Len(), "SFS_OBJECT"); err != nil {
		return err
	}
	for _, key := range o.keys {
		if err := writeUTFString(buf, key); err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		if err := writeValue(buf, o.vals[key]); err != nil {
			return fmt.Errorf("value for %q: %w", key, err)
		}
	}
	return nil
}
