package sfs2x

import "fmt"

// Object is an SFS_OBJECT: string keys mapped to tagged values, preserving
// insertion order. Putting an existing key replaces the value in place
// without moving the key.
//
// Object is not safe for concurrent mutation; the registries copy before
// sharing.
type Object struct {
	keys []string
	vals map[string]Value
}

// NewObject returns an empty SFS_OBJECT.
func NewObject() *Object {
	return &Object{vals: make(map[string]Value)}
}

// Len returns the number of keys.
func (o *Object) Len() int { return len(o.keys) }

// Keys returns the keys in insertion order. The slice is shared; callers
// must not mutate it.
func (o *Object) Keys() []string { return o.keys }

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.vals[key]
	return ok
}

// Put sets key to v, appending the key on first insertion.
func (o *Object) Put(key string, v Value) *Object {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
	return o
}

// Typed put helpers, chainable for building response payloads.

func (o *Object) PutNull(key string) *Object               { return o.Put(key, NewNull()) }
func (o *Object) PutBool(key string, b bool) *Object       { return o.Put(key, NewBool(b)) }
func (o *Object) PutByte(key string, b byte) *Object       { return o.Put(key, NewByte(b)) }
func (o *Object) PutShort(key string, n int16) *Object     { return o.Put(key, NewShort(n)) }
func (o *Object) PutInt(key string, n int32) *Object       { return o.Put(key, NewInt(n)) }
func (o *Object) PutLong(key string, n int64) *Object      { return o.Put(key, NewLong(n)) }
func (o *Object) PutFloat(key string, f float32) *Object   { return o.Put(key, NewFloat(f)) }
func (o *Object) PutDouble(key string, f float64) *Object  { return o.Put(key, NewDouble(f)) }
func (o *Object) PutString(key, s string) *Object          { return o.Put(key, NewString(s)) }
func (o *Object) PutBoolArray(key string, a []bool) *Object { return o.Put(key, NewBoolArray(a)) }
func (o *Object) PutByteArray(key string, a []byte) *Object { return o.Put(key, NewByteArray(a)) }
func (o *Object) PutShortArray(key string, a []int16) *Object {
	return o.Put(key, NewShortArray(a))
}
func (o *Object) PutIntArray(key string, a []int32) *Object { return o.Put(key, NewIntArray(a)) }
func (o *Object) PutUTFStringArray(key string, a []string) *Object {
	return o.Put(key, NewUTFStringArray(a))
}
func (o *Object) PutArray(key string, a *Array) *Object   { return o.Put(key, NewArrayValue(a)) }
func (o *Object) PutObject(key string, n *Object) *Object { return o.Put(key, NewObjectValue(n)) }

// Get returns the value stored at key.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// value returns the stored value or a wrapped ErrKeyNotFound.
func (o *Object) value(key string) (Value, error) {
	v, ok := o.vals[key]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	return v, nil
}

// Typed getters. Missing keys surface ErrKeyNotFound, tag disagreement
// surfaces ErrTypeMismatch; both wrapped so callers can errors.Is.

func (o *Object) GetBool(key string) (bool, error) {
	v, err := o.value(key)
	if err != nil {
		return false, err
	}
	return v.Bool()
}

func (o *Object) GetByte(key string) (byte, error) {
	v, err := o.value(key)
	if err != nil {
		return 0, err
	}
	return v.Byte()
}

func (o *Object) GetShort(key string) (int16, error) {
	v, err := o.value(key)
	if err != nil {
		return 0, err
	}
	return v.Short()
}

func (o *Object) GetInt(key string) (int32, error) {
	v, err := o.value(key)
	if err != nil {
		return 0, err
	}
	return v.Int()
}

func (o *Object) GetLong(key string) (int64, error) {
	v, err := o.value(key)
	if err != nil {
		return 0, err
	}
	return v.Long()
}

func (o *Object) GetString(key string) (string, error) {
	v, err := o.value(key)
	if err != nil {
		return "", err
	}
	return v.Text()
}

func (o *Object) GetBoolArray(key string) ([]bool, error) {
	v, err := o.value(key)
	if err != nil {
		return nil, err
	}
	return v.BoolArray()
}

func (o *Object) GetByteArray(key string) ([]byte, error) {
	v, err := o.value(key)
	if err != nil {
		return nil, err
	}
	return v.ByteArray()
}

func (o *Object) GetUTFStringArray(key string) ([]string, error) {
	v, err := o.value(key)
	if err != nil {
		return nil, err
	}
	return v.UTFStringArray()
}

func (o *Object) GetArray(key string) (*Array, error) {
	v, err := o.value(key)
	if err != nil {
		return nil, err
	}
	return v.Array()
}

func (o *Object) GetObject(key string) (*Object, error) {
	v, err := o.value(key)
	if err != nil {
		return nil, err
	}
	return v.Object()
}

// GetAsInt is the widening read for envelope-style fields (BYTE, SHORT or
// INT accepted).
func (o *Object) GetAsInt(key string) (int32, error) {
	v, err := o.value(key)
	if err != nil {
		return 0, err
	}
	return v.AsInt()
}
