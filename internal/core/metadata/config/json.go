package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tidwall/gjson"
)

// ValueFromJSON converts a scalar or fixed-size numeric array cell into a
// Value. Numbers written with a fraction or exponent become floats, others
// ints. Arrays of three numbers become vectors and arrays of four numbers
// quaternions in w,x,y,z order.
func ValueFromJSON(cell gjson.Result) (Value, bool) {
	switch cell.Type {
	case gjson.True, gjson.False:
		return BoolValue(cell.Bool()), true
	case gjson.String:
		return StringValue(cell.String()), true
	case gjson.Number:
		if strings.ContainsAny(cell.Raw, ".eE") {
			return FloatValue(cell.Float()), true
		}
		return IntValue(int(cell.Int())), true
	}
	if !cell.IsArray() {
		return Value{}, false
	}
	nums, ok := numbers(cell)
	if !ok {
		return Value{}, false
	}
	switch len(nums) {
	case 3:
		return Vec3Value(mgl32.Vec3{nums[0], nums[1], nums[2]}), true
	case 4:
		return QuatValue(mgl32.Quat{W: nums[0], V: mgl32.Vec3{nums[1], nums[2], nums[3]}}), true
	}
	return Value{}, false
}

// PutJSON stores cell under key: scalars and vectors as values, objects as
// sub-configurations, and other arrays as sub-configurations keyed by
// zero-padded index. Nulls are ignored.
func (c *Configuration) PutJSON(key string, cell gjson.Result) error {
	if v, ok := ValueFromJSON(cell); ok {
		return c.SetValue(key, v)
	}
	switch {
	case cell.IsObject():
		return c.EditSubconfig(key).LoadJSON(cell)
	case cell.IsArray():
		sub := c.EditSubconfig(key)
		var err error
		i := 0
		cell.ForEach(func(_, elem gjson.Result) bool {
			err = sub.PutJSON(fmt.Sprintf("%03d", i), elem)
			i++
			return err == nil
		})
		return err
	case cell.Type == gjson.Null:
		return nil
	}
	return fmt.Errorf("%w: json %s for key %q", ErrUnsupportedValue, cell.Type, key)
}

// LoadJSON copies every member of a JSON object cell into c, in document order.
func (c *Configuration) LoadJSON(cell gjson.Result) error {
	if !cell.IsObject() {
		return fmt.Errorf("%w: expected json object, got %s", ErrUnsupportedValue, cell.Type)
	}
	var err error
	cell.ForEach(func(k, v gjson.Result) bool {
		err = c.PutJSON(k.String(), v)
		return err == nil
	})
	return err
}

// MarshalJSON writes values then sub-configurations, each in insertion order.
func (c *Configuration) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	writeKey := func(k string) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		kb, err := json.Marshal(k)
		if err != nil {
			return err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		return nil
	}
	for _, k := range c.keys {
		if err := writeKey(k); err != nil {
			return nil, err
		}
		vb, err := json.Marshal(c.values[k].Interface())
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	for _, k := range c.subKeys {
		if err := writeKey(k); err != nil {
			return nil, err
		}
		sb, err := c.subconfigs[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(sb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FromJSON parses a JSON object document into a new configuration.
func FromJSON(doc []byte) (*Configuration, error) {
	if !gjson.ValidBytes(doc) {
		return nil, fmt.Errorf("%w: invalid json document", ErrUnsupportedValue)
	}
	c := New()
	if err := c.LoadJSON(gjson.ParseBytes(doc)); err != nil {
		return nil, err
	}
	return c, nil
}

func numbers(cell gjson.Result) ([]float32, bool) {
	arr := cell.Array()
	out := make([]float32, 0, len(arr))
	for _, e := range arr {
		if e.Type != gjson.Number {
			return nil, false
		}
		out = append(out, float32(e.Float()))
	}
	return out, true
}
