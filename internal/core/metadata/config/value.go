package config

import (
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
)

// ValueType tags the member of Value that is in use.
type ValueType uint8

const (
	Unknown ValueType = iota
	Bool
	Int
	Float
	String
	Vec3
	Quat
)

func (t ValueType) String() string {
	switch t {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Vec3:
		return "vec3"
	case Quat:
		return "quaternion"
	default:
		return "unknown"
	}
}

// Value is a tagged union holding one configuration value.
type Value struct {
	typ ValueType
	b   bool
	i   int
	f   float64
	s   string
	v   mgl32.Vec3
	q   mgl32.Quat
}

func BoolValue(b bool) Value       { return Value{typ: Bool, b: b} }
func IntValue(i int) Value         { return Value{typ: Int, i: i} }
func FloatValue(f float64) Value   { return Value{typ: Float, f: f} }
func StringValue(s string) Value   { return Value{typ: String, s: s} }
func Vec3Value(v mgl32.Vec3) Value { return Value{typ: Vec3, v: v} }
func QuatValue(q mgl32.Quat) Value { return Value{typ: Quat, q: q} }
func (v Value) Type() ValueType    { return v.typ }
func (v Value) Bool() bool         { return v.b }
func (v Value) Int() int           { return v.i }
func (v Value) String() string     { return v.AsString() }
func (v Value) Vec3() mgl32.Vec3   { return v.v }
func (v Value) Quat() mgl32.Quat   { return v.q }
func (v Value) IsNumeric() bool    { return v.typ == Int || v.typ == Float }

// Float returns the value as float64, widening ints.
func (v Value) Float() float64 {
	if v.typ == Int {
		return float64(v.i)
	}
	return v.f
}

// Str returns the stored string for String values and "" otherwise.
func (v Value) Str() string {
	return v.s
}

// AsString renders the value for informational output.
func (v Value) AsString() string {
	switch v.typ {
	case Bool:
		return strconv.FormatBool(v.b)
	case Int:
		return strconv.Itoa(v.i)
	case Float:
		return formatFloat(v.f)
	case String:
		return v.s
	case Vec3:
		return fmt.Sprintf("[%s %s %s]", formatFloat32(v.v[0]), formatFloat32(v.v[1]), formatFloat32(v.v[2]))
	case Quat:
		return fmt.Sprintf("[%s %s %s %s]", formatFloat32(v.q.W), formatFloat32(v.q.V[0]), formatFloat32(v.q.V[1]), formatFloat32(v.q.V[2]))
	default:
		return ""
	}
}

// Interface returns the value as a plain Go value for encoders. Vectors and
// quaternions become float slices, quaternions in w,x,y,z order.
func (v Value) Interface() any {
	switch v.typ {
	case Bool:
		return v.b
	case Int:
		return v.i
	case Float:
		return v.f
	case String:
		return v.s
	case Vec3:
		return []float32{v.v[0], v.v[1], v.v[2]}
	case Quat:
		return []float32{v.q.W, v.q.V[0], v.q.V[1], v.q.V[2]}
	default:
		return nil
	}
}

// ValueOf converts a supported Go value into a Value.
func ValueOf(x any) (Value, bool) {
	switch t := x.(type) {
	case Value:
		return t, true
	case bool:
		return BoolValue(t), true
	case int:
		return IntValue(t), true
	case int32:
		return IntValue(int(t)), true
	case int64:
		return IntValue(int(t)), true
	case float32:
		return FloatValue(float64(t)), true
	case float64:
		return FloatValue(t), true
	case string:
		return StringValue(t), true
	case mgl32.Vec3:
		return Vec3Value(t), true
	case mgl32.Quat:
		return QuatValue(t), true
	default:
		return Value{}, false
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatFloat32(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}
