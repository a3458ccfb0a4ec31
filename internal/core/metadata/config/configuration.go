// Package config implements the ordered, typed key/value store that every
// attributes template is built on. Values and nested sub-configurations keep
// their insertion order so that serialized output is stable.
package config

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrTypeMismatch     = errors.New("configuration value type mismatch")
	ErrUnsupportedValue = errors.New("unsupported configuration value type")
	ErrEmptyKey         = errors.New("configuration key is empty")
)

// Configuration maps string keys to typed values and to nested
// configurations. It is not safe for concurrent mutation.
type Configuration struct {
	keys   []string
	values map[string]Value

	subKeys    []string
	subconfigs map[string]*Configuration

	onChange func()
}

// New returns an empty configuration.
func New() *Configuration {
	return &Configuration{
		values:     make(map[string]Value),
		subconfigs: make(map[string]*Configuration),
	}
}

// OnChange installs a hook called after every mutation of this configuration
// or of any sub-configuration reached through it.
func (c *Configuration) OnChange(fn func()) {
	c.onChange = fn
	for _, sub := range c.subconfigs {
		sub.OnChange(fn)
	}
}

func (c *Configuration) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

// Set stores x under key. x must be one of the supported Go types. Once a key
// holds a value its type is fixed; use Remove first to change it.
func (c *Configuration) Set(key string, x any) error {
	v, ok := ValueOf(x)
	if !ok {
		return fmt.Errorf("%w: %T for key %q", ErrUnsupportedValue, x, key)
	}
	return c.SetValue(key, v)
}

// SetValue stores v under key, enforcing the single-type-per-key rule. A
// sub-configuration under the same key is dropped.
func (c *Configuration) SetValue(key string, v Value) error {
	if key == "" {
		return ErrEmptyKey
	}
	c.dropSubconfig(key)
	if old, ok := c.values[key]; ok {
		if old.typ != v.typ {
			return fmt.Errorf("%w: key %q holds %s, got %s", ErrTypeMismatch, key, old.typ, v.typ)
		}
	} else {
		c.keys = append(c.keys, key)
	}
	c.values[key] = v
	c.changed()
	return nil
}

func (c *Configuration) SetBool(key string, b bool) error       { return c.SetValue(key, BoolValue(b)) }
func (c *Configuration) SetInt(key string, i int) error         { return c.SetValue(key, IntValue(i)) }
func (c *Configuration) SetFloat(key string, f float64) error   { return c.SetValue(key, FloatValue(f)) }
func (c *Configuration) SetString(key string, s string) error   { return c.SetValue(key, StringValue(s)) }
func (c *Configuration) SetVec3(key string, v mgl32.Vec3) error { return c.SetValue(key, Vec3Value(v)) }
func (c *Configuration) SetQuat(key string, q mgl32.Quat) error { return c.SetValue(key, QuatValue(q)) }
func (c *Configuration) NumValues() int                         { return len(c.keys) }
func (c *Configuration) NumSubconfigs() int                     { return len(c.subKeys) }

func (c *Configuration) HasValue(key string) bool {
	_, ok := c.values[key]
	return ok
}

func (c *Configuration) HasSubconfig(key string) bool {
	_, ok := c.subconfigs[key]
	return ok
}

func (c *Configuration) Get(key string) (Value, bool) {
	v, ok := c.values[key]
	return v, ok
}

func (c *Configuration) Subconfig(key string) (*Configuration, bool) {
	sub, ok := c.subconfigs[key]
	return sub, ok
}

// GetBool returns the bool stored under key; ok is false if absent or of
// another type.
func (c *Configuration) GetBool(key string) (bool, bool) {
	v, ok := c.values[key]
	if !ok || v.typ != Bool {
		return false, false
	}
	return v.b, true
}

// GetInt returns the int stored under key.
func (c *Configuration) GetInt(key string) (int, bool) {
	v, ok := c.values[key]
	if !ok || v.typ != Int {
		return 0, false
	}
	return v.i, true
}

// GetFloat returns the numeric value stored under key, widening ints.
func (c *Configuration) GetFloat(key string) (float64, bool) {
	v, ok := c.values[key]
	if !ok || !v.IsNumeric() {
		return 0, false
	}
	return v.Float(), true
}

// GetString returns the string stored under key.
func (c *Configuration) GetString(key string) (string, bool) {
	v, ok := c.values[key]
	if !ok || v.typ != String {
		return "", false
	}
	return v.s, true
}

// GetVec3 returns the vector stored under key.
func (c *Configuration) GetVec3(key string) (mgl32.Vec3, bool) {
	v, ok := c.values[key]
	if !ok || v.typ != Vec3 {
		return mgl32.Vec3{}, false
	}
	return v.v, true
}

// GetQuat returns the quaternion stored under key.
func (c *Configuration) GetQuat(key string) (mgl32.Quat, bool) {
	v, ok := c.values[key]
	if !ok || v.typ != Quat {
		return mgl32.Quat{}, false
	}
	return v.q, true
}

// GetAsString renders the value under key, or "" when absent.
func (c *Configuration) GetAsString(key string) string {
	v, ok := c.values[key]
	if !ok {
		return ""
	}
	return v.AsString()
}

// Keys returns value keys in insertion order.
func (c *Configuration) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// SubconfigKeys returns sub-configuration keys in insertion order.
func (c *Configuration) SubconfigKeys() []string {
	out := make([]string, len(c.subKeys))
	copy(out, c.subKeys)
	return out
}

// NumEntries counts values and sub-configurations, recursively.
func (c *Configuration) NumEntries() int {
	n := len(c.keys) + len(c.subKeys)
	for _, k := range c.subKeys {
		n += c.subconfigs[k].NumEntries()
	}
	return n
}

// SetSubconfig attaches sub under key, replacing any existing entry,
// value or sub-configuration.
func (c *Configuration) SetSubconfig(key string, sub *Configuration) error {
	if key == "" {
		return ErrEmptyKey
	}
	if sub == nil {
		sub = New()
	}
	c.dropValue(key)
	if _, ok := c.subconfigs[key]; !ok {
		c.subKeys = append(c.subKeys, key)
	}
	sub.OnChange(c.onChange)
	c.subconfigs[key] = sub
	c.changed()
	return nil
}

// EditSubconfig returns the sub-configuration under key, creating it if needed.
func (c *Configuration) EditSubconfig(key string) *Configuration {
	if sub, ok := c.subconfigs[key]; ok {
		return sub
	}
	sub := New()
	_ = c.SetSubconfig(key, sub)
	return sub
}

// Remove deletes the value or sub-configuration stored under key and reports
// whether anything was removed.
func (c *Configuration) Remove(key string) bool {
	removed := c.dropValue(key)
	removed = c.dropSubconfig(key) || removed
	if removed {
		c.changed()
	}
	return removed
}

func (c *Configuration) dropValue(key string) bool {
	if _, ok := c.values[key]; !ok {
		return false
	}
	delete(c.values, key)
	c.keys = removeKey(c.keys, key)
	return true
}

func (c *Configuration) dropSubconfig(key string) bool {
	if _, ok := c.subconfigs[key]; !ok {
		return false
	}
	delete(c.subconfigs, key)
	c.subKeys = removeKey(c.subKeys, key)
	return true
}

// Clone returns a deep copy without the change hook.
func (c *Configuration) Clone() *Configuration {
	out := New()
	out.keys = append(out.keys, c.keys...)
	for k, v := range c.values {
		out.values[k] = v
	}
	out.subKeys = append(out.subKeys, c.subKeys...)
	for k, sub := range c.subconfigs {
		out.subconfigs[k] = sub.Clone()
	}
	return out
}

// Merge copies every value and sub-configuration of src into c. Values that
// would change the type of an existing key are skipped and reported.
func (c *Configuration) Merge(src *Configuration) error {
	var errs []error
	for _, k := range src.keys {
		if err := c.SetValue(k, src.values[k]); err != nil {
			errs = append(errs, err)
		}
	}
	for _, k := range src.subKeys {
		if err := c.EditSubconfig(k).Merge(src.subconfigs[k]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Map returns a plain nested map for encoders that do not need ordering.
func (c *Configuration) Map() map[string]any {
	out := make(map[string]any, len(c.keys)+len(c.subKeys))
	for _, k := range c.keys {
		out[k] = c.values[k].Interface()
	}
	for _, k := range c.subKeys {
		out[k] = c.subconfigs[k].Map()
	}
	return out
}

func removeKey(keys []string, key string) []string {
	for i, k := range keys {
		if k == key {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}
