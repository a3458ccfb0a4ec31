package managers

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tidwall/gjson"

	"github.com/zeusync/simmeta/internal/core/metadata/config"
)

const userDefinedKey = "user_defined"

// jsonReader walks the members of one JSON object, recording which keys a
// populator consumed so the rest can be handed to the user configuration.
type jsonReader struct {
	path   string
	report *Report
	keys   []string
	fields map[string]gjson.Result
	used   map[string]struct{}
}

func newJSONReader(cell gjson.Result, path string, report *Report) *jsonReader {
	r := &jsonReader{
		path:   path,
		report: report,
		fields: make(map[string]gjson.Result),
		used:   make(map[string]struct{}),
	}
	cell.ForEach(func(k, v gjson.Result) bool {
		if _, dup := r.fields[k.String()]; !dup {
			r.keys = append(r.keys, k.String())
		}
		r.fields[k.String()] = v
		return true
	})
	return r
}

func (r *jsonReader) at(key string) string {
	if r.path == "" {
		return key
	}
	return r.path + "." + key
}

func (r *jsonReader) warn(key, format string, args ...any) {
	r.report.Warn(r.at(key), format, args...)
}

// get marks key consumed and returns its cell.
func (r *jsonReader) get(key string) (gjson.Result, bool) {
	v, ok := r.fields[key]
	if ok {
		r.used[key] = struct{}{}
	}
	return v, ok
}

func (r *jsonReader) has(key string) bool {
	_, ok := r.fields[key]
	return ok
}

func (r *jsonReader) String(key string, set func(string)) bool {
	v, ok := r.get(key)
	if !ok {
		return false
	}
	if v.Type != gjson.String {
		r.warn(key, "expected a string, got %s", v.Type)
		return false
	}
	set(v.String())
	return true
}

func (r *jsonReader) Float(key string, set func(float64)) bool {
	v, ok := r.get(key)
	if !ok {
		return false
	}
	if v.Type != gjson.Number {
		r.warn(key, "expected a number, got %s", v.Type)
		return false
	}
	set(v.Float())
	return true
}

func (r *jsonReader) Int(key string, set func(int)) bool {
	v, ok := r.get(key)
	if !ok {
		return false
	}
	if v.Type != gjson.Number || v.Float() != float64(v.Int()) {
		r.warn(key, "expected an integer, got %s", v.Raw)
		return false
	}
	set(int(v.Int()))
	return true
}

func (r *jsonReader) Bool(key string, set func(bool)) bool {
	v, ok := r.get(key)
	if !ok {
		return false
	}
	if v.Type != gjson.True && v.Type != gjson.False {
		r.warn(key, "expected a boolean, got %s", v.Type)
		return false
	}
	set(v.Bool())
	return true
}

func (r *jsonReader) Vec3(key string, set func(mgl32.Vec3)) bool {
	v, ok := r.get(key)
	if !ok {
		return false
	}
	val, ok := config.ValueFromJSON(v)
	if !ok || val.Type() != config.Vec3 {
		r.warn(key, "expected an array of 3 numbers, got %s", v.Raw)
		return false
	}
	set(val.Vec3())
	return true
}

// Quat reads a quaternion given as [w, x, y, z].
func (r *jsonReader) Quat(key string, set func(mgl32.Quat)) bool {
	v, ok := r.get(key)
	if !ok {
		return false
	}
	val, ok := config.ValueFromJSON(v)
	if !ok || val.Type() != config.Quat {
		r.warn(key, "expected an array of 4 numbers [w, x, y, z], got %s", v.Raw)
		return false
	}
	set(val.Quat())
	return true
}

// readEnum looks a string member up case-insensitively. On a miss it warns,
// listing the accepted names, and leaves the target untouched.
func readEnum[E any](r *jsonReader, key string, parse func(string) (E, bool), names func() []string, set func(E)) bool {
	var raw string
	if !r.String(key, func(s string) { raw = s }) {
		return false
	}
	e, ok := parse(raw)
	if !ok {
		r.warn(key, "%q is not a recognized value (want one of %s), leaving it unchanged", raw, strings.Join(names(), ", "))
		return false
	}
	set(e)
	return true
}

// UserDefined stores the members of a user_defined object and every member
// no populator consumed into cfg.
func (r *jsonReader) UserDefined(cfg *config.Configuration) {
	for _, k := range r.keys {
		if _, done := r.used[k]; done {
			continue
		}
		v := r.fields[k]
		if k == userDefinedKey {
			if !v.IsObject() {
				r.warn(k, "expected an object, got %s", v.Type)
				continue
			}
			if err := cfg.LoadJSON(v); err != nil {
				r.warn(k, "%v", err)
			}
			continue
		}
		if err := cfg.PutJSON(k, v); err != nil {
			r.warn(k, "%v", err)
		}
	}
}
