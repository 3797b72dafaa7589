package puzzle

import (
	"math"
	"strconv"

	"github.com/tidwall/gjson"
)

// field is a JSON value together with the path it was reached by.
type field struct {
	value gjson.Result
	path  string
}

func parseRoot(body []byte) (field, error) {
	if !gjson.ValidBytes(body) {
		return field{}, &DecodeError{Path: "$", Expected: "JSON document", Actual: "invalid JSON"}
	}
	return field{value: gjson.ParseBytes(body)}, nil
}

func (f field) key(name string) field {
	p := name
	if f.path != "" {
		p = f.path + "." + name
	}
	var v gjson.Result
	if f.value.IsObject() {
		v = f.value.Get(gjson.Escape(name))
	}
	return field{value: v, path: p}
}

func (f field) describe() string {
	if f.path == "" {
		return "$"
	}
	return f.path
}

func (f field) absent() bool {
	return !f.value.Exists() || f.value.Type == gjson.Null
}

func kind(r gjson.Result) string {
	if !r.Exists() {
		return "nothing"
	}
	switch r.Type {
	case gjson.Null:
		return "null"
	case gjson.True, gjson.False:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	}
	if r.IsArray() {
		return "array"
	}
	return "object"
}

// decoder extracts typed values and keeps the first failure. Once it has
// failed every accessor returns a zero value, so mapping functions can read
// all their fields and check err once at the end.
type decoder struct {
	err error
}

func (d *decoder) fail(f field, expected string) {
	if d.err == nil {
		d.err = &DecodeError{Path: f.describe(), Expected: expected, Actual: kind(f.value)}
	}
}

func (d *decoder) str(f field) string {
	if d.err != nil {
		return ""
	}
	if f.value.Type != gjson.String {
		d.fail(f, "string")
		return ""
	}
	return f.value.Str
}

func (d *decoder) optStr(f field) *string {
	if d.err != nil || f.absent() {
		return nil
	}
	s := d.str(f)
	if d.err != nil {
		return nil
	}
	return &s
}

// id reads a string that must not be empty.
func (d *decoder) id(f field) string {
	s := d.str(f)
	if d.err == nil && s == "" {
		d.err = &DecodeError{Path: f.describe(), Expected: "non-empty string", Actual: "empty string"}
	}
	return s
}

func (d *decoder) integer(f field) int {
	if d.err != nil {
		return 0
	}
	if f.value.Type != gjson.Number {
		d.fail(f, "integer")
		return 0
	}
	n := f.value.Num
	if n != math.Trunc(n) {
		d.err = &DecodeError{Path: f.describe(), Expected: "integer", Actual: "number " + strconv.FormatFloat(n, 'f', -1, 64)}
		return 0
	}
	if n < math.MinInt || n >= -math.MinInt {
		d.err = &DecodeError{Path: f.describe(), Expected: "integer", Actual: "number out of range"}
		return 0
	}
	return int(n)
}

func (d *decoder) number(f field) float64 {
	if d.err != nil {
		return 0
	}
	if f.value.Type != gjson.Number {
		d.fail(f, "number")
		return 0
	}
	return f.value.Num
}

func (d *decoder) boolean(f field) bool {
	if d.err != nil {
		return false
	}
	if f.value.Type != gjson.True && f.value.Type != gjson.False {
		d.fail(f, "boolean")
		return false
	}
	return f.value.Bool()
}

func (d *decoder) optBool(f field) *bool {
	if d.err != nil || f.absent() {
		return nil
	}
	b := d.boolean(f)
	if d.err != nil {
		return nil
	}
	return &b
}

func (d *decoder) object(f field) field {
	if d.err == nil && !f.value.IsObject() {
		d.fail(f, "object")
	}
	return f
}

// optObject reports false when the value is absent or null.
func (d *decoder) optObject(f field) (field, bool) {
	if d.err != nil || f.absent() {
		return f, false
	}
	d.object(f)
	return f, d.err == nil
}

func (d *decoder) list(f field) []field {
	if d.err != nil {
		return nil
	}
	if !f.value.IsArray() {
		d.fail(f, "array")
		return nil
	}
	items := f.value.Array()
	out := make([]field, len(items))
	for i, item := range items {
		out[i] = field{value: item, path: f.describe() + "[" + strconv.Itoa(i) + "]"}
	}
	return out
}

func (d *decoder) optList(f field) ([]field, bool) {
	if d.err != nil || f.absent() {
		return nil, false
	}
	items := d.list(f)
	return items, d.err == nil
}

func (d *decoder) strings(f field) []string {
	items := d.list(f)
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, d.str(item))
	}
	if d.err != nil {
		return nil
	}
	return out
}

type entry struct {
	name  string
	value field
}

// entries lists the members of an object in document order.
func (d *decoder) entries(f field) []entry {
	d.object(f)
	if d.err != nil {
		return nil
	}
	var out []entry
	f.value.ForEach(func(k, v gjson.Result) bool {
		child := f.key(k.String())
		child.value = v
		out = append(out, entry{name: k.String(), value: child})
		return true
	})
	return out
}
