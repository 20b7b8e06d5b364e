package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/dmitrymomot/errorkit/pkg/redact"
)

const maxDumpDepth = 32

// dump pretty-prints v as indented JSON with password values masked at every
// map level and in query strings, HTML-escaped for use inside <pre>.
func dump(v any) string {
	normalized := redactDeep(normalize(v, 0), 0)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(normalized); err != nil {
		buf.Reset()
		fmt.Fprintf(&buf, "%+v", normalized)
	}
	return escape(redact.QueryString(string(bytes.TrimRight(buf.Bytes(), "\n"))))
}

// normalize turns v into plain JSON data (maps, slices, scalars).
func normalize(v any, depth int) any {
	if depth > maxDumpDepth {
		return "..."
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Invalid:
		return nil
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return nil
		}
	}

	switch val := v.(type) {
	case string, bool, json.Number:
		return val
	case []byte:
		return string(val)
	case *Exception:
		return map[string]any{"class": val.Class, "message": val.Message}
	case json.Marshaler:
		return viaJSON(val)
	case error:
		return val.Error()
	case fmt.Stringer:
		return val.String()
	}

	switch rv.Kind() {
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = normalize(iter.Value().Interface(), depth+1)
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalize(rv.Index(i).Interface(), depth+1)
		}
		return out
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return fmt.Sprintf("%T", v)
	}
	return viaJSON(v)
}

// viaJSON round-trips v through encoding/json so struct tags apply.
func viaJSON(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return fmt.Sprint(v)
	}
	return out
}

func redactDeep(v any, depth int) any {
	if depth > maxDumpDepth {
		return v
	}
	switch val := v.(type) {
	case map[string]any:
		out := redact.Map(val)
		for k, item := range out {
			out[k] = redactDeep(item, depth+1)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = redactDeep(item, depth+1)
		}
		return out
	}
	return v
}

// dumpContextValue wraps non-map values in a one-element list before dumping.
func dumpContextValue(v any) string {
	n := normalize(v, 0)
	if _, ok := n.(map[string]any); !ok {
		n = []any{n}
	}
	return dump(n)
}
