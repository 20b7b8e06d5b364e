package report

import (
	"fmt"
	"io"
	"reflect"
	"sort"
)

// ArgKind tags the variant held by an Arg.
type ArgKind uint8

const (
	ArgOther ArgKind = iota
	ArgObject
	ArgArray
	ArgString
	ArgNull
	ArgBool
	ArgResource
)

const (
	maxArgDepth = 5
	maxArgItems = 50
)

// Arg is a call argument captured for rendering. Only the fields matching
// Kind are meaningful. Key is set for named (map-keyed) arguments.
type Arg struct {
	Key   string
	Class string // ArgObject
	Text  string // ArgString, ArgOther
	Items []Arg  // ArgArray
	Kind  ArgKind
	Bool  bool // ArgBool
}

// ObjectArg is an object argument rendered by its type name.
func ObjectArg(class string) Arg { return Arg{Kind: ArgObject, Class: class} }

// ArrayArg is a nested list of arguments.
func ArrayArg(items ...Arg) Arg { return Arg{Kind: ArgArray, Items: items} }

// StringArg is a string argument.
func StringArg(s string) Arg { return Arg{Kind: ArgString, Text: s} }

// NullArg is a nil argument.
func NullArg() Arg { return Arg{Kind: ArgNull} }

// BoolArg is a boolean argument.
func BoolArg(b bool) Arg { return Arg{Kind: ArgBool, Bool: b} }

// ResourceArg is an opaque handle such as a file, connection or channel.
func ResourceArg() Arg { return Arg{Kind: ArgResource} }

// OtherArg is any other value already coerced to a string.
func OtherArg(s string) Arg { return Arg{Kind: ArgOther, Text: s} }

// Named returns a copy of a keyed by name.
func (a Arg) Named(key string) Arg {
	a.Key = key
	return a
}

// ArgsOf converts Go values into positional arguments.
func ArgsOf(values ...any) []Arg {
	args := make([]Arg, 0, len(values))
	for _, v := range values {
		args = append(args, ArgOf(v))
	}
	return args
}

// ArgOf converts a Go value into its Arg variant.
func ArgOf(v any) Arg {
	return argOf(v, 0)
}

func argOf(v any, depth int) Arg {
	switch val := v.(type) {
	case nil:
		return NullArg()
	case Arg:
		return val
	case string:
		return StringArg(val)
	case []byte:
		return StringArg(string(val))
	case bool:
		return BoolArg(val)
	case error:
		return ObjectArg(fmt.Sprintf("%T", val))
	case io.Closer:
		return ResourceArg()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return ResourceArg()
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return NullArg()
		}
		return ObjectArg(fmt.Sprintf("%T", v))
	case reflect.Struct:
		return ObjectArg(fmt.Sprintf("%T", v))
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return NullArg()
		}
		if depth >= maxArgDepth {
			return OtherArg("...")
		}
		n := min(rv.Len(), maxArgItems)
		items := make([]Arg, 0, n)
		for i := range n {
			items = append(items, argOf(rv.Index(i).Interface(), depth+1))
		}
		return ArrayArg(items...)
	case reflect.Map:
		if rv.IsNil() {
			return NullArg()
		}
		if depth >= maxArgDepth {
			return OtherArg("...")
		}
		keys := rv.MapKeys()
		names := make([]string, len(keys))
		byName := make(map[string]reflect.Value, len(keys))
		for i, k := range keys {
			names[i] = fmt.Sprint(k.Interface())
			byName[names[i]] = k
		}
		sort.Strings(names)
		if len(names) > maxArgItems {
			names = names[:maxArgItems]
		}
		items := make([]Arg, 0, len(names))
		for _, name := range names {
			items = append(items, argOf(rv.MapIndex(byName[name]).Interface(), depth+1).Named(name))
		}
		return ArrayArg(items...)
	}
	return OtherArg(fmt.Sprint(v))
}
