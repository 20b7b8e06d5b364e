package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Roots classifies stack frame paths for colorization.
// App wins over Vendor, which wins over Project.
type Roots struct {
	Project string
	App     string
	Vendor  []string
}

// DefaultRoots uses the working directory as project root and the local
// vendor directory plus the module cache as vendor roots.
func DefaultRoots() Roots {
	wd, _ := os.Getwd()
	roots := Roots{Project: wd}
	if wd != "" {
		roots.Vendor = append(roots.Vendor, filepath.Join(wd, "vendor"))
	}
	if modcache := os.Getenv("GOMODCACHE"); modcache != "" {
		roots.Vendor = append(roots.Vendor, modcache)
	} else if gopath := os.Getenv("GOPATH"); gopath != "" {
		roots.Vendor = append(roots.Vendor, filepath.Join(gopath, "pkg", "mod"))
	} else if home, err := os.UserHomeDir(); err == nil {
		roots.Vendor = append(roots.Vendor, filepath.Join(home, "go", "pkg", "mod"))
	}
	return roots
}

type zone uint8

const (
	zoneNone zone = iota
	zoneRoot
	zoneVendor
	zoneApp
)

// classify returns the zone of path and the length of the matched prefix.
func (r Roots) classify(path string) (zone, int) {
	if hasPrefixFold(path, r.App) {
		return zoneApp, len(r.App)
	}
	best := 0
	for _, v := range r.Vendor {
		if hasPrefixFold(path, v) && len(v) > best {
			best = len(v)
		}
	}
	if best > 0 {
		return zoneVendor, best
	}
	if hasPrefixFold(path, r.Project) {
		return zoneRoot, len(r.Project)
	}
	return zoneNone, 0
}

func hasPrefixFold(s, prefix string) bool {
	return prefix != "" && len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

type frameFormatter struct {
	theme Theme
	roots Roots
}

// FormatFrame renders one stack frame as an HTML fragment: a path line when
// file and line are known and a call line when the function is known.
func FormatFrame(f Frame, theme Theme, roots Roots) string {
	return frameFormatter{theme: theme, roots: roots}.frame(f)
}

// FormatArgs renders call arguments as a comma separated HTML fragment.
func FormatArgs(args []Arg, theme Theme) string {
	return frameFormatter{theme: theme}.args(args)
}

const framePlaceholder = "<p><i>frame could not be formatted</i></p>"

func (ff frameFormatter) frame(f Frame) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = framePlaceholder
		}
	}()

	var b strings.Builder
	if f.File != "" && f.Line > 0 {
		b.WriteString("<p>")
		b.WriteString(ff.path(f.File, f.Line))
		b.WriteString("</p>")
	}
	if f.Function != "" {
		fmt.Fprintf(&b, `<p>at %s<span style="color: %s">%s%s</span>( %s )</p>`,
			ff.class(f.Class),
			ff.theme.Color(RoleErrorPosition),
			escape(f.Type),
			escape(f.Function),
			ff.args(f.Args),
		)
	}
	return b.String()
}

func (ff frameFormatter) path(file string, line int) string {
	var p string
	switch z, n := ff.roots.classify(file); z {
	case zoneApp:
		p = fmt.Sprintf(`<span style="color: %s; font-weight: bold;">%s</span>`, ff.theme.Color(RoleAppFile), escape(file))
	case zoneVendor:
		p = fmt.Sprintf(`<span style="color: %s; font-weight: bold;">%s</span>`, ff.theme.Color(RoleVendorFile), escape(file))
	case zoneRoot:
		p = fmt.Sprintf(`<span style="color: %s; font-weight: normal;">%s</span>%s`,
			ff.theme.Color(RoleProjectRoot), escape(file[:n]), escape(file[n:]))
	default:
		p = escape(file)
	}
	return " in " + p + " line " + strconv.Itoa(line)
}

func (ff frameFormatter) class(class string) string {
	return fmt.Sprintf(`<span style="color: %s">%s</span>`, ff.theme.Color(RoleClass), escape(class))
}

func (ff frameFormatter) args(args []Arg) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		v := ff.arg(a)
		if a.Key != "" {
			v = "'" + escape(a.Key) + "' => " + v
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, ", ")
}

func (ff frameFormatter) arg(a Arg) string {
	switch a.Kind {
	case ArgObject:
		return fmt.Sprintf(`<span style="border-bottom: 1px dotted %s;">%s</span>`, ff.theme.Color(RoleObject), ff.class(a.Class))
	case ArgArray:
		return "<span>array</span>( " + ff.args(a.Items) + " )"
	case ArgString:
		return fmt.Sprintf(`<span style="color: %s;">'%s'</span>`, ff.theme.Color(RoleString), escape(a.Text))
	case ArgNull:
		return fmt.Sprintf(`<span style="color: %s;">null</span>`, ff.theme.Color(RoleNull))
	case ArgBool:
		return fmt.Sprintf(`<span style="color: %s;">%t</span>`, ff.theme.Color(RoleBoolean), a.Bool)
	case ArgResource:
		return fmt.Sprintf(`<span style="color: %s;">resource</span>`, ff.theme.Color(RoleResource))
	}
	return escape(strings.ReplaceAll(a.Text, "\n", ""))
}
