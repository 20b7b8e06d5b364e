package report

import (
	"maps"
	"regexp"
)

// Color roles understood by Theme.
const (
	RolePageBg             = "page_bg"
	RoleContentBg          = "content_bg"
	RoleContentBorder      = "content_border"
	RoleProjectRoot        = "project_root"
	RoleAppFile            = "app_file"
	RoleVendorFile         = "vendor_file"
	RoleErrorPosition      = "error_position"
	RoleTraceItemDelimiter = "trace_item_delimiter"
	RoleClass              = "class"
	RoleObject             = "object"
	RoleString             = "string"
	RoleNull               = "null"
	RoleBoolean            = "boolean"
	RoleResource           = "resource"
	RoleJSONBlockBg        = "json_block_bg"
	RoleJSONBlockBorder    = "json_block_border"
	RoleMuted              = "muted"
)

// colorPattern limits theme values to what can sit inside a style attribute.
var colorPattern = regexp.MustCompile(`^[#a-zA-Z0-9(),.% ]{1,64}$`)

// Theme maps color roles and severities to CSS color values.
// A Theme is read-only once handed to a Renderer.
type Theme struct {
	colors     map[string]string
	severities [8]string
}

// DefaultTheme returns the built-in palette.
func DefaultTheme() Theme {
	return Theme{
		colors: map[string]string{
			RolePageBg:             "#FFFFFF",
			RoleContentBg:          "#F5F5F5",
			RoleContentBorder:      "#CCCCCC",
			RoleProjectRoot:        "#888888",
			RoleAppFile:            "#008d00",
			RoleVendorFile:         "#8d0389",
			RoleErrorPosition:      "#FF0000",
			RoleTraceItemDelimiter: "#CCCCCC",
			RoleClass:              "#0000FF",
			RoleObject:             "#888888",
			RoleString:             "#bb0044",
			RoleNull:               "#008d00",
			RoleBoolean:            "#008d00",
			RoleResource:           "#8d0389",
			RoleJSONBlockBg:        "#FFFFFF",
			RoleJSONBlockBorder:    "#CCCCCC",
			RoleMuted:              "#888888",
		},
		severities: [8]string{
			"#cccccc",
			"#468847",
			"#3a87ad",
			"#E78B00",
			"#c12a19",
			"#DC3961",
			"#D7046F",
			"#ff361c",
		},
	}
}

// Merge returns a copy of t with the given overrides applied. Keys are role
// names or severity names ("error", "warning", ...). Unknown keys and values
// that are not plain CSS colors are ignored.
func (t Theme) Merge(overrides map[string]string) Theme {
	if t.colors == nil {
		t = DefaultTheme()
	}
	out := Theme{colors: maps.Clone(t.colors), severities: t.severities}
	for key, value := range overrides {
		if !colorPattern.MatchString(value) {
			continue
		}
		if sev, err := ParseSeverity(key); err == nil {
			out.severities[sev] = value
			continue
		}
		if _, ok := out.colors[key]; ok {
			out.colors[key] = value
		}
	}
	return out
}

// Color returns the value for a role, or an empty string for unknown roles.
func (t Theme) Color(role string) string {
	if t.colors == nil {
		return DefaultTheme().colors[role]
	}
	return t.colors[role]
}

// SeverityColor returns the accent color for a severity.
func (t Theme) SeverityColor(s Severity) string {
	if t.colors == nil {
		return DefaultTheme().severities[s.clamp()]
	}
	return t.severities[s.clamp()]
}
