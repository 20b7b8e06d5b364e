package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// StringList accepts a single string, a comma separated string or a list.
type StringList []string

func splitList(values ...string) StringList {
	var out StringList
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = splitList(node.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = splitList(items...)
		return nil
	}
	return fmt.Errorf("config: expected string or list at line %d", node.Line)
}

// UnmarshalTOML implements toml.Unmarshaler.
func (l *StringList) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		*l = splitList(val)
		return nil
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("config: expected string list item, got %T", item)
			}
			items = append(items, s)
		}
		*l = splitList(items...)
		return nil
	}
	return fmt.Errorf("config: expected string or list, got %T", v)
}

// UnmarshalText implements encoding.TextUnmarshaler for environment values.
func (l *StringList) UnmarshalText(text []byte) error {
	*l = splitList(string(text))
	return nil
}
