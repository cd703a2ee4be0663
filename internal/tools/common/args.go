package common

import (
	"fmt"
	"strings"
)

// Source labels for audit records and spans.
const (
	SourceLocal = "local"
	SourceDrive = "drive"
)

// SourceFromArgs tells whether a tool call analyzes Drive files or local
// files. It returns "" for tools that take no media.
func SourceFromArgs(args map[string]any) string {
	if v, ok := args["drive_file_id"].(string); ok && v != "" {
		return SourceDrive
	}
	if _, ok := args["drive_file_ids"]; ok {
		return SourceDrive
	}
	if v, ok := args["path"].(string); ok && v != "" {
		return SourceLocal
	}
	if _, ok := args["paths"]; ok {
		return SourceLocal
	}
	return ""
}

// OptionalInt reads a numeric argument. JSON numbers arrive as float64.
func OptionalInt(args map[string]any, key string, def int) (int, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%s must be a whole number", key)
		}
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%s must be a number", key)
	}
}

// OptionalString reads a trimmed string argument.
func OptionalString(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}
