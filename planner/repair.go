package planner

import "strings"

// RepairJSON is a best-effort salvage step for truncated JSON payloads: it
// drops a dangling trailing comma and appends whatever closing brackets and
// braces are still open, in nesting order. It can only recover payloads
// whose trailing structure was cut; mid-object truncation stays broken and
// surfaces as a parse failure downstream.
func RepairJSON(raw string) string {
	var stack []byte
	inString := false
	escaped := false

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{', '[':
			if !inString {
				stack = append(stack, c)
			}
		case '}':
			if !inString && len(stack) > 0 && stack[len(stack)-1] == '{' {
				stack = stack[:len(stack)-1]
			}
		case ']':
			if !inString && len(stack) > 0 && stack[len(stack)-1] == '[' {
				stack = stack[:len(stack)-1]
			}
		}
	}

	repaired := strings.TrimRight(raw, " \t\r\n")
	repaired = strings.TrimSuffix(repaired, ",")

	// A string cut off mid-flight needs its quote closed before any
	// structural closers can help.
	if inString {
		repaired += `"`
	}

	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '[' {
			repaired += "]"
		} else {
			repaired += "}"
		}
	}
	return repaired
}
