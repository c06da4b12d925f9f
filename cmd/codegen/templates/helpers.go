package templates

import (
	"fmt"
	"strings"
)

// wrapQuoted renders tags as quoted, comma-separated literals wrapped
// at width columns under a single tab of indentation.
func wrapQuoted(tags []string, width int) string {
	var sb strings.Builder
	line := "\t"
	for _, tag := range tags {
		item := fmt.Sprintf("%q,", tag)
		if len(line) > 1 && len(line)+len(item)+1 > width {
			sb.WriteString(line)
			sb.WriteString("\n")
			line = "\t"
		}
		if len(line) > 1 {
			line += " "
		}
		line += item
	}
	if len(line) > 1 {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func pascalize(tag string) string {
	var sb strings.Builder
	for _, part := range strings.Split(tag, "-") {
		if part == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(part[:1]))
		sb.WriteString(part[1:])
	}
	return sb.String()
}

// constructorLines renders one H wrapper per tag, braces aligned on the
// longest name.
func constructorLines(tags []string) string {
	width := 0
	for _, tag := range tags {
		if n := len(pascalize(tag)); n > width {
			width = n
		}
	}
	var sb strings.Builder
	for _, tag := range tags {
		name := pascalize(tag)
		fmt.Fprintf(&sb, "func %s(data *VNodeData, children ...any) *VNode %s{ return H(%q, data, children...) }\n",
			name, strings.Repeat(" ", width-len(name)), tag)
	}
	return sb.String()
}
