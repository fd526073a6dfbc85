package outline

import (
	"strings"
)

// Markdown renders the outline as a markdown document, one heading level per
// depth (capped at level 6).
func Markdown(o *Outline) string {
	if o == nil {
		return ""
	}
	var sb strings.Builder
	writeMarkdown(&sb, o.Sections, 1)
	return sb.String()
}

func writeMarkdown(sb *strings.Builder, nodes []*Node, depth int) {
	level := depth
	if level > 6 {
		level = 6
	}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		sb.WriteString(strings.Repeat("#", level))
		sb.WriteString(" ")
		sb.WriteString(n.Title)
		sb.WriteString("\n\n")
		if body := strings.TrimSpace(n.Body); body != "" {
			sb.WriteString(body)
			sb.WriteString("\n\n")
		}
		writeMarkdown(sb, n.Children, depth+1)
	}
}
