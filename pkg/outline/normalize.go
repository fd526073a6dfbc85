package outline

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
)

// EnsureIDs fills in missing ids and de-duplicates colliding ones, deriving
// ids from titles. It mutates the outline and returns the number of ids it
// assigned. Generators call this before handing an outline to the reader;
// the reader itself never repairs outlines.
func EnsureIDs(o *Outline) int {
	if o == nil {
		return 0
	}

	seen := map[string]bool{}
	Walk(o.Sections, func(n *Node) {
		if n.ID != "" {
			seen[n.ID] = false
		}
	})

	assigned := 0
	Walk(o.Sections, func(n *Node) {
		if n.ID != "" && !seen[n.ID] {
			seen[n.ID] = true
			return
		}

		base := strcase.ToKebab(strings.TrimSpace(n.Title))
		if base == "" {
			base = "section"
		}
		candidate := base
		for i := 2; ; i++ {
			if _, taken := seen[candidate]; !taken {
				break
			}
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		n.ID = candidate
		seen[candidate] = true
		assigned++
	})

	return assigned
}
