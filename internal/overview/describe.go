package overview

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/specsplit/internal/tags"
)

// DefaultDescription synthesises a tag description from its declared description and
// operation statistics.
func DefaultDescription(tagName string, def *tags.Definition, st tags.Stats) string {
	base := ""
	if def != nil {
		base = def.Description
	}

	parts := []string{
		base,
		"",
		fmt.Sprintf("This section contains **%d endpoints** for %s operations.", st.Endpoints, strings.ToLower(tagName)),
	}
	if st.Sections > 0 {
		parts = append(parts, fmt.Sprintf("Operations are organized into **%d categories** for easier navigation.", st.Sections))
	}

	var methods []string
	for _, m := range tags.CountedMethods {
		if n := st.Methods[m]; n > 0 {
			methods = append(methods, fmt.Sprintf("%d %s", n, strings.ToUpper(m)))
		}
	}
	if len(methods) > 1 {
		parts = append(parts, "", "**Available operations:** "+strings.Join(methods, ", "))
	}

	return strings.Join(parts, "\n")
}

// Describe returns the overview for tagName when one exists, otherwise the default
// description. found reports which one was used.
func (t *Table) Describe(tagName string, def *tags.Definition, st tags.Stats) (text string, found bool) {
	if content, ok := t.Find(tagName); ok {
		return content, true
	}
	return DefaultDescription(tagName, def, st), false
}

// Template renders a starter overview file for a tag.
func Template(tagName string, def *tags.Definition, st tags.Stats, product string) string {
	if product == "" {
		product = "the platform"
	}
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line("# " + tagName)
	line("")
	if def != nil && def.Description != "" {
		line(def.Description)
		line("")
	}

	line("## Overview")
	line("")
	line(fmt.Sprintf("The %s API provides endpoints for managing %s within %s.", tagName, strings.ToLower(tagName), product))
	line("")

	line("## Common Use Cases")
	line("")
	line("- Describe the most common use case")
	line("- Walk through a typical workflow")
	line("")

	line("## Authentication")
	line("")
	line("All endpoints in this section require authentication via:")
	line("- **Authorization**: Bearer token")
	line("- **SiteId**: Your site identifier")
	line(`- **Client**: Set to "ApiClient"`)
	line("")

	if st.Sections > 0 {
		line("## Sections")
		line("")
		line(fmt.Sprintf("This API is organized into %d sections:", st.Sections))
		line("")
		line("<!-- Sections will be auto-populated -->")
		line("")
	}

	line("## Quick Start")
	line("")
	line("```bash")
	line("# Example API call")
	line(`curl -X GET "https://your-site.example.com/api/v1.0/..." \`)
	line(`  -H "Authorization: Bearer YOUR_TOKEN" \`)
	line(`  -H "SiteId: YOUR_SITE_ID" \`)
	line(`  -H "Client: ApiClient"`)
	line("```")
	line("")

	return b.String()
}
