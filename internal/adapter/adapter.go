// Package adapter assembles the per-tag document consumed by the documentation site's
// OpenAPI plugin: synthesized info, section sub-tags, sidebar groups and the fixed
// security schemes.
package adapter

import (
	"git.home.luguber.info/inful/specsplit/internal/oas"
	"git.home.luguber.info/inful/specsplit/internal/slug"
	"git.home.luguber.info/inful/specsplit/internal/tags"
)

const (
	DefaultOpenAPIVersion = "3.0.0"
	DefaultAPIVersion     = "1.0.0"
	// TagGroupsExtension carries the sidebar grouping.
	TagGroupsExtension = "x-tagGroups"
)

// Server is one entry of a document's servers list.
type Server struct {
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
}

// DefaultServers is used when neither the source document nor the configuration lists
// servers.
var DefaultServers = []Server{{URL: "https://your-site.incidentiq.com", Description: "IncidentIQ Instance"}}

// Input is everything needed to build one tag's document.
type Input struct {
	Tag string
	// Def may be nil for tags only discovered on operations.
	Def *tags.Definition
	// Paths must already be sorted.
	Paths   *oas.Node
	Schemas *oas.Node
	// Description becomes info.description.
	Description string
	Source      *oas.Node
	// Servers replaces DefaultServers when the source document has none.
	Servers []Server
}

// Build assembles the output document for one tag. Paths and schemas are copied, so the
// result can be mutated without touching in.
func Build(in Input) *oas.Node {
	src := in.Source
	sections := tags.Sections(in.Paths)

	doc := oas.Object()
	doc.Set("openapi", oas.String(stringOr(src.StringAt("openapi"), DefaultOpenAPIVersion)))
	doc.Set("info", buildInfo(in))
	doc.Set("servers", buildServers(src, in.Servers))
	doc.Set("tags", buildTags(in.Tag, in.Def, sections))
	doc.Set("paths", transformPaths(in.Paths, in.Tag))

	schemas := oas.Object()
	if in.Schemas != nil {
		schemas = in.Schemas.Clone()
	}
	doc.Set("components", oas.Object().
		Set("schemas", schemas).
		Set("securitySchemes", securitySchemes()))
	doc.Set("security", oas.Array(oas.Object().
		Set("bearerAuth", oas.Array()).
		Set("siteId", oas.Array()).
		Set("client", oas.Array())))

	if groups := TagGroups(in.Tag, sections); groups.Len() > 0 {
		doc.Set(TagGroupsExtension, groups)
	}
	return doc
}

// FileName is the output file stem for a tag.
func FileName(tagName string) string {
	return slug.File(tagName)
}

func buildInfo(in Input) *oas.Node {
	srcInfo := in.Source.Get("info")
	info := oas.Object().
		Set("title", oas.String(in.Tag+" API")).
		Set("version", oas.String(stringOr(srcInfo.StringAt("version"), DefaultAPIVersion))).
		Set("description", oas.String(in.Description))
	for _, k := range []string{"contact", "license"} {
		if v := srcInfo.Get(k); v != nil {
			info.Set(k, v.Clone())
		}
	}
	return info
}

func buildServers(src *oas.Node, configured []Server) *oas.Node {
	if s := src.Get("servers"); s.IsArray() {
		return s.Clone()
	}
	if len(configured) == 0 {
		configured = DefaultServers
	}
	out := oas.Array()
	for _, s := range configured {
		entry := oas.Object().Set("url", oas.String(s.URL))
		if s.Description != "" {
			entry.Set("description", oas.String(s.Description))
		}
		out.Items = append(out.Items, entry)
	}
	return out
}

func buildTags(tagName string, def *tags.Definition, sections []string) *oas.Node {
	primary := oas.Object().
		Set("name", oas.String(tagName)).
		Set("x-displayName", oas.String(tagName)).
		Set("description", oas.String(tagName+" API operations"))
	if def != nil && def.ExternalDocs != nil {
		primary.Set("externalDocs", def.ExternalDocs.Clone())
	}

	list := oas.Array(primary)
	for _, section := range sections {
		display := FormatSectionName(section)
		list.Items = append(list.Items, oas.Object().
			Set("name", oas.String(SectionTag(tagName, section))).
			Set("x-displayName", oas.String(display)).
			Set("description", oas.String(display+" operations")))
	}
	return list
}

// SectionTag names the sub-tag of a section.
func SectionTag(tagName, section string) string {
	return tagName + ":" + section
}

// TagGroups lists one sidebar group per section, each naming its sub-tag.
func TagGroups(tagName string, sections []string) *oas.Node {
	groups := oas.Array()
	for _, section := range sections {
		groups.Items = append(groups.Items, oas.Object().
			Set("name", oas.String(FormatSectionName(section))).
			Set("tags", oas.Strings(SectionTag(tagName, section))))
	}
	return groups
}

func transformPaths(paths *oas.Node, tagName string) *oas.Node {
	out := oas.Object()
	paths.Each(func(path string, item *oas.Node) {
		target := oas.Object()
		for _, field := range oas.PathLevelFields {
			if v := item.Get(field); v != nil {
				target.Set(field, v.Clone())
			}
		}

		for _, method := range oas.Methods {
			src := item.Get(method)
			if !src.IsObject() {
				continue
			}
			op := src.Clone()

			if meta := tags.MetaOf(op); meta.HasSection() {
				op.Set("tags", oas.Strings(SectionTag(tagName, meta.Section)))
			} else {
				op.Set("tags", oas.Strings(tagName))
			}
			if op.StringAt("operationId") == "" {
				op.Set("operationId", oas.String(GenerateOperationID(path, method)))
			}
			target.Set(method, op)
		}
		out.Set(path, target)
	})
	return out
}

func securitySchemes() *oas.Node {
	return oas.Object().
		Set("bearerAuth", oas.Object().
			Set("type", oas.String("http")).
			Set("scheme", oas.String("bearer")).
			Set("bearerFormat", oas.String("JWT")).
			Set("description", oas.String("JWT token from Administration > Developer Tools"))).
		Set("siteId", oas.Object().
			Set("type", oas.String("apiKey")).
			Set("in", oas.String("header")).
			Set("name", oas.String("SiteId")).
			Set("description", oas.String("Your site identifier (UUID)"))).
		Set("client", oas.Object().
			Set("type", oas.String("apiKey")).
			Set("in", oas.String("header")).
			Set("name", oas.String("Client")).
			Set("description", oas.String(`Must be "ApiClient"`)))
}

func stringOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
