// Package heuristics classifies element attributes and ids by how likely they
// are to survive code changes, and escapes values for CSS and XPath.
package heuristics

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"smart-locator/internal/entity"
)

const maxMeaningfulTextLen = 100

var (
	uuidPattern     = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
	hashPattern     = regexp.MustCompile(`(?i)^[0-9a-f]{32,}$`)
	digitRunPattern = regexp.MustCompile(`[0-9]{10,}`)
	xmlNamePattern  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)
	cssSpecialChars = regexp.MustCompile(`([\s!"#$%&'()*+,./:;<=>?@\[\\\]^` + "`" + `{|}~])`)
)

// stableAttributePriority is the order in which MostStableAttribute looks for
// a usable attribute.
var stableAttributePriority = []string{
	"data-test-id",
	"data-testid",
	"data-test",
	"data-qa",
	"data-cy",
	"aria-label",
	"aria-labelledby",
	"role",
	"name",
	"type",
	"placeholder",
}

// IsStableID rejects empty ids, UUIDs, long hex hashes and ids carrying a run
// of ten or more digits.
func IsStableID(id string) bool {
	if id == "" {
		return false
	}

	if uuidPattern.MatchString(id) {
		return false
	}

	if hashPattern.MatchString(id) {
		return false
	}

	if digitRunPattern.MatchString(id) {
		return false
	}

	return true
}

func IsStableAttribute(name string) bool {
	switch name {
	case "role", "name", "type", "placeholder":
		return true
	}

	return strings.HasPrefix(name, "data-test") ||
		strings.HasPrefix(name, "data-qa") ||
		strings.HasPrefix(name, "data-cy") ||
		strings.HasPrefix(name, "aria-")
}

// MostStableAttribute returns the first attribute of the priority list that is
// present with a non-empty value.
func MostStableAttribute(m entity.ElementMetadata) (string, bool) {
	for _, name := range stableAttributePriority {
		if v, ok := m.Attr(name); ok && v != "" {
			return name, true
		}
	}

	return "", false
}

func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func HasMeaningfulText(m entity.ElementMetadata) bool {
	n := utf8.RuneCountInString(NormalizeText(m.InnerText))

	return n > 0 && n < maxMeaningfulTextLen
}

// EscapeXPath renders value as an XPath string literal. Values holding a
// double quote go through concat() so that the quote is emitted as its own
// literal.
func EscapeXPath(value string) string {
	hasSingle := strings.Contains(value, "'")
	hasDouble := strings.Contains(value, `"`)

	switch {
	case !hasSingle && !hasDouble:
		return "'" + value + "'"
	case hasSingle && !hasDouble:
		return `"` + value + `"`
	case hasSingle:
		return concatLiteral(strings.Split(value, "'"), "'", `"'"`)
	default:
		return concatLiteral(strings.Split(value, `"`), "'", `'"'`)
	}
}

func concatLiteral(parts []string, quote, separator string) string {
	var b strings.Builder

	b.WriteString("concat(")

	for i, part := range parts {
		if i > 0 {
			b.WriteString(", ")
			b.WriteString(separator)
			b.WriteString(", ")
		}

		b.WriteString(quote)
		b.WriteString(part)
		b.WriteString(quote)
	}

	b.WriteString(")")

	return b.String()
}

// EscapeCSS backslash-escapes characters that are special in CSS identifiers.
func EscapeCSS(value string) string {
	return cssSpecialChars.ReplaceAllString(value, `\$1`)
}

// XPathAttr renders an attribute axis step. Names that are not plain XML
// names (Vue's ":prop" or "@event") use a name() predicate.
func XPathAttr(name string) string {
	if xmlNamePattern.MatchString(name) {
		return "@" + name
	}

	return "@*[name()=" + EscapeXPath(name) + "]"
}

// DetectFramework checks Angular markers first, then Vue, then React.
func DetectFramework(m entity.ElementMetadata) (entity.Framework, bool) {
	for _, fw := range []entity.Framework{entity.FrameworkAngular, entity.FrameworkVue, entity.FrameworkReact} {
		if len(FrameworkAttributes(m, fw)) > 0 {
			return fw, true
		}
	}

	return "", false
}

// FrameworkAttributes lists, in name order, the attributes that mark fw.
func FrameworkAttributes(m entity.ElementMetadata, fw entity.Framework) []string {
	var names []string

	for name := range m.Attributes {
		if isFrameworkAttribute(name, fw) {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names
}

func isFrameworkAttribute(name string, fw entity.Framework) bool {
	switch fw {
	case entity.FrameworkAngular:
		return strings.HasPrefix(name, "ng-") || strings.HasPrefix(name, "data-ng-")
	case entity.FrameworkVue:
		return strings.HasPrefix(name, "v-") || strings.HasPrefix(name, ":") || strings.HasPrefix(name, "@")
	case entity.FrameworkReact:
		return strings.HasPrefix(name, "data-react") || name == "data-testid"
	}

	return false
}

func IsFormElement(m entity.ElementMetadata) bool {
	switch m.TagName {
	case "input", "textarea", "select", "button":
		return true
	}

	return false
}

// ElementType describes the element for display, e.g. "input[type=email]".
func ElementType(m entity.ElementMetadata) string {
	if m.TagName != "input" {
		return m.TagName
	}

	typ, ok := m.Attr("type")
	if !ok || typ == "" {
		typ = "text"
	}

	return "input[type=" + typ + "]"
}

// SortedAttributeNames returns attribute names in lexical order so that
// generation does not depend on map iteration.
func SortedAttributeNames(m entity.ElementMetadata) []string {
	names := make([]string, 0, len(m.Attributes))
	for name := range m.Attributes {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
