package locator

import (
	"fmt"
	"strings"

	"smart-locator/internal/entity"
	"smart-locator/internal/heuristics"
)

var tagRoles = map[string]string{
	"button":   "button",
	"textarea": "textbox",
	"select":   "combobox",
	"img":      "img",
	"h1":       "heading",
	"h2":       "heading",
	"h3":       "heading",
	"h4":       "heading",
	"h5":       "heading",
	"h6":       "heading",
	"ul":       "list",
	"ol":       "list",
	"li":       "listitem",
	"table":    "table",
	"tr":       "row",
	"td":       "cell",
	"form":     "form",
	"nav":      "navigation",
	"main":     "main",
	"article":  "article",
	"aside":    "complementary",
	"section":  "region",
	"header":   "banner",
	"footer":   "contentinfo",
}

var inputRoles = map[string]string{
	"checkbox": "checkbox",
	"radio":    "radio",
	"button":   "button",
	"submit":   "button",
	"reset":    "button",
	"image":    "button",
	"range":    "slider",
	"number":   "spinbutton",
	"search":   "searchbox",
}

// inferRole returns the ARIA role from an explicit role attribute or from
// the tag and its type.
func inferRole(m entity.ElementMetadata) (string, bool) {
	if role, ok := m.Attr("role"); ok && role != "" {
		return role, true
	}

	switch m.TagName {
	case "a":
		if styledAsButton(m.ClassList) {
			return "button", true
		}

		return "link", true
	case "input":
		typ, _ := m.Attr("type")
		if role, ok := inputRoles[typ]; ok {
			return role, true
		}

		return "textbox", true
	}

	role, ok := tagRoles[m.TagName]

	return role, ok
}

func styledAsButton(classes []string) bool {
	for _, cls := range classes {
		lower := strings.ToLower(cls)
		if lower == "btn" || strings.HasPrefix(lower, "btn-") || strings.Contains(lower, "button") {
			return true
		}
	}

	return false
}

func roleLocators(m entity.ElementMetadata) []entity.LocatorCandidate {
	var out []entity.LocatorCandidate

	if role, ok := inferRole(m); ok {
		out = append(out, roleVariants(m, role)...)
	}

	getBy := []struct {
		attr   string
		method string
		reason string
	}{
		{"aria-label", "getByLabel", "Label locator"},
		{"placeholder", "getByPlaceholder", "Placeholder locator"},
		{"title", "getByTitle", "Title locator"},
		{"alt", "getByAltText", "Alt text locator"},
		{"data-testid", "getByTestId", "Test ID locator"},
	}

	for _, g := range getBy {
		if v, ok := m.Attr(g.attr); ok && v != "" {
			out = append(out, candidate(entity.LocatorTypeRole,
				fmt.Sprintf("page.%s(%s)", g.method, jsString(v)), g.reason))
		}
	}

	return out
}

func roleVariants(m entity.ElementMetadata, role string) []entity.LocatorCandidate {
	r := jsString(role)

	out := []entity.LocatorCandidate{
		candidate(entity.LocatorTypeRole, fmt.Sprintf("page.getByRole(%s)", r), "Role locator"),
	}

	if text := heuristics.NormalizeText(m.InnerText); text != "" {
		out = append(out, candidate(entity.LocatorTypeRole,
			fmt.Sprintf("page.getByRole(%s, { name: %s })", r, jsString(text)), "Role locator with accessible name"))
	}

	if label, ok := m.Attr("aria-label"); ok && label != "" {
		out = append(out, candidate(entity.LocatorTypeRole,
			fmt.Sprintf("page.getByRole(%s, { name: %s })", r, jsString(label)), "Role locator with aria-label"))
	}

	if role == "checkbox" || role == "radio" {
		if _, ok := m.Attr("checked"); ok {
			out = append(out, candidate(entity.LocatorTypeRole,
				fmt.Sprintf("page.getByRole(%s, { checked: true })", r), "Role locator with checked state"))
		}
	}

	if role == "button" {
		if pressed, ok := m.Attr("aria-pressed"); ok && (pressed == "true" || pressed == "false") {
			out = append(out, candidate(entity.LocatorTypeRole,
				fmt.Sprintf("page.getByRole(%s, { pressed: %s })", r, pressed), "Role locator with pressed state"))
		}
	}

	return out
}
