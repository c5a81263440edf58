package locator

import (
	"fmt"
	"strings"

	"smart-locator/internal/entity"
	"smart-locator/internal/heuristics"
)

var tableActions = []string{"edit", "delete"}

// dynamicLocators recognizes repeating structures (menus, data tables,
// product lists) and emits templates whose varying value is a %s placeholder.
func dynamicLocators(m entity.ElementMetadata) []entity.LocatorCandidate {
	var out []entity.LocatorCandidate

	out = append(out, menuItemLocators(m)...)
	out = append(out, tableLocators(m)...)
	out = append(out, productLocators(m)...)

	return out
}

// ancestors returns the DOM path above the element, nearest first.
func ancestors(m entity.ElementMetadata) []entity.DOMNode {
	path := m.DOMPath
	if n := len(path); n > 0 && path[n-1].IsCurrent {
		path = path[:n-1]
	}

	out := make([]entity.DOMNode, 0, len(path))
	for i := len(path) - 1; i >= 0; i-- {
		out = append(out, path[i])
	}

	return out
}

func nearestAncestor(m entity.ElementMetadata, match func(entity.DOMNode) bool) (entity.DOMNode, bool) {
	for _, node := range ancestors(m) {
		if match(node) {
			return node, true
		}
	}

	return entity.DOMNode{}, false
}

func hasClass(classes []string, want string) bool {
	for _, cls := range classes {
		if cls == want {
			return true
		}
	}

	return false
}

func dynamic(locator, reason string) entity.LocatorCandidate {
	return candidate(entity.LocatorTypeXPath, locator, "Dynamic XPath: "+reason)
}

func menuItemLocators(m entity.ElementMetadata) []entity.LocatorCandidate {
	if m.TagName != "a" || m.ParentTagName != "li" {
		return nil
	}

	var out []entity.LocatorCandidate

	container, ok := nearestAncestor(m, func(n entity.DOMNode) bool {
		return n.Tag == "ul" || n.Tag == "nav"
	})
	if ok {
		sep := "/"
		if container.Tag == "nav" {
			sep = "//"
		}

		out = append(out, dynamic(
			fmt.Sprintf("//%s%sli/a[text()='%s']", nodeStep(container), sep, Placeholder),
			"menu item by link text"))
	}

	for _, name := range heuristics.SortedAttributeNames(m) {
		if strings.HasPrefix(name, "data-") {
			out = append(out, dynamic(
				fmt.Sprintf("//a[%s='%s']", heuristics.XPathAttr(name), Placeholder),
				"menu item by "+name))

			break
		}
	}

	return out
}

func tableLocators(m entity.ElementMetadata) []entity.LocatorCandidate {
	if m.ParentTagName != "tr" && m.ParentTagName != "td" {
		return nil
	}

	table, ok := nearestAncestor(m, func(n entity.DOMNode) bool { return n.Tag == "table" })
	if !ok || table.ID == "" {
		return nil
	}

	prefix := fmt.Sprintf("//table[@id=%s]", heuristics.EscapeXPath(table.ID))

	switch m.TagName {
	case "button":
		return tableActionLocators(m, prefix)
	case "td":
		return tableCellLocators(m, prefix)
	}

	return nil
}

func tableActionLocators(m entity.ElementMetadata, prefix string) []entity.LocatorCandidate {
	classes := strings.Join(m.ClassList, " ")

	action := ""
	for _, a := range tableActions {
		if strings.Contains(classes, a) {
			action = a

			break
		}
	}

	if action == "" {
		return nil
	}

	button := fmt.Sprintf("button[%s]", xpathClassContains(action))
	if v, ok := m.Attr("data-action"); ok && v != "" {
		button = fmt.Sprintf("button[@data-action=%s]", heuristics.EscapeXPath(v))
	}

	p := Placeholder

	return []entity.LocatorCandidate{
		dynamic(fmt.Sprintf("%s//tr[@id='%s']//%s", prefix, p, button), action+" button by row id"),
		dynamic(fmt.Sprintf("%s//tr[td[contains(@class, 'name')][normalize-space()='%s']]//%s", prefix, p, button), action+" button by name column"),
		dynamic(fmt.Sprintf("%s//tr[td[contains(@class, 'email')][normalize-space()='%s']]//%s", prefix, p, button), action+" button by email column"),
		dynamic(fmt.Sprintf("%s//tr[td[normalize-space()='%s']]//%s", prefix, p, button), action+" button by any cell text"),
		dynamic(fmt.Sprintf("%s/tbody/tr[%s]//%s", prefix, p, button), action+" button by row position"),
	}
}

func tableCellLocators(m entity.ElementMetadata, prefix string) []entity.LocatorCandidate {
	cell := "td"
	if m.NthIndex > 0 {
		cell = fmt.Sprintf("td[%d]", m.NthIndex)
	}

	out := []entity.LocatorCandidate{
		dynamic(fmt.Sprintf("%s//tr[@id='%s']/%s", prefix, Placeholder, cell), "cell by row id"),
	}

	if m.NthIndex > 0 {
		out = append(out, dynamic(
			fmt.Sprintf("%s//tr[td[normalize-space()='%s']]/%s", prefix, Placeholder, cell),
			"cell by row text and column position"))
	}

	return out
}

func productLocators(m entity.ElementMetadata) []entity.LocatorCandidate {
	if m.TagName != "button" {
		return nil
	}

	if _, ok := m.Attr("data-product"); !ok {
		return nil
	}

	if _, ok := nearestAncestor(m, func(n entity.DOMNode) bool {
		return n.Tag == "li" && hasClass(n.Classes, "product-item")
	}); !ok {
		return nil
	}

	item := "//li[contains(@class, 'product-item')]"

	return []entity.LocatorCandidate{
		dynamic(fmt.Sprintf("%s//button[@data-product='%s']", item, Placeholder), "product button by product id"),
		dynamic(fmt.Sprintf("%s[.//*[normalize-space()='%s']]//button[@data-product]", item, Placeholder), "product button by product name"),
	}
}
