package locator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"smart-locator/internal/entity"
	"smart-locator/internal/heuristics"
)

const (
	minExactTextLen   = 3
	maxExactTextLen   = 50
	hierarchyDepth    = 3
	maxClassesInXPath = 2
)

func xpathLocators(m entity.ElementMetadata) []entity.LocatorCandidate {
	tag := m.TagName

	var out []entity.LocatorCandidate

	if m.ID != "" {
		literal := heuristics.EscapeXPath(m.ID)
		out = append(out,
			candidate(entity.LocatorTypeXPath, fmt.Sprintf("//%s[@id=%s]", tag, literal), "XPath with tag and id"),
			candidate(entity.LocatorTypeXPath, fmt.Sprintf("//*[@id=%s]", literal), "XPath with id"),
		)
	}

	if fw, ok := heuristics.DetectFramework(m); ok {
		for _, name := range heuristics.FrameworkAttributes(m, fw) {
			value := m.Attributes[name]
			if value == "" {
				continue
			}

			out = append(out, candidate(entity.LocatorTypeXPath,
				xpathAttrEquals(tag, name, value), fmt.Sprintf("%s attribute %s", fw, name)))
		}
	}

	if name, ok := heuristics.MostStableAttribute(m); ok {
		out = append(out, candidate(entity.LocatorTypeXPath,
			xpathAttrEquals(tag, name, m.Attributes[name]), "XPath with stable attribute"))
	}

	if len(m.ClassList) > 0 {
		out = append(out, candidate(entity.LocatorTypeXPath,
			fmt.Sprintf("//%s[%s]", tag, xpathClassContains(m.ClassList[0])), "XPath with class contains"))

		if len(m.ClassList) >= 2 {
			preds := make([]string, 0, maxClassesInXPath)
			for _, cls := range m.ClassList[:maxClassesInXPath] {
				preds = append(preds, xpathClassContains(cls))
			}

			out = append(out, candidate(entity.LocatorTypeXPath,
				fmt.Sprintf("//%s[%s]", tag, strings.Join(preds, " and ")), "XPath with combined classes"))
		}
	}

	if heuristics.HasMeaningfulText(m) {
		text := heuristics.NormalizeText(m.InnerText)
		if n := utf8.RuneCountInString(text); n >= minExactTextLen && n < maxExactTextLen {
			out = append(out, candidate(entity.LocatorTypeXPath,
				fmt.Sprintf("//%s[text()=%s]", tag, heuristics.EscapeXPath(text)), "XPath with exact text node"))
		}
	}

	if len(out) == 0 && m.NthIndex > 0 && m.ParentTagName != "" {
		out = append(out, candidate(entity.LocatorTypeXPath,
			fmt.Sprintf("//%s/%s[%d]", m.ParentTagName, tag, m.NthIndex), "XPath with position (fallback)"))
	}

	if xpath, ok := hierarchicalXPath(m.DOMPath); ok {
		out = append(out, candidate(entity.LocatorTypeXPath, xpath, "Hierarchical XPath (grandparent/parent/element)"))
	}

	out = append(out, dynamicLocators(m)...)

	return out
}

// hierarchicalXPath joins the last three DOM path entries, each narrowed by
// id, then first class, then bare tag.
func hierarchicalXPath(path []entity.DOMNode) (string, bool) {
	if len(path) < hierarchyDepth {
		return "", false
	}

	steps := make([]string, 0, hierarchyDepth)
	for _, node := range path[len(path)-hierarchyDepth:] {
		steps = append(steps, nodeStep(node))
	}

	return "//" + strings.Join(steps, "/"), true
}

func nodeStep(node entity.DOMNode) string {
	switch {
	case node.ID != "":
		return fmt.Sprintf("%s[@id=%s]", node.Tag, heuristics.EscapeXPath(node.ID))
	case len(node.Classes) > 0:
		return fmt.Sprintf("%s[%s]", node.Tag, xpathClassContains(node.Classes[0]))
	default:
		return node.Tag
	}
}
