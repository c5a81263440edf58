package browser

import (
	"strings"

	"smart-locator/internal/entity"
)

// metadataFromMap converts the object returned by metadataFunction. Missing or
// mistyped fields fall back to zero values.
func metadataFromMap(raw map[string]interface{}) entity.ElementMetadata {
	m := entity.ElementMetadata{
		TagName:        strings.ToLower(getString(raw, "tagName")),
		ID:             getString(raw, "id"),
		ClassList:      getStrings(raw, "classList"),
		Attributes:     getStringMap(raw, "attributes"),
		InnerText:      getString(raw, "innerText"),
		NormalizedText: getString(raw, "normalizedText"),
		ParentTagName:  strings.ToLower(getString(raw, "parentTagName")),
		NthIndex:       getInt(raw, "nthIndex"),
		CSSPath:        getString(raw, "cssPath"),
		XPathPath:      getString(raw, "xpathPath"),
		OuterHTML:      getString(raw, "outerHTML"),
	}

	if nodes, ok := raw["domPath"].([]interface{}); ok {
		m.DOMPath = make([]entity.DOMNode, 0, len(nodes))

		for _, item := range nodes {
			node, ok := item.(map[string]interface{})
			if !ok {
				continue
			}

			m.DOMPath = append(m.DOMPath, entity.DOMNode{
				Tag:       strings.ToLower(getString(node, "tagName")),
				ID:        getString(node, "id"),
				Classes:   getStrings(node, "classes"),
				Text:      getString(node, "text"),
				IsCurrent: getBool(node, "isCurrent"),
			})
		}
	}

	return m
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}

	return ""
}

func getBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}

	return false
}

func getInt(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}

	return 0
}

func getStrings(m map[string]interface{}, key string) []string {
	items, ok := m[key].([]interface{})
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}

	return out
}

func getStringMap(m map[string]interface{}, key string) map[string]string {
	out := make(map[string]string)

	attrs, ok := m[key].(map[string]interface{})
	if !ok {
		return out
	}

	for k, v := range attrs {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}

	return out
}

// playwrightSelector prefixes XPath expressions so the playwright selector
// engine does not treat them as CSS.
func playwrightSelector(selector string) string {
	s := strings.TrimSpace(selector)
	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "(") {
		return "xpath=" + s
	}

	return s
}
