// Package locator turns an element snapshot into ranked locator candidates.
//
// Generation is an ordered pipeline of pure sub-generators whose outputs are
// concatenated; scoring assigns each candidate a weighted score and picks the
// best. Neither step keeps state between calls.
package locator

import (
	"fmt"
	"strings"

	"smart-locator/internal/entity"
	"smart-locator/internal/heuristics"
)

// Placeholder is the substitution marker used by parameterized locators.
const Placeholder = "%s"

type subGenerator func(m entity.ElementMetadata) []entity.LocatorCandidate

var pipeline = []subGenerator{
	idLocators,
	attributeLocators,
	cssLocators,
	xpathLocators,
	roleLocators,
	textLocators,
}

// GenerateAll returns every candidate the sub-generators can derive from m,
// in pipeline order. Missing optional fields only reduce the output.
// Repeated (type, locator) pairs keep their first occurrence.
func GenerateAll(m entity.ElementMetadata) []entity.LocatorCandidate {
	var candidates []entity.LocatorCandidate

	for _, gen := range pipeline {
		candidates = append(candidates, gen(m)...)
	}

	return dedupe(candidates)
}

func dedupe(candidates []entity.LocatorCandidate) []entity.LocatorCandidate {
	type key struct {
		typ     entity.LocatorType
		locator string
	}

	seen := make(map[key]struct{}, len(candidates))
	out := candidates[:0]

	for _, c := range candidates {
		k := key{c.Type, c.Locator}
		if _, ok := seen[k]; ok {
			continue
		}

		seen[k] = struct{}{}
		out = append(out, c)
	}

	return out
}

func candidate(typ entity.LocatorType, locator, reason string) entity.LocatorCandidate {
	return entity.LocatorCandidate{
		Type:    typ,
		Locator: locator,
		Reason:  reason,
	}
}

func idLocators(m entity.ElementMetadata) []entity.LocatorCandidate {
	if !heuristics.IsStableID(m.ID) {
		return nil
	}

	return []entity.LocatorCandidate{
		candidate(entity.LocatorTypeID, "#"+m.ID, "Unique and stable ID"),
	}
}

func attributeLocators(m entity.ElementMetadata) []entity.LocatorCandidate {
	var out []entity.LocatorCandidate

	for _, name := range heuristics.SortedAttributeNames(m) {
		value := m.Attributes[name]
		if value == "" || !heuristics.IsStableAttribute(name) {
			continue
		}

		reason := "Stable attribute: " + name
		out = append(out,
			candidate(entity.LocatorTypeCSS, cssAttr(m.TagName, name, value), reason),
			candidate(entity.LocatorTypeXPath, xpathAttrEquals(m.TagName, name, value), reason),
		)
	}

	return out
}

func cssLocators(m entity.ElementMetadata) []entity.LocatorCandidate {
	tag := m.TagName

	out := []entity.LocatorCandidate{
		candidate(entity.LocatorTypeCSS, tag, "Simple tag selector"),
	}

	if len(m.ClassList) > 0 {
		escaped := make([]string, len(m.ClassList))
		for i, cls := range m.ClassList {
			escaped[i] = heuristics.EscapeCSS(cls)
		}

		out = append(out, candidate(entity.LocatorTypeCSS, tag+"."+strings.Join(escaped, "."), "Tag with class"))

		for _, cls := range escaped {
			out = append(out, candidate(entity.LocatorTypeCSS, "."+cls, "Class selector"))
		}
	}

	if tag == "input" {
		if typ, ok := m.Attr("type"); ok && typ != "" {
			out = append(out, candidate(entity.LocatorTypeCSS, cssAttr("input", "type", typ), "Input with type"))
		}
	}

	if m.NthIndex > 0 {
		out = append(out, candidate(entity.LocatorTypeCSS,
			fmt.Sprintf("%s:nth-of-type(%d)", tag, m.NthIndex), "Nth-of-type (fallback)"))
	}

	return out
}

func textLocators(m entity.ElementMetadata) []entity.LocatorCandidate {
	if !heuristics.HasMeaningfulText(m) {
		return nil
	}

	text := heuristics.NormalizeText(m.InnerText)
	literal := heuristics.EscapeXPath(text)

	out := []entity.LocatorCandidate{
		candidate(entity.LocatorTypeXPath,
			fmt.Sprintf("//%s[normalize-space()=%s]", m.TagName, literal), "XPath with exact text"),
		candidate(entity.LocatorTypeXPath,
			fmt.Sprintf("//%s[contains(normalize-space(), %s)]", m.TagName, literal), "XPath with text contains"),
	}

	if m.TagName == "button" || m.TagName == "a" {
		out = append(out, candidate(entity.LocatorTypeText,
			fmt.Sprintf("page.locator(%s)", jsString(fmt.Sprintf("%s:has-text(%q)", m.TagName, text))),
			"Text-based locator"))
	}

	return out
}

// cssAttr renders tag[name='value'] with the value's single quotes escaped.
func cssAttr(tag, name, value string) string {
	return fmt.Sprintf("%s[%s='%s']", tag, name, strings.ReplaceAll(value, "'", `\'`))
}

func xpathAttrEquals(tag, name, value string) string {
	return fmt.Sprintf("//%s[%s=%s]", tag, heuristics.XPathAttr(name), heuristics.EscapeXPath(value))
}

func xpathClassContains(cls string) string {
	return fmt.Sprintf("contains(@class, %s)", heuristics.EscapeXPath(cls))
}

// jsString renders s as a single-quoted JavaScript string literal.
func jsString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`)

	return "'" + r.Replace(s) + "'"
}
