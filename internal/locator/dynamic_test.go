package locator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-locator/internal/entity"
)

func usersTablePath(leaf ...entity.DOMNode) []entity.DOMNode {
	path := []entity.DOMNode{
		{Tag: "body"},
		{Tag: "div", Classes: []string{"container"}},
		{Tag: "table", ID: "users-table", Classes: []string{"table"}},
		{Tag: "tbody"},
		{Tag: "tr", ID: "user-7"},
	}

	return append(path, leaf...)
}

func TestTableCellLocators(t *testing.T) {
	m := entity.ElementMetadata{
		TagName:       "td",
		ParentTagName: "tr",
		NthIndex:      2,
		InnerText:     "jane@example.com",
		DOMPath:       usersTablePath(entity.DOMNode{Tag: "td", IsCurrent: true}),
	}

	got := allLocators(dynamicLocators(m))

	assert.Equal(t, []string{
		"//table[@id='users-table']//tr[@id='%s']/td[2]",
		"//table[@id='users-table']//tr[td[normalize-space()='%s']]/td[2]",
	}, got)

	var parameterized []string
	for _, c := range GenerateAll(m) {
		if strings.Contains(c.Locator, "%s") {
			parameterized = append(parameterized, c.Locator)
			assert.Contains(t, c.Locator, "table[@id='users-table']")
			assert.Equal(t, entity.LocatorTypeXPath, c.Type)
		}
	}
	assert.NotEmpty(t, parameterized)
}

func TestTableCellLocators_NoPosition(t *testing.T) {
	m := entity.ElementMetadata{
		TagName:       "td",
		ParentTagName: "tr",
		DOMPath:       usersTablePath(entity.DOMNode{Tag: "td", IsCurrent: true}),
	}

	assert.Equal(t, []string{"//table[@id='users-table']//tr[@id='%s']/td"}, allLocators(dynamicLocators(m)))
}

func TestTableLocators_RequiresTableID(t *testing.T) {
	m := entity.ElementMetadata{
		TagName:       "td",
		ParentTagName: "tr",
		NthIndex:      1,
		DOMPath: []entity.DOMNode{
			{Tag: "body"},
			{Tag: "table"},
			{Tag: "tr"},
			{Tag: "td", IsCurrent: true},
		},
	}

	assert.Empty(t, dynamicLocators(m))
}

func TestTableActionLocators(t *testing.T) {
	m := entity.ElementMetadata{
		TagName:       "button",
		ParentTagName: "td",
		ClassList:     []string{"btn", "btn-edit"},
		DOMPath: usersTablePath(
			entity.DOMNode{Tag: "td", Classes: []string{"actions"}},
			entity.DOMNode{Tag: "button", Classes: []string{"btn", "btn-edit"}, IsCurrent: true},
		),
	}

	cands := dynamicLocators(m)
	require.Len(t, cands, 5)

	assert.Equal(t, []string{
		"//table[@id='users-table']//tr[@id='%s']//button[contains(@class, 'edit')]",
		"//table[@id='users-table']//tr[td[contains(@class, 'name')][normalize-space()='%s']]//button[contains(@class, 'edit')]",
		"//table[@id='users-table']//tr[td[contains(@class, 'email')][normalize-space()='%s']]//button[contains(@class, 'edit')]",
		"//table[@id='users-table']//tr[td[normalize-space()='%s']]//button[contains(@class, 'edit')]",
		"//table[@id='users-table']/tbody/tr[%s]//button[contains(@class, 'edit')]",
	}, allLocators(cands))

	for _, c := range cands {
		assert.True(t, strings.HasPrefix(c.Reason, "Dynamic XPath: edit button"), c.Reason)
	}
}

func TestTableActionLocators_DataAction(t *testing.T) {
	m := entity.ElementMetadata{
		TagName:       "button",
		ParentTagName: "td",
		ClassList:     []string{"icon-delete"},
		Attributes:    map[string]string{"data-action": "delete"},
		DOMPath: usersTablePath(
			entity.DOMNode{Tag: "td"},
			entity.DOMNode{Tag: "button", IsCurrent: true},
		),
	}

	cands := dynamicLocators(m)
	require.Len(t, cands, 5)
	for _, c := range cands {
		assert.True(t, strings.HasSuffix(c.Locator, "//button[@data-action='delete']"), c.Locator)
	}
}

func TestTableActionLocators_PlainButton(t *testing.T) {
	m := entity.ElementMetadata{
		TagName:       "button",
		ParentTagName: "td",
		ClassList:     []string{"btn"},
		DOMPath:       usersTablePath(entity.DOMNode{Tag: "td"}, entity.DOMNode{Tag: "button", IsCurrent: true}),
	}

	assert.Empty(t, dynamicLocators(m))
}

func TestMenuItemLocators(t *testing.T) {
	m := entity.ElementMetadata{
		TagName:       "a",
		ParentTagName: "li",
		Attributes:    map[string]string{"href": "/home", "data-page": "home", "data-track": "nav"},
		DOMPath: []entity.DOMNode{
			{Tag: "body"},
			{Tag: "ul", ID: "main-menu"},
			{Tag: "li"},
			{Tag: "a", IsCurrent: true},
		},
	}

	assert.Equal(t, []string{
		"//ul[@id='main-menu']/li/a[text()='%s']",
		"//a[@data-page='%s']",
	}, allLocators(dynamicLocators(m)))
}

func TestMenuItemLocators_NavByClass(t *testing.T) {
	m := entity.ElementMetadata{
		TagName:       "a",
		ParentTagName: "li",
		DOMPath: []entity.DOMNode{
			{Tag: "body"},
			{Tag: "nav", Classes: []string{"sidebar"}},
			{Tag: "div"},
			{Tag: "li"},
			{Tag: "a", IsCurrent: true},
		},
	}

	assert.Equal(t, []string{"//nav[contains(@class, 'sidebar')]//li/a[text()='%s']"}, allLocators(dynamicLocators(m)))
}

func TestProductLocators(t *testing.T) {
	m := entity.ElementMetadata{
		TagName:       "button",
		ParentTagName: "div",
		Attributes:    map[string]string{"data-product": "42"},
		DOMPath: []entity.DOMNode{
			{Tag: "body"},
			{Tag: "ul", Classes: []string{"products"}},
			{Tag: "li", Classes: []string{"card", "product-item"}},
			{Tag: "div"},
			{Tag: "button", IsCurrent: true},
		},
	}

	assert.Equal(t, []string{
		"//li[contains(@class, 'product-item')]//button[@data-product='%s']",
		"//li[contains(@class, 'product-item')][.//*[normalize-space()='%s']]//button[@data-product]",
	}, allLocators(dynamicLocators(m)))

	m.DOMPath[2].Classes = []string{"card"}
	assert.Empty(t, dynamicLocators(m))
}
