package heuristics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"smart-locator/internal/entity"
)

func TestIsStableID(t *testing.T) {
	tests := []struct {
		id     string
		stable bool
	}{
		{"", false},
		{"submit-btn", true},
		{"login_form", true},
		{"a1b2c3d4-e5f6-7890-abcd-ef1234567890", false},
		{"prefix-A1B2C3D4-E5F6-7890-ABCD-EF1234567890-suffix", false},
		{"0123456789abcdef0123456789abcdef", false},
		{"0123456789ABCDEF0123456789ABCDEF01", false},
		{"deadbeefdeadbeefdeadbeefdeadbeef", false},
		{"hash-deadbeefdeadbeefdeadbeefdeadbeef", true},
		{"item-1234567890", false},
		{"item-123456789", true},
		{"ember1234", true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.stable, IsStableID(tt.id))
		})
	}
}

func TestIsStableAttribute(t *testing.T) {
	for _, name := range []string{"data-testid", "data-test-id", "data-qa", "data-cy", "aria-label", "aria-pressed", "role", "name", "type", "placeholder"} {
		assert.True(t, IsStableAttribute(name), name)
	}

	for _, name := range []string{"style", "onclick", "class", "href", "data-id", "title", "names"} {
		assert.False(t, IsStableAttribute(name), name)
	}
}

func TestMostStableAttribute(t *testing.T) {
	t.Run("priority order", func(t *testing.T) {
		m := entity.ElementMetadata{Attributes: map[string]string{
			"name":        "email",
			"aria-label":  "Email",
			"data-testid": "email-input",
		}}

		name, ok := MostStableAttribute(m)
		assert.True(t, ok)
		assert.Equal(t, "data-testid", name)
	})

	t.Run("skips empty values", func(t *testing.T) {
		m := entity.ElementMetadata{Attributes: map[string]string{
			"data-test-id": "",
			"placeholder":  "Search",
		}}

		name, ok := MostStableAttribute(m)
		assert.True(t, ok)
		assert.Equal(t, "placeholder", name)
	})

	t.Run("none", func(t *testing.T) {
		_, ok := MostStableAttribute(entity.ElementMetadata{Attributes: map[string]string{"class": "x"}})
		assert.False(t, ok)

		_, ok = MostStableAttribute(entity.ElementMetadata{})
		assert.False(t, ok)
	})
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "", NormalizeText(""))
	assert.Equal(t, "Sign in", NormalizeText("  Sign \n\t in  "))
	assert.Equal(t, "a b c", NormalizeText("a  b   c"))
}

func TestHasMeaningfulText(t *testing.T) {
	assert.False(t, HasMeaningfulText(entity.ElementMetadata{InnerText: "   "}))
	assert.True(t, HasMeaningfulText(entity.ElementMetadata{InnerText: " Submit "}))

	long := make([]byte, 100)
	for i := range long {
		long[i] = 'x'
	}
	assert.False(t, HasMeaningfulText(entity.ElementMetadata{InnerText: string(long)}))
	assert.True(t, HasMeaningfulText(entity.ElementMetadata{InnerText: string(long[:99])}))
}

func TestEscapeXPath(t *testing.T) {
	assert.Equal(t, "'plain'", EscapeXPath("plain"))
	assert.Equal(t, `"it's"`, EscapeXPath("it's"))
	assert.Equal(t, `concat('he said ', '"', 'hi', '"', '')`, EscapeXPath(`he said "hi"`))
	assert.Equal(t, `concat('it', "'", 's "x"')`, EscapeXPath(`it's "x"`))
	assert.Equal(t, `concat('a', "'", 'b "c"', "'", '')`, EscapeXPath(`a'b "c"'`))
}

func TestEscapeCSS(t *testing.T) {
	assert.Equal(t, `a\.b`, EscapeCSS("a.b"))
	assert.Equal(t, `col\:md\:4`, EscapeCSS("col:md:4"))
	assert.Equal(t, "plain-name_1", EscapeCSS("plain-name_1"))
}

func TestXPathAttr(t *testing.T) {
	assert.Equal(t, "@ng-model", XPathAttr("ng-model"))
	assert.Equal(t, "@*[name()=':value']", XPathAttr(":value"))
	assert.Equal(t, "@*[name()='@click']", XPathAttr("@click"))
}

func TestDetectFramework(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]string
		want  entity.Framework
		found bool
	}{
		{"angular", map[string]string{"ng-model": "user.name"}, entity.FrameworkAngular, true},
		{"angular data prefix", map[string]string{"data-ng-click": "save()"}, entity.FrameworkAngular, true},
		{"vue directive", map[string]string{"v-model": "query"}, entity.FrameworkVue, true},
		{"vue binding", map[string]string{":disabled": "busy"}, entity.FrameworkVue, true},
		{"vue event", map[string]string{"@click": "submit"}, entity.FrameworkVue, true},
		{"react", map[string]string{"data-reactid": ".0.1"}, entity.FrameworkReact, true},
		{"react testid", map[string]string{"data-testid": "login"}, entity.FrameworkReact, true},
		{"angular wins", map[string]string{"data-testid": "login", "ng-click": "go()"}, entity.FrameworkAngular, true},
		{"none", map[string]string{"class": "btn"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fw, ok := DetectFramework(entity.ElementMetadata{Attributes: tt.attrs})
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, fw)
		})
	}
}

func TestFrameworkAttributesSorted(t *testing.T) {
	m := entity.ElementMetadata{Attributes: map[string]string{
		"v-show":  "open",
		"v-model": "q",
		":class":  "cls",
		"id":      "x",
	}}

	assert.Equal(t, []string{":class", "v-model", "v-show"}, FrameworkAttributes(m, entity.FrameworkVue))
}

func TestElementType(t *testing.T) {
	assert.Equal(t, "button", ElementType(entity.ElementMetadata{TagName: "button"}))
	assert.Equal(t, "input[type=text]", ElementType(entity.ElementMetadata{TagName: "input"}))
	assert.Equal(t, "input[type=email]", ElementType(entity.ElementMetadata{
		TagName:    "input",
		Attributes: map[string]string{"type": "email"},
	}))
	assert.True(t, IsFormElement(entity.ElementMetadata{TagName: "select"}))
	assert.False(t, IsFormElement(entity.ElementMetadata{TagName: "div"}))
}
