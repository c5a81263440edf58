package locator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-locator/internal/entity"
	"smart-locator/pkg/apperr"
)

func TestScoreAndSelectBest_Empty(t *testing.T) {
	for _, cands := range [][]entity.LocatorCandidate{nil, {}} {
		res, err := ScoreAndSelectBest(cands, entity.ElementMetadata{TagName: "div"})

		assert.Nil(t, res)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoCandidates))
		assert.Equal(t, apperr.CodeInvalidInput, apperr.CodeOf(err))
	}
}

func TestScoreAndSelectBest_EmptyLocatorPanics(t *testing.T) {
	cands := []entity.LocatorCandidate{
		{Type: entity.LocatorTypeCSS, Locator: "div"},
		{Type: entity.LocatorTypeXPath, Locator: ""},
	}

	assert.Panics(t, func() {
		_, _ = ScoreAndSelectBest(cands, entity.ElementMetadata{TagName: "div"})
	})
}

func TestScenario_StableID(t *testing.T) {
	m := entity.ElementMetadata{
		TagName:    "input",
		ID:         "submit-btn",
		Attributes: map[string]string{"type": "submit"},
		ClassList:  []string{},
		IsUnique:   true,
	}

	res, err := ScoreAndSelectBest(GenerateAll(m), m)
	require.NoError(t, err)

	assert.Equal(t, "#submit-btn", res.BestLocator)
	assert.Equal(t, "#submit-btn", res.Candidates[entity.LocatorTypeID])
	assert.InDelta(t, 100, res.Score, 1e-9)
	assert.Contains(t, res.Reasons, "Unique and stable ID detected")
	assert.Contains(t, res.Reasons, "Fast DOM query performance")
	assert.Equal(t, m.ID, res.Metadata.ID)

	b := Score(entity.LocatorCandidate{Type: entity.LocatorTypeID, Locator: "#submit-btn"}, m)
	assert.GreaterOrEqual(t, b.Stability, 90.0)
	assert.GreaterOrEqual(t, b.Specificity, 90.0)
}

func TestScenario_UnstableIDFallsBackToTestID(t *testing.T) {
	m := entity.ElementMetadata{
		TagName:    "button",
		ID:         "a1b2c3d4-e5f6-7890-abcd-ef1234567890",
		Attributes: map[string]string{"data-testid": "login-btn"},
		IsUnique:   true,
	}

	res, err := ScoreAndSelectBest(GenerateAll(m), m)
	require.NoError(t, err)

	assert.Contains(t, []string{
		"button[data-testid='login-btn']",
		"//button[@data-testid='login-btn']",
	}, res.BestLocator)
	assert.NotContains(t, res.Candidates, entity.LocatorTypeID)
	assert.NotContains(t, res.BestLocator, m.ID)
	assert.Contains(t, res.Reasons, "Stable attribute detected (data-test, aria-*, role)")
}

func TestScenario_ClassOnlyFallback(t *testing.T) {
	for _, tag := range []string{"button", "a", "span", "div"} {
		t.Run(tag, func(t *testing.T) {
			m := entity.ElementMetadata{
				TagName:       tag,
				ClassList:     []string{"btn", "btn-primary"},
				ParentTagName: "div",
				NthIndex:      3,
			}

			res, err := ScoreAndSelectBest(GenerateAll(m), m)
			require.NoError(t, err)

			isFallback := strings.Contains(res.BestLocator, "class") ||
				strings.Contains(res.BestLocator, ".btn") ||
				strings.Contains(res.BestLocator, "nth-of-type")
			assert.True(t, isFallback, res.BestLocator)
			assert.NotContains(t, res.BestLocator, "getByRole")
			assert.Equal(t, tag+".btn.btn-primary", res.BestLocator)
			assert.InDelta(t, 75.5, res.Score, 1e-9)
			assert.InDelta(t, res.Score, res.Breakdown.Total, 1e-9)
			assert.Equal(t, 65.0, res.Breakdown.Stability)
			assert.NotContains(t, res.Reasons, "Unique and stable ID detected")
		})
	}
}

func TestScore_BareRoleLocator(t *testing.T) {
	m := entity.ElementMetadata{TagName: "button", ClassList: []string{"btn"}}

	b := Score(entity.LocatorCandidate{Type: entity.LocatorTypeRole, Locator: "page.getByRole('button')"}, m)
	assert.Equal(t, 65.0, b.Stability)
	assert.Equal(t, 70.0, b.Specificity)
	assert.Equal(t, 100.0, b.Readability)
	assert.Equal(t, 50.0, b.Performance)
	assert.InDelta(t, 72, b.Total, 1e-9)
}

func TestScoreAndSelectBest_SortsInPlaceStable(t *testing.T) {
	cands := []entity.LocatorCandidate{
		{Type: entity.LocatorTypeCSS, Locator: "span"},
		{Type: entity.LocatorTypeCSS, Locator: ".a"},
		{Type: entity.LocatorTypeCSS, Locator: ".b"},
	}

	res, err := ScoreAndSelectBest(cands, entity.ElementMetadata{TagName: "span"})
	require.NoError(t, err)

	assert.Equal(t, ".a", res.BestLocator)
	assert.Equal(t, []string{".a", ".b", "span"}, allLocators(cands))
	assert.Equal(t, cands[0].Score, cands[1].Score)
	assert.Greater(t, cands[1].Score, cands[2].Score)
}

func TestScoreAndSelectBest_Deterministic(t *testing.T) {
	m := entity.ElementMetadata{
		TagName:    "a",
		ClassList:  []string{"nav-link"},
		Attributes: map[string]string{"href": "/settings", "aria-label": "Settings"},
		InnerText:  "Settings",
		NthIndex:   2,
	}

	first, err := ScoreAndSelectBest(GenerateAll(m), m)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := ScoreAndSelectBest(GenerateAll(m), m)
		require.NoError(t, err)
		assert.Equal(t, first.BestLocator, again.BestLocator)
		assert.Equal(t, first.Score, again.Score)
		assert.Equal(t, first.Candidates, again.Candidates)
	}
}

func TestScore_StableMarkerAlwaysWins(t *testing.T) {
	m := entity.ElementMetadata{TagName: "button"}

	pairs := []struct {
		stable, plain entity.LocatorCandidate
	}{
		{
			entity.LocatorCandidate{Type: entity.LocatorTypeCSS, Locator: "button[data-test='save']"},
			entity.LocatorCandidate{Type: entity.LocatorTypeCSS, Locator: "button[data-foo='save']"},
		},
		{
			entity.LocatorCandidate{Type: entity.LocatorTypeXPath, Locator: "//button[@data-qa='save']"},
			entity.LocatorCandidate{Type: entity.LocatorTypeXPath, Locator: "//button[@title='save']"},
		},
		{
			entity.LocatorCandidate{Type: entity.LocatorTypeXPath, Locator: "//button[@aria-label='Save']"},
			entity.LocatorCandidate{Type: entity.LocatorTypeXPath, Locator: "//button[@alt-label='Save']"},
		},
	}

	for _, p := range pairs {
		stable := Score(p.stable, m).Total
		plain := Score(p.plain, m).Total
		assert.Greater(t, stable, plain, "%s vs %s", p.stable.Locator, p.plain.Locator)
	}

	for _, unique := range []bool{false, true} {
		m.IsUnique = unique
		assert.Greater(t,
			Score(pairs[0].stable, m).Total,
			Score(pairs[0].plain, m).Total)
	}
}

func TestStabilityScore_LastRuleWins(t *testing.T) {
	m := entity.ElementMetadata{TagName: "div", ID: "main"}

	tests := []struct {
		name string
		c    entity.LocatorCandidate
		want float64
	}{
		{"base", entity.LocatorCandidate{Type: entity.LocatorTypeCSS, Locator: "div"}, 50},
		{"stable id", entity.LocatorCandidate{Type: entity.LocatorTypeID, Locator: "#main"}, 100},
		{"stable marker", entity.LocatorCandidate{Type: entity.LocatorTypeCSS, Locator: "div[data-qa='x']"}, 95},
		{"semantic", entity.LocatorCandidate{Type: entity.LocatorTypeXPath, Locator: "//main[getByRole]"}, 90},
		{"host role expression is class based", entity.LocatorCandidate{Type: entity.LocatorTypeRole, Locator: "page.getByRole('main')"}, 65},
		{"host label expression is class based", entity.LocatorCandidate{Type: entity.LocatorTypeRole, Locator: "page.getByLabel('aria-x')"}, 65},
		{"text", entity.LocatorCandidate{Type: entity.LocatorTypeXPath, Locator: "//div[normalize-space()='Hi']"}, 60},
		{"class beats text", entity.LocatorCandidate{Type: entity.LocatorTypeXPath, Locator: "//div[contains(@class, 'x')][normalize-space()='Hi']"}, 65},
		{"css class", entity.LocatorCandidate{Type: entity.LocatorTypeCSS, Locator: ".card"}, 65},
		{"index beats class", entity.LocatorCandidate{Type: entity.LocatorTypeXPath, Locator: "//div[contains(@class, 'x')][2]"}, 40},
		{"nth", entity.LocatorCandidate{Type: entity.LocatorTypeCSS, Locator: "div:nth-of-type(2)"}, 40},
		{"absolute", entity.LocatorCandidate{Type: entity.LocatorTypeXPath, Locator: "/html/body/div[2]"}, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stabilityScore(tt.c, m))
		})
	}

	unstable := entity.ElementMetadata{TagName: "div", ID: "a1b2c3d4-e5f6-7890-abcd-ef1234567890"}
	assert.Equal(t, 30.0, stabilityScore(entity.LocatorCandidate{Type: entity.LocatorTypeID, Locator: "#" + unstable.ID}, unstable))
}

func TestSpecificityScore(t *testing.T) {
	m := entity.ElementMetadata{TagName: "div"}

	tests := []struct {
		name string
		c    entity.LocatorCandidate
		want float64
	}{
		{"id", entity.LocatorCandidate{Type: entity.LocatorTypeID, Locator: "#main"}, 100},
		{"css marker", entity.LocatorCandidate{Type: entity.LocatorTypeCSS, Locator: "div[data-cy='x']"}, 90},
		{"single attr overrides marker", entity.LocatorCandidate{Type: entity.LocatorTypeXPath, Locator: "//div[@data-cy='x']"}, 75},
		{"two attrs", entity.LocatorCandidate{Type: entity.LocatorTypeXPath, Locator: "//div[@a='1'][@b='2']"}, 85},
		{"tag class", entity.LocatorCandidate{Type: entity.LocatorTypeCSS, Locator: "div.card"}, 70},
		{"bare tag", entity.LocatorCandidate{Type: entity.LocatorTypeCSS, Locator: "div"}, 30},
		{"bare xpath tag", entity.LocatorCandidate{Type: entity.LocatorTypeXPath, Locator: "//div"}, 30},
		{"host expression matches tag class", entity.LocatorCandidate{Type: entity.LocatorTypeRole, Locator: "page.getByRole('main')"}, 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, specificityScore(tt.c, m))
		})
	}

	unique := entity.ElementMetadata{TagName: "div", IsUnique: true}
	assert.Equal(t, 100.0, specificityScore(entity.LocatorCandidate{Type: entity.LocatorTypeID, Locator: "#main"}, unique))
	assert.Equal(t, 40.0, specificityScore(entity.LocatorCandidate{Type: entity.LocatorTypeCSS, Locator: "div"}, unique))
}

func TestReadabilityScore(t *testing.T) {
	assert.Equal(t, 100.0, readabilityScore(entity.LocatorCandidate{Locator: "page.getByRole('button')"}))
	assert.Equal(t, 95.0, readabilityScore(entity.LocatorCandidate{Locator: "button[data-testid='login-btn']"}))
	assert.Equal(t, 90.0, readabilityScore(entity.LocatorCandidate{Locator: "//a/b/c/d"}))
	assert.Equal(t, 80.0, readabilityScore(entity.LocatorCandidate{Locator: "//a/b/c/d/e/f"}))
	assert.Equal(t, 40.0, readabilityScore(entity.LocatorCandidate{Locator: strings.Repeat("x", 120)}))
}

func TestPerformanceScore(t *testing.T) {
	tests := []struct {
		name string
		c    entity.LocatorCandidate
		want float64
	}{
		{"id", entity.LocatorCandidate{Type: entity.LocatorTypeID, Locator: "#main"}, 100},
		{"direct attribute", entity.LocatorCandidate{Type: entity.LocatorTypeXPath, Locator: "div[@lang='x']"}, 90},
		{"css", entity.LocatorCandidate{Type: entity.LocatorTypeCSS, Locator: "div.card"}, 85},
		{"css nth", entity.LocatorCandidate{Type: entity.LocatorTypeCSS, Locator: "div:nth-of-type(3)"}, 50},
		{"xpath marker", entity.LocatorCandidate{Type: entity.LocatorTypeXPath, Locator: "//div[@data-qa='x']"}, 75},
		{"contains", entity.LocatorCandidate{Type: entity.LocatorTypeXPath, Locator: "//div[contains(@class, 'x')]"}, 50},
		{"deep xpath", entity.LocatorCandidate{Type: entity.LocatorTypeXPath, Locator: "//main/section/div/ul/li"}, 40},
		{"absolute", entity.LocatorCandidate{Type: entity.LocatorTypeXPath, Locator: "/html/body/div"}, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, performanceScore(tt.c))
		})
	}
}

func TestBuildReasons_Fallback(t *testing.T) {
	cands := []entity.LocatorCandidate{
		{Type: entity.LocatorTypeRole, Locator: "page.getByPlaceholder('Enter your full legal name as printed')"},
	}

	res, err := ScoreAndSelectBest(cands, entity.ElementMetadata{TagName: "input"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Best available locator based on element attributes"}, res.Reasons)
}

func TestBuildReasons_XPath(t *testing.T) {
	best := entity.LocatorCandidate{Type: entity.LocatorTypeXPath, Locator: "//form[@id='login']/div/button"}

	assert.Equal(t, []string{
		"Locator is short and readable",
		"Relative XPath (not absolute)",
		"No index-based selection",
	}, buildReasons(best, entity.ElementMetadata{TagName: "button"}))
}

// The per-type map uses quickScore to compare against the stored locator.
// This pins a case where the approximation keeps a lower-scored locator.
func TestBestByType_QuickScoreApproximation(t *testing.T) {
	cls := "some-really-long-descriptive-class"
	m := entity.ElementMetadata{TagName: "span", ClassList: []string{cls}}

	cands := GenerateAll(m)
	res, err := ScoreAndSelectBest(cands, m)
	require.NoError(t, err)

	var topCSS entity.LocatorCandidate
	for _, c := range cands {
		if c.Type == entity.LocatorTypeCSS {
			topCSS = c

			break
		}
	}

	assert.Equal(t, "span."+cls, topCSS.Locator)
	assert.Equal(t, "span", res.Candidates[entity.LocatorTypeCSS])
	assert.NotEqual(t, topCSS.Locator, res.Candidates[entity.LocatorTypeCSS])
}

func TestIsCountable(t *testing.T) {
	assert.True(t, IsCountable("#main"))
	assert.True(t, IsCountable("//div[@id='x']"))
	assert.False(t, IsCountable("//table[@id='t']//tr[@id='%s']/td"))
	assert.False(t, IsCountable("page.getByRole('button')"))
}
