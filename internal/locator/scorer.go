package locator

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"smart-locator/internal/entity"
	"smart-locator/internal/heuristics"
	"smart-locator/pkg/apperr"
)

const (
	stabilityWeight   = 0.40
	specificityWeight = 0.30
	readabilityWeight = 0.20
	performanceWeight = 0.10

	baseScore = 50.0
)

// ErrNoCandidates is returned (wrapped, code invalid_input) when there is
// nothing to score.
var ErrNoCandidates = errors.New("no locator candidates provided")

var (
	classDotPattern  = regexp.MustCompile(`\.\w`)
	tagClassPattern  = regexp.MustCompile(`\w+\.\w+`)
	indexPattern     = regexp.MustCompile(`\[\d+\]`)
	bareTagPattern   = regexp.MustCompile(`^\w+$|^//\w+$`)
	directAttrLookup = regexp.MustCompile(`\[@\w+='[^']*'\]$`)
)

var stableMarkers = []string{"data-test", "data-qa", "data-cy", "aria-", "@role", "@name"}

// ScoreAndSelectBest scores every candidate in place, sorts the slice by
// descending score (stable for ties) and assembles the result.
// It panics on a candidate with an empty locator.
func ScoreAndSelectBest(candidates []entity.LocatorCandidate, m entity.ElementMetadata) (*entity.LocatorResult, error) {
	const op = "ScoreAndSelectBest"

	if len(candidates) == 0 {
		return nil, apperr.Wrap(op, apperr.CodeInvalidInput, ErrNoCandidates, map[string]any{
			apperr.MetaReason: "no_candidates",
			apperr.MetaStage:  apperr.StageScoring,
		})
	}

	for i := range candidates {
		if candidates[i].Locator == "" {
			panic("locator: candidate with empty locator string (type " + string(candidates[i].Type) + ")")
		}

		candidates[i].Score = Score(candidates[i], m).Total
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	best := candidates[0]

	return &entity.LocatorResult{
		BestLocator: best.Locator,
		Candidates:  bestByType(candidates),
		Score:       best.Score,
		Breakdown:   Score(best, m),
		Reasons:     buildReasons(best, m),
		Metadata:    m,
	}, nil
}

// bestByType keeps one locator per type. A later candidate replaces the
// stored one when its score beats quickScore of the stored string; quickScore
// is a coarse approximation, so the kept locator is not always the top-scored
// one of its type.
func bestByType(sorted []entity.LocatorCandidate) map[entity.LocatorType]string {
	out := make(map[entity.LocatorType]string)

	for _, c := range sorted {
		stored, ok := out[c.Type]
		if !ok || c.Score > quickScore(stored) {
			out[c.Type] = c.Locator
		}
	}

	return out
}

func quickScore(locator string) float64 {
	switch {
	case strings.HasPrefix(locator, "#"):
		return 95
	case strings.Contains(locator, "data-test"):
		return 90
	case strings.Contains(locator, "aria-"):
		return 85
	case len(locator) < 30:
		return 80
	case strings.Contains(locator, "["):
		return 75
	}

	return baseScore
}

// Score computes the four sub-scores of c and their weighted total.
func Score(c entity.LocatorCandidate, m entity.ElementMetadata) entity.ScoreBreakdown {
	b := entity.ScoreBreakdown{
		Stability:   stabilityScore(c, m),
		Specificity: specificityScore(c, m),
		Readability: readabilityScore(c),
		Performance: performanceScore(c),
	}

	b.Total = b.Stability*stabilityWeight +
		b.Specificity*specificityWeight +
		b.Readability*readabilityWeight +
		b.Performance*performanceWeight

	return b
}

// The sub-score functions below apply their rules in order; a later matching
// rule overwrites the running score.

func stabilityScore(c entity.LocatorCandidate, m entity.ElementMetadata) float64 {
	loc := c.Locator
	score := baseScore

	if c.Type == entity.LocatorTypeID && m.ID != "" {
		if heuristics.IsStableID(m.ID) {
			score = 100
		} else {
			score = 30
		}
	}

	if hasStableMarker(loc) {
		score = 95
	}

	if isSemantic(loc) {
		score = 90
	}

	if isTextMatch(loc) {
		score = 60
	}

	if isClassBased(loc) {
		score = 65
	}

	if indexPattern.MatchString(loc) || strings.Contains(loc, "nth-of-type") {
		score = 40
	}

	if isAbsolute(loc) {
		score = 15
	}

	return score
}

func specificityScore(c entity.LocatorCandidate, m entity.ElementMetadata) float64 {
	loc := c.Locator
	score := baseScore

	if c.Type == entity.LocatorTypeID {
		score = 100
	}

	if hasStableMarker(loc) {
		score = 90
	}

	attrs := strings.Count(loc, "@")
	if attrs > 1 {
		score = 85
	}

	if attrs == 1 {
		score = 75
	}

	if tagClassPattern.MatchString(loc) {
		score = 70
	}

	if bareTagPattern.MatchString(loc) {
		score = 30
	}

	if m.IsUnique {
		score = min(100, score+10)
	}

	return score
}

func readabilityScore(c entity.LocatorCandidate) float64 {
	loc := c.Locator

	var score float64

	switch n := len(loc); {
	case n < 30:
		score = 100
	case n < 50:
		score = 85
	case n < 80:
		score = 70
	case n < 120:
		score = 55
	default:
		score = 40
	}

	switch slashes := strings.Count(loc, "/"); {
	case slashes > 5:
		score -= 20
	case slashes > 3:
		score -= 10
	}

	if isSemantic(loc) {
		score += 15
	}

	if hasStableMarker(loc) {
		score += 10
	}

	return max(0, min(100, score))
}

func performanceScore(c entity.LocatorCandidate) float64 {
	loc := c.Locator
	score := baseScore

	if c.Type == entity.LocatorTypeID {
		score = 100
	}

	if directAttrLookup.MatchString(loc) && !strings.Contains(loc, "//") {
		score = 90
	}

	if c.Type == entity.LocatorTypeCSS && !strings.Contains(loc, ":nth-of-type") {
		score = 85
	}

	if c.Type == entity.LocatorTypeXPath && hasStableMarker(loc) {
		score = 75
	}

	if isTextMatch(loc) || strings.Contains(loc, "contains(") {
		score = 50
	}

	if strings.Contains(loc, "//") && strings.Count(loc, "/") > 4 {
		score = 40
	}

	if isAbsolute(loc) {
		score = 20
	}

	return score
}

func buildReasons(best entity.LocatorCandidate, m entity.ElementMetadata) []string {
	loc := best.Locator

	var reasons []string

	if best.Type == entity.LocatorTypeID && heuristics.IsStableID(m.ID) {
		reasons = append(reasons, "Unique and stable ID detected")
	}

	if hasStableMarker(loc) {
		reasons = append(reasons, "Stable attribute detected (data-test, aria-*, role)")
	}

	if m.IsUnique {
		reasons = append(reasons, "Locator uniquely identifies the element")
	}

	if len(loc) < 50 {
		reasons = append(reasons, "Locator is short and readable")
	}

	if isSemantic(loc) {
		reasons = append(reasons, "Semantic role-based locator")
	}

	if best.Type == entity.LocatorTypeXPath {
		if !strings.HasPrefix(loc, "/html") {
			reasons = append(reasons, "Relative XPath (not absolute)")
		}

		if !indexPattern.MatchString(loc) {
			reasons = append(reasons, "No index-based selection")
		}
	}

	if best.Type == entity.LocatorTypeID || best.Type == entity.LocatorTypeCSS {
		reasons = append(reasons, "Fast DOM query performance")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Best available locator based on element attributes")
	}

	return reasons
}

func hasStableMarker(locator string) bool {
	for _, marker := range stableMarkers {
		if strings.Contains(locator, marker) {
			return true
		}
	}

	return false
}

func isSemantic(locator string) bool {
	return strings.Contains(locator, "getByRole") || strings.Contains(locator, "getByLabel")
}

func isTextMatch(locator string) bool {
	return strings.Contains(locator, "normalize-space()") || strings.Contains(locator, "has-text")
}

// isClassBased matches class predicates and anything with a dot followed by
// a word character, host API expressions included.
func isClassBased(locator string) bool {
	return strings.Contains(locator, "class") || classDotPattern.MatchString(locator)
}

func isAbsolute(locator string) bool {
	return strings.HasPrefix(locator, "/html/body")
}

// isHostExpression reports whether locator is a driver API call rather than a
// CSS or XPath selector.
func isHostExpression(locator string) bool {
	return strings.HasPrefix(locator, "page.")
}

// IsCountable reports whether locator can be counted against the live DOM:
// templates with a placeholder and host API expressions cannot.
func IsCountable(locator string) bool {
	return !strings.Contains(locator, Placeholder) && !isHostExpression(locator)
}
