package entity

import (
	"time"

	"github.com/google/uuid"
)

// ElementMetadata is an immutable snapshot of one DOM element at capture time.
// Empty strings stand for absent nullable fields (ID, ParentTagName).
type ElementMetadata struct {
	TagName        string            `json:"tagName" yaml:"tagName"`
	ID             string            `json:"id,omitempty" yaml:"id,omitempty"`
	ClassList      []string          `json:"classList" yaml:"classList"`
	Attributes     map[string]string `json:"attributes" yaml:"attributes"`
	InnerText      string            `json:"innerText" yaml:"innerText"`
	NormalizedText string            `json:"normalizedText" yaml:"normalizedText"`
	ParentTagName  string            `json:"parentTagName,omitempty" yaml:"parentTagName,omitempty"`
	NthIndex       int               `json:"nthIndex" yaml:"nthIndex"`
	CSSPath        string            `json:"cssPath" yaml:"cssPath"`
	XPathPath      string            `json:"xpathPath" yaml:"xpathPath"`
	OuterHTML      string            `json:"outerHTML" yaml:"outerHTML"`
	IsUnique       bool              `json:"isUnique" yaml:"isUnique"`
	DOMPath        []DOMNode         `json:"domPath" yaml:"domPath"`
}

// Attr returns the attribute value and whether the attribute is present.
func (m ElementMetadata) Attr(name string) (string, bool) {
	if m.Attributes == nil {
		return "", false
	}

	v, ok := m.Attributes[name]

	return v, ok
}

// DOMNode describes one entry of the body-to-element ancestor chain.
type DOMNode struct {
	Tag       string   `json:"tagName" yaml:"tagName"`
	ID        string   `json:"id,omitempty" yaml:"id,omitempty"`
	Classes   []string `json:"classes" yaml:"classes"`
	Text      string   `json:"text,omitempty" yaml:"text,omitempty"`
	IsCurrent bool     `json:"isCurrent" yaml:"isCurrent"`
}

type LocatorType string

const (
	LocatorTypeID    LocatorType = "id"
	LocatorTypeCSS   LocatorType = "css"
	LocatorTypeXPath LocatorType = "xpath"
	LocatorTypeRole  LocatorType = "role"
	LocatorTypeText  LocatorType = "text"
)

// LocatorCandidate is one generated locator. Locator may contain a %s
// placeholder for parameterized patterns. Score is assigned by the scorer.
type LocatorCandidate struct {
	Type    LocatorType `json:"type" yaml:"type"`
	Locator string      `json:"locator" yaml:"locator"`
	Score   float64     `json:"score" yaml:"score"`
	Reason  string      `json:"reason" yaml:"reason"`
}

type LocatorResult struct {
	BestLocator string                 `json:"bestLocator" yaml:"bestLocator"`
	Candidates  map[LocatorType]string `json:"candidates" yaml:"candidates"`
	Score       float64                `json:"score" yaml:"score"`
	Breakdown   ScoreBreakdown         `json:"breakdown" yaml:"breakdown"`
	Reasons     []string               `json:"reasons" yaml:"reasons"`
	Metadata    ElementMetadata        `json:"metadata" yaml:"metadata"`
}

type ScoreBreakdown struct {
	Stability   float64 `json:"stability" yaml:"stability"`
	Specificity float64 `json:"specificity" yaml:"specificity"`
	Readability float64 `json:"readability" yaml:"readability"`
	Performance float64 `json:"performance" yaml:"performance"`
	Total       float64 `json:"total" yaml:"total"`
}

type Framework string

const (
	FrameworkAngular Framework = "Angular"
	FrameworkVue     Framework = "Vue"
	FrameworkReact   Framework = "React"
)

type BrowserType string

const (
	BrowserChromium BrowserType = "chromium"
	BrowserFirefox  BrowserType = "firefox"
	BrowserWebKit   BrowserType = "webkit"
)

// Session identifies one launched browser. It is handed to callers instead of
// exposing driver state.
type Session struct {
	ID          uuid.UUID
	BrowserType BrowserType
	StartedAt   time.Time
}

type SessionStatus struct {
	Open       bool
	CurrentURL string
	Session    *Session
}

// CountResult is the answer to a live-count query. Countable is false for
// templates and host API expressions, in which case Count is meaningless.
type CountResult struct {
	Locator          string `json:"locator"`
	Count            int    `json:"count"`
	Countable        bool   `json:"countable"`
	UniqueSuggestion string `json:"uniqueSuggestion,omitempty"`
	UniqueCount      int    `json:"uniqueCount,omitempty"`
}
