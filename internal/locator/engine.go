package locator

import "smart-locator/internal/entity"

// Engine exposes generation and scoring behind one value so that callers can
// depend on an interface. It holds no state and is safe for concurrent use.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) Generate(m entity.ElementMetadata) []entity.LocatorCandidate {
	return GenerateAll(m)
}

func (e *Engine) ScoreAndSelectBest(candidates []entity.LocatorCandidate, m entity.ElementMetadata) (*entity.LocatorResult, error) {
	return ScoreAndSelectBest(candidates, m)
}
