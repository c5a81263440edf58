package logg

// Field keys shared by all zap loggers in the service.
const (
	Layer       = "layer"
	Operation   = "op"
	RequestID   = "request_id"
	SessionID   = "session_id"
	URL         = "url"
	Selector    = "selector"
	Locator     = "locator"
	BrowserType = "browser_type"
	Tag         = "tag"
	Candidates  = "candidates"
	Score       = "score"
	Count       = "count"
)
