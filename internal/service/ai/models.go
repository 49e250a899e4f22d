package ai

// Generation parameter bounds, matching the sliders the UI renders. Model
// identifiers are opaque: the catalog below is what the UI offers, but any
// identifier is forwarded to the completion service verbatim.
const (
	DefaultModel = "llama-3.3-70b-versatile"

	DefaultTemperature = 0.7
	MinTemperature     = 0.0
	MaxTemperature     = 2.0

	DefaultMaxTokens = 2048
	MinMaxTokens     = 256
	MaxMaxTokens     = 8192
)

// ModelOption is one selectable entry in the UI's model dropdown.
type ModelOption struct {
	ID      string `json:"id"`
	Default bool   `json:"default,omitempty"`
}

// Models returns the selectable hosted model identifiers.
func Models() []ModelOption {
	return []ModelOption{
		{ID: "llama-3.3-70b-versatile", Default: true},
		{ID: "llama-3.1-70b-versatile"},
		{ID: "llama-3.1-8b-instant"},
		{ID: "mixtral-8x7b-32768"},
		{ID: "gemma2-9b-it"},
	}
}
