package advisor

// Example is a canned question the UI offers as a one-click prefill for the
// message box.
type Example struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Store exposes example-question retrieval for HTTP handlers.
type Store interface {
	List() []Example
	FindByID(id string) (Example, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Example
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied examples.
func NewMemoryStore(items []Example) *MemoryStore {
	return &MemoryStore{items: append([]Example(nil), items...)}
}

// List returns the predefined example list.
func (s *MemoryStore) List() []Example {
	return append([]Example(nil), s.items...)
}

// FindByID looks up an example by identifier.
func (s *MemoryStore) FindByID(id string) (Example, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Example{}, false
}

// Seed provides the default example questions shown under the message box.
func Seed() []Example {
	return []Example{
		{
			ID:    "raster-vs-vector",
			Label: "Raster vs Vector",
			Text:  "What is the difference between raster and vector data in GIS?",
		},
		{
			ID:    "polygon-area",
			Label: "Polygon Area",
			Text:  "How do I calculate the area of polygons using GeoPandas?",
		},
		{
			ID:    "crs-explained",
			Label: "CRS Explained",
			Text:  "Explain coordinate reference systems (CRS) in simple terms",
		},
		{
			ID:    "map-design",
			Label: "Map Design",
			Text:  "What are the best practices for creating effective maps?",
		},
		{
			ID:    "spatial-joins",
			Label: "Spatial Joins",
			Text:  "How can I perform spatial joins in Python?",
		},
		{
			ID:    "haversine",
			Label: "Haversine",
			Text:  "What is the Haversine formula and when should I use it?",
		},
	}
}
