package storer

type Record struct {
	Id        string
	Document  string
	Metadata  map[string]string
	Embedding []float32
	// Distance is only set on search results. Lower is closer.
	Distance float32
}
