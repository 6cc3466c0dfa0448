package domain

// Settings is the per-run record read from the settings file.
type Settings struct {
	Recipients    []string
	APICredential string
}

// Fact is the structured "fact of the day" produced by the model.
type Fact struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Content  string `json:"content"`
}

// GenerationRequest carries the assembled request body together with the
// pieces it was built from, so SDK-backed clients can skip the raw body.
type GenerationRequest struct {
	Prompt            string
	SystemInstruction string
	Payload           string
}
