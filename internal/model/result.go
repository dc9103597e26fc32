package model

// AggregatedResult combines the fact-check verdict with supporting links
type AggregatedResult struct {
	AnalysisText     string `json:"analysis"`
	ReferencesMarkup string `json:"references"`
}

// ImageAnalysis is the verdict returned by the image analysis service
type ImageAnalysis struct {
	Result     string   `json:"result"`
	Confidence *float64 `json:"confidence,omitempty"` // 0-100, not every service reports it
}

// Reference is a single supporting link
type Reference struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}
