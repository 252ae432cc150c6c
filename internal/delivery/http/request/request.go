package request

// ScanRequest is the body of POST /api/scan.
type ScanRequest struct {
	Brand    string   `json:"brand"`
	Keywords []string `json:"keywords"`
	Features []string `json:"features,omitempty"`
	Mode     string   `json:"mode,omitempty"` // "detail" (default) or "summary"
}
