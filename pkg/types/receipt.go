package types

// Receipt holds the outcome of a successful upload
type Receipt struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Digest   string `json:"digest"` // BLAKE3 hex of the uploaded body
}
