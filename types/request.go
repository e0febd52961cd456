package types

// ChatRequest asks a question about a previously uploaded document,
// restricted to an inclusive 0-based page range.
type ChatRequest struct {
	Question  string `json:"question"`
	Filename  string `json:"filename"`
	StartPage int    `json:"start_page"`
	EndPage   int    `json:"end_page"`
}
