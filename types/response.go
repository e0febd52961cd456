package types

type DataResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ChatResponse carries the generated answer and the 1-based page numbers
// of the chunks that grounded it, deduplicated and ascending.
type ChatResponse struct {
	Answer  string `json:"answer"`
	Sources []int  `json:"sources"`
}

type UploadResponse struct {
	Filename string `json:"filename"`
	Pages    int    `json:"pages"`
	Chunks   int    `json:"chunks"`
	Message  string `json:"message"`
}

type PageCountResponse struct {
	Filename string `json:"filename"`
	Pages    int    `json:"pages"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
