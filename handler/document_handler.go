package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/knowra/knowra-be/service"
	"github.com/knowra/knowra-be/types"
)

// DocumentHandler exposes the preview collaborator surface of the UI:
// the stored PDF bytes and its page count. Rendering pages to images
// happens client side.
type DocumentHandler struct {
	fileService *service.FileService
	pdfService  *service.PDFService
}

func NewDocumentHandler(fileService *service.FileService, pdfService *service.PDFService) *DocumentHandler {
	return &DocumentHandler{
		fileService: fileService,
		pdfService:  pdfService,
	}
}

func (h *DocumentHandler) ServeDocument() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		requestedName := r.URL.Query().Get("file")
		if requestedName == "" {
			http.Error(w, "File parameter is required", http.StatusBadRequest)
			return
		}
		if strings.ToLower(filepath.Ext(requestedName)) != ".pdf" {
			http.Error(w, "Only PDF files are allowed", http.StatusBadRequest)
			return
		}

		filePath := h.fileService.StoredPath(requestedName)
		if _, err := os.Stat(filePath); err != nil {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s", filepath.Base(requestedName)))
		http.ServeFile(w, r, filePath)
	})
}

func (h *DocumentHandler) HandlePageCount() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		requestedName := r.URL.Query().Get("file")
		if requestedName == "" {
			http.Error(w, "File parameter is required", http.StatusBadRequest)
			return
		}

		file, err := os.Open(h.fileService.StoredPath(requestedName))
		if err != nil {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		defer file.Close()

		stat, err := file.Stat()
		if err != nil {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}

		pages, err := h.pdfService.PageCount(file, stat.Size())
		if err != nil {
			http.Error(w, "Unable to read PDF", http.StatusBadRequest)
			return
		}

		json.NewEncoder(w).Encode(types.DataResponse{
			Status: true,
			Data: types.PageCountResponse{
				Filename: requestedName,
				Pages:    pages,
			},
		})
	})
}
