/*
Copyright © 2025 knowra
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/knowra/knowra-be/config"
	"github.com/knowra/knowra-be/database"
	"github.com/knowra/knowra-be/service"
	"github.com/knowra/knowra-be/types"
)

// askCmd represents the ask command: ingest a PDF and answer one
// question in a single process run. The index is process-local, so a
// one-shot ingest-and-ask is the CLI equivalent of upload + chat.
var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ingest a PDF and answer one question about it",
	Run: func(cmd *cobra.Command, args []string) {
		initLogger()

		filePath, _ := cmd.Flags().GetString("file")
		question, _ := cmd.Flags().GetString("question")
		startPage, _ := cmd.Flags().GetInt("start")
		endPage, _ := cmd.Flags().GetInt("end")
		if filePath == "" || question == "" {
			log.Fatal().Msg("Both --file and --question are required")
		}

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load config")
		}

		aiService, err := newAIService(cmd.Context(), cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize AI service")
		}

		pdfService := service.NewPDFService(types.DocumentServiceConfig{
			MaxChunkSize: cfg.Retrieval.MaxChunkSize,
			OverlapSize:  cfg.Retrieval.OverlapSize,
		})
		registry := database.NewMemoryRegistry()
		fileService := service.NewFileService(cfg.UploadDir, registry, pdfService, aiService, cfg.Retrieval.BuildTimeout)
		ragService := service.NewRAGService(registry, aiService, cfg.Retrieval.TopK, cfg.Retrieval.UpstreamTimeout)

		file, err := os.Open(filePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open file")
		}
		defer file.Close()

		filename := filepath.Base(filePath)
		uploaded, err := fileService.UploadDocument(cmd.Context(), filename, file)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to ingest document")
		}
		log.Info().Int("pages", uploaded.Pages).Int("chunks", uploaded.Chunks).Msg("Ingested document")

		if endPage < 0 {
			endPage = uploaded.Pages - 1
		}
		response, err := ragService.Answer(cmd.Context(), types.ChatRequest{
			Question:  question,
			Filename:  filename,
			StartPage: startPage,
			EndPage:   endPage,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to answer question")
		}

		fmt.Printf("%s\n\n", response.Answer)
		if len(response.Sources) > 0 {
			pages := make([]string, len(response.Sources))
			for i, p := range response.Sources {
				pages[i] = fmt.Sprintf("%d", p)
			}
			fmt.Printf("Sources: page %s\n", strings.Join(pages, ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringP("file", "f", "", "Path to the PDF file")
	askCmd.Flags().StringP("question", "q", "", "Question to be answered")
	askCmd.Flags().Int("start", 0, "First page of the retrieval range (0-based)")
	askCmd.Flags().Int("end", -1, "Last page of the retrieval range (0-based, default last page)")
}
