/*
Copyright © 2025 knowra
*/
package cmd

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/knowra/knowra-be/config"
	"github.com/knowra/knowra-be/database"
	"github.com/knowra/knowra-be/handler"
	"github.com/knowra/knowra-be/middleware"
	"github.com/knowra/knowra-be/service"
	"github.com/knowra/knowra-be/types"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the PDF chat server",
	Long:  `Starts the HTTP server that handles PDF uploads and chat requests`,
	Run: func(cmd *cobra.Command, args []string) {
		initLogger()

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load config")
		}

		// Initialize services
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
		wsService := service.NewWebSocketService(ragService)

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		healthHandler := handler.NewHealthHandler()
		uploadHandler := handler.NewUploadHandler(fileService)
		chatHandler := handler.NewChatHandler(ragService)
		documentHandler := handler.NewDocumentHandler(fileService, pdfService)

		// Setup routes
		mux := http.NewServeMux()
		mux.Handle("/", healthHandler.HandleHealth())
		mux.Handle("/upload", uploadHandler.HandleUpload())
		mux.Handle("/chat", chatHandler.HandleChat())
		mux.Handle("/pdf", documentHandler.ServeDocument())
		mux.Handle("/pages", documentHandler.HandlePageCount())
		mux.HandleFunc("/ws", wsService.HandleChat)

		server := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      corsHandler.CorsMiddleware(middleware.LoggingMiddleware(mux)),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 5 * time.Minute,
		}

		log.Info().Str("port", cfg.Port).Str("provider", cfg.AIProvider).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
