package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/openlearn/learnportal-be/config"
	"github.com/openlearn/learnportal-be/database"
	"github.com/openlearn/learnportal-be/service"
	"github.com/openlearn/learnportal-be/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// loadDocumentsCmd represents the load-documents command
var loadDocumentsCmd = &cobra.Command{
	Use:   "load-documents",
	Short: "Ingest a directory of PDFs into a module's collection",
	Long: `Reads every PDF in a directory, extracts text (with an OCR fallback
for scanned documents when --ocr is set), splits it into overlapping chunks,
embeds each chunk and upserts it into the module's vector-index collection.

With --recreate the collection is dropped and rebuilt first. This is
destructive and has no undo.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		module, _ := cmd.Flags().GetString("module")
		ocrEnabled, _ := cmd.Flags().GetBool("ocr")
		recreate, _ := cmd.Flags().GetBool("recreate")
		pdftoppmPath, _ := cmd.Flags().GetString("pdftoppm")
		tesseractPath, _ := cmd.Flags().GetString("tesseract")

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}
		if pdftoppmPath != "" {
			cfg.Loader.PdftoppmPath = pdftoppmPath
		}
		if tesseractPath != "" {
			cfg.Loader.TesseractPath = tesseractPath
		}

		vectorStore, err := database.NewQdrantStore(cfg.Qdrant)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to qdrant")
		}
		aiProvider, err := newAIProvider(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize AI provider")
		}

		pdfService := service.NewPDFService(types.DocumentServiceConfig{
			ChunkSize:     cfg.Loader.ChunkSize,
			ChunkOverlap:  cfg.Loader.ChunkOverlap,
			MinTextLength: cfg.Loader.MinTextLength,
			PdftoppmPath:  cfg.Loader.PdftoppmPath,
			TesseractPath: cfg.Loader.TesseractPath,
		})
		loader := service.NewLoaderService(vectorStore, aiProvider, pdfService, cfg.CollectionPrefix, cfg.Loader)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		report, err := loader.LoadDirectory(ctx, dir, module, ocrEnabled, recreate)
		if err != nil {
			log.Fatal().Err(err).Msg("document load failed")
		}
		log.Info().
			Str("collection", report.Collection).
			Int("files", report.FilesProcessed).
			Int("skipped", report.FilesSkipped).
			Int("chunks", report.ChunksStored).
			Msg("documents loaded")
	},
}

func init() {
	rootCmd.AddCommand(loadDocumentsCmd)

	loadDocumentsCmd.Flags().StringP("dir", "d", "./data/pdfs", "Directory containing PDF files")
	loadDocumentsCmd.Flags().StringP("module", "m", "module1", "Module identifier for the collection name")
	loadDocumentsCmd.Flags().Bool("ocr", false, "Enable OCR fallback for scanned documents")
	loadDocumentsCmd.Flags().BoolP("recreate", "r", false, "Drop and recreate the collection before loading")
	loadDocumentsCmd.Flags().String("pdftoppm", "", "Override path to the pdftoppm binary")
	loadDocumentsCmd.Flags().String("tesseract", "", "Override path to the tesseract binary")
	loadDocumentsCmd.MarkFlagRequired("module")
}
