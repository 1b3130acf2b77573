package transcribe

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"legal-scribe/internal/app/api/provider"
	"legal-scribe/internal/app/batch"
	"legal-scribe/internal/app/entity"
	"legal-scribe/internal/app/export"
	"legal-scribe/internal/app/model"
	"legal-scribe/internal/config"
)

var (
	providerName   string
	apiKey         string
	language       string
	modelID        string
	keyterms       string
	diarize        bool
	detectEntities bool
	format         string
	outputPath     string
	noProgress     bool
)

func init() {
	Cmd.Flags().StringVarP(&providerName, "provider", "p", "", "transcription provider (default from SCRIBE_DEFAULT_PROVIDER, demo without a key)")
	Cmd.Flags().StringVarP(&apiKey, "api-key", "k", "", "vendor API key (default from the provider's environment variable)")
	Cmd.Flags().StringVarP(&language, "language", "l", "", "language hint, e.g. en")
	Cmd.Flags().StringVarP(&modelID, "model", "m", "", "provider model override")
	Cmd.Flags().StringVarP(&keyterms, "keyterms", "t", "", "comma-separated vocabulary hints")
	Cmd.Flags().BoolVarP(&diarize, "diarize", "d", false, "attribute segments to speakers")
	Cmd.Flags().BoolVarP(&detectEntities, "detect-entities", "e", false, "detect entities in the transcript")
	Cmd.Flags().StringVarP(&format, "format", "f", "text", "export format: text, json, pdf, xlsx")
	Cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the export to this file instead of stdout")
	Cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe [files...]",
	Short: "Transcribe local audio files",
	Long: `Transcribe local audio files through a provider and export the results.

Without an API key the demo provider runs, producing a canned transcript so
the export formats can be tried offline.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync()

		name, key := resolveProvider(cfg)
		p, err := buildProvider(cfg, name)
		if err != nil {
			return err
		}

		progress := batch.NewProgressManager(batch.ProgressConfig{Enabled: !noProgress})
		processor := batch.NewProcessor(p, name, buildDetector(cfg), progress, logger)

		results := processor.Process(cmd.Context(), args, batch.Options{
			APIKey:         key,
			Language:       language,
			Model:          modelID,
			Keyterms:       splitKeyterms(keyterms),
			Diarize:        diarize,
			DetectEntities: detectEntities,
		})

		return writeExport(results)
	},
}

// resolveProvider applies the same fallback as the API: explicit flag, then
// configured default, then demo mode when no credential is available.
func resolveProvider(cfg *config.Config) (name, key string) {
	name = providerName
	key = apiKey

	if key == "" {
		switch name {
		case "openai":
			key = cfg.OpenAIAPIKey
		case "", "elevenlabs":
			key = cfg.ElevenLabsAPIKey
		}
	}

	if name == "" {
		if key == "" {
			name = "demo"
		} else {
			name = cfg.DefaultProvider
		}
	}
	return name, key
}

func buildProvider(cfg *config.Config, name string) (provider.TranscriptionProvider, error) {
	creator, err := provider.GetProviderCreator(name)
	if err != nil {
		return nil, err
	}

	providersCfg, err := config.LoadProvidersFile(cfg.ProvidersFile)
	if err != nil {
		return nil, err
	}
	settings := map[string]interface{}{}
	if s, ok := providersCfg.Providers[name]; ok {
		settings = s.SettingsMap()
	}

	return creator(map[string]interface{}{
		"settings": settings,
	})
}

func buildDetector(cfg *config.Config) entity.Detector {
	if !detectEntities {
		return nil
	}
	switch {
	case cfg.EntityDetector == "off":
		return nil
	case cfg.EntityDetector == "gemini" && cfg.GeminiAPIKey != "":
		return entity.NewGeminiDetector(cfg.GeminiAPIKey)
	case cfg.OpenAIAPIKey != "":
		return entity.NewOpenAIDetector(cfg.OpenAIAPIKey)
	case cfg.GeminiAPIKey != "":
		return entity.NewGeminiDetector(cfg.GeminiAPIKey)
	default:
		return nil
	}
}

func splitKeyterms(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var terms []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

func writeExport(fileResults []batch.FileResult) error {
	parsed, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	succeeded := 0
	failed := 0
	results := make([]model.TranscriptionResult, 0, len(fileResults))
	for _, fr := range fileResults {
		if fr.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "failed: %s: %v\n", fr.Path, fr.Err)
			continue
		}
		succeeded++
		results = append(results, fr.Result)
	}

	if succeeded == 0 {
		return fmt.Errorf("no files transcribed (%d failed)", failed)
	}

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := export.NewExporter().Export(results, parsed, out); err != nil {
		return err
	}

	if outputPath != "" {
		fmt.Printf("transcribed %d file(s), export written to %s\n", succeeded, outputPath)
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}
