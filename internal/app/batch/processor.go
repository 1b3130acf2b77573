package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"legal-scribe/internal/app/api/provider"
	"legal-scribe/internal/app/entity"
	"legal-scribe/internal/app/model"
)

// Options are the per-run settings shared by every file in a batch.
type Options struct {
	APIKey         string
	Language       string
	Model          string
	Keyterms       []string
	Diarize        bool
	DetectEntities bool
}

// FileResult pairs one input file with its outcome.
type FileResult struct {
	Path   string
	Result model.TranscriptionResult
	Err    error
}

// Processor runs local files through a transcription provider one at a time,
// mirroring the upload flow without the HTTP layer.
type Processor struct {
	provider provider.TranscriptionProvider
	name     string
	detector entity.Detector
	progress *ProgressManager
	logger   *zap.Logger
}

// NewProcessor creates a batch processor. detector may be nil.
func NewProcessor(
	p provider.TranscriptionProvider,
	name string,
	detector entity.Detector,
	progress *ProgressManager,
	logger *zap.Logger,
) *Processor {
	return &Processor{
		provider: p,
		name:     name,
		detector: detector,
		progress: progress,
		logger:   logger,
	}
}

// Process transcribes every file in order. A failed file is recorded and the
// batch continues; ctx cancellation stops the run.
func (p *Processor) Process(ctx context.Context, paths []string, opts Options) []FileResult {
	bar := p.progress.CreateBar(len(paths), "transcribing")
	results := make([]FileResult, 0, len(paths))

	for _, path := range paths {
		if ctx.Err() != nil {
			results = append(results, FileResult{Path: path, Err: ctx.Err()})
			continue
		}

		result, err := p.processOne(ctx, path, opts)
		results = append(results, FileResult{Path: path, Result: result, Err: err})
		bar.Increment()

		if err != nil {
			p.logger.Warn("batch file failed",
				zap.String("file", filepath.Base(path)),
				zap.Error(err),
			)
		}
	}

	p.progress.Wait()
	return results
}

func (p *Processor) processOne(ctx context.Context, path string, opts Options) (model.TranscriptionResult, error) {
	req := &provider.TranscriptionRequest{
		InputFilePath:  path,
		Filename:       filepath.Base(path),
		APIKey:         opts.APIKey,
		Language:       opts.Language,
		Model:          opts.Model,
		Keyterms:       opts.Keyterms,
		Diarize:        opts.Diarize,
		DetectEntities: opts.DetectEntities,
	}

	resp, err := p.provider.Transcribe(ctx, req)
	if err != nil {
		return model.TranscriptionResult{}, fmt.Errorf("transcription failed for %s: %w", filepath.Base(path), err)
	}

	entities := resp.Entities
	if opts.DetectEntities && len(entities) == 0 && p.detector != nil {
		detected, derr := p.detector.Detect(ctx, resp.Text, opts.Keyterms)
		if derr != nil {
			p.logger.Warn("entity detection failed",
				zap.String("file", filepath.Base(path)),
				zap.Error(derr),
			)
		} else {
			entities = detected
		}
	}

	return model.TranscriptionResult{
		ID:        uuid.New().String(),
		Filename:  filepath.Base(path),
		Text:      resp.Text,
		Language:  resp.Language,
		Segments:  resp.Segments,
		Entities:  entities,
		Keyterms:  opts.Keyterms,
		Diarized:  opts.Diarize,
		Provider:  p.name,
		Duration:  resp.Duration,
		CreatedAt: time.Now(),
	}, nil
}
