package uploader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrkutin/legalacts-parser/internal/corpus"
)

// Options select the input file and destination collection for one upload.
type Options struct {
	FilePath   string
	Collection string // empty defaults to the file name stem
	BatchSize  int
	Append     bool // keep the existing collection and number points after it
	Limit      int  // 0 means all records
}

// Uploader streams corpus records into Qdrant in batches.
type Uploader struct {
	qdrant   *Client
	embedder Embedder
	logger   *slog.Logger
}

// New builds an uploader over a Qdrant client and an embedding service.
func New(qdrant *Client, embedder Embedder, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{qdrant: qdrant, embedder: embedder, logger: logger}
}

// ResolveInputPath accepts an absolute path, a relative path, or a bare
// file name assumed to live under the output directory.
func ResolveInputPath(userPath, outputDir string) (string, error) {
	if _, err := os.Stat(userPath); err == nil {
		return userPath, nil
	}
	candidate := filepath.Join(outputDir, userPath)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("input file not found: %s", userPath)
}

// FileStem returns the file name without its extension, used as the default
// collection name and as the prefix of every record uid.
func FileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Upload reads the corpus file and upserts every record. Returns the number
// of points written. Unless appending, an existing collection is dropped
// and rebuilt.
func (u *Uploader) Upload(ctx context.Context, opts Options) (int, error) {
	if opts.BatchSize <= 0 {
		return 0, fmt.Errorf("batch size must be > 0 (got %d)", opts.BatchSize)
	}
	collection := opts.Collection
	if collection == "" {
		collection = FileStem(opts.FilePath)
	}
	sourceFile := filepath.Base(opts.FilePath)
	stem := FileStem(opts.FilePath)

	exists, err := u.qdrant.CollectionExists(ctx, collection)
	if err != nil {
		return 0, fmt.Errorf("check collection: %w", err)
	}
	if exists && !opts.Append {
		if err := u.qdrant.DeleteCollection(ctx, collection); err != nil {
			return 0, fmt.Errorf("drop collection: %w", err)
		}
		exists = false
	}

	dimension, err := u.embedder.Dimension(ctx)
	if err != nil {
		return 0, fmt.Errorf("embedding dimension: %w", err)
	}
	if err := u.qdrant.CreateCollection(ctx, collection, dimension); err != nil {
		return 0, fmt.Errorf("create collection: %w", err)
	}

	nextPointID := 1
	if opts.Append && exists {
		if count, err := u.qdrant.Count(ctx, collection); err != nil {
			u.logger.Warn("point count unavailable, numbering from 1", "collection", collection, "error", err)
		} else {
			nextPointID = count + 1
		}
	}

	f, err := os.Open(opts.FilePath)
	if err != nil {
		return 0, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	reader := corpus.NewReader(f)
	total := 0
	ordinal := 0
	batch := make([]Point, 0, opts.BatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := u.embedBatch(ctx, batch, dimension); err != nil {
			return err
		}
		if err := u.qdrant.Upsert(ctx, collection, batch); err != nil {
			return err
		}
		total += len(batch)
		u.logger.Info("uploaded batch", "points", len(batch), "total", total)
		batch = batch[:0]
		return nil
	}

	for opts.Limit <= 0 || ordinal < opts.Limit {
		entry, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, fmt.Errorf("read corpus: %w", err)
		}

		ordinal++
		batch = append(batch, Point{
			ID:      nextPointID,
			Payload: buildPayload(entry, sourceFile, stem, ordinal),
		})
		nextPointID++

		if len(batch) >= opts.BatchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}

	u.logger.Info("upload complete", "collection", collection, "points", total)
	return total, nil
}

// embedBatch fills in the vectors for a batch whose payloads are already
// built. Payload["text"] is the embedded content.
func (u *Uploader) embedBatch(ctx context.Context, batch []Point, dimension int) error {
	texts := make([]string, len(batch))
	for i, p := range batch {
		texts[i] = p.Payload["text"].(string)
	}
	vectors, err := u.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("generate embeddings: %w", err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(vectors))
	}
	for i, vec := range vectors {
		if dimension > 0 && len(vec) != dimension {
			return fmt.Errorf("embedding dimension mismatch: expected %d, got %d", dimension, len(vec))
		}
		batch[i].Vector = vec
	}
	return nil
}

// buildPayload copies the record metadata and adds provenance fields. The
// uid stays stable across re-uploads of the same file: stem, leading
// number, and the record's position in the file.
func buildPayload(entry corpus.Entry, sourceFile, stem string, ordinal int) map[string]any {
	payload := make(map[string]any, len(entry.Meta)+3)
	for k, v := range entry.Meta {
		payload[k] = v
	}

	number := entry.Meta["article_number"]
	if number == "" {
		number = entry.Meta["law_number"]
	}
	if number == "" {
		number = fmt.Sprintf("%d", ordinal)
	}

	payload["source_file"] = sourceFile
	payload["article_uid"] = fmt.Sprintf("%s-art-%s-%d", stem, number, ordinal)
	payload["text"] = entry.Body
	return payload
}
