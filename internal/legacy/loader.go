// Package legacy imports backups of the old flat key/value store into the
// structured database. Backups are gzipped JSON-lines files, one record per
// line, one file per collection.
package legacy

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Loader reads a legacy backup file and returns its raw JSON lines.
type Loader interface {
	Load(ctx context.Context, source string) ([][]byte, error)
}

// fileLoader implements Loader for gzipped backup files on local disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based backup loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "backup-loader").Logger(),
	}
}

// Load reads a gzipped backup file and returns one raw JSON document per
// non-empty line.
func (l *fileLoader) Load(ctx context.Context, path string) ([][]byte, error) {
	l.logger.Info().Str("file", path).Msg("loading backup file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open backup file")
		return nil, fmt.Errorf("failed to open backup file %s: %w", path, err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", path, err)
	}
	defer gzipReader.Close()

	records, err := scanLines(ctx, gzipReader)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("error reading backup file")
		return nil, fmt.Errorf("error reading backup file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("records", len(records)).
		Msg("backup file loaded")

	return records, nil
}

// scanLines collects non-empty lines from an already-decompressed stream.
func scanLines(ctx context.Context, r io.Reader) ([][]byte, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var records [][]byte
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			records = append(records, []byte(line))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
