// package tasks implements long-running export operations over the catalog.
//
// The core abstraction is ExportEngine, which orchestrates single and bulk
// playlist exports. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/spotx/internal/formatter"
	"github.com/desertthunder/spotx/internal/models"
	"github.com/desertthunder/spotx/internal/repositories"
	"github.com/desertthunder/spotx/internal/services"
	"github.com/desertthunder/spotx/internal/shared"
)

// ExportEngine orchestrates playlist exports: fetching from the catalog,
// writing files and recording history.
type ExportEngine struct {
	catalog services.CatalogService
	history *repositories.ExportRepository // nil disables history recording
}

// NewExportEngine creates an ExportEngine. The history repository is optional.
func NewExportEngine(catalog services.CatalogService, history *repositories.ExportRepository) *ExportEngine {
	return &ExportEngine{catalog: catalog, history: history}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ExportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Export fetches one playlist and writes it in the given format. The returned
// paths are the files created. A successful export is recorded in history.
func (e *ExportEngine) Export(ctx context.Context, playlistID, format, basePath string) ([]string, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	export, err := e.catalog.ExportPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	files, err := writeExport(&export, format, basePath)
	if err != nil {
		return nil, err
	}

	e.record(export, format, files)
	return files, nil
}

// writeExport writes a playlist export in the given format and returns the
// created file paths. An empty basePath defaults to the playlist ID.
func writeExport(export *models.PlaylistExport, format, basePath string) ([]string, error) {
	switch format {
	case "csv":
		res, err := formatter.WriteCSVExport(export, basePath)
		if err != nil {
			return nil, fmt.Errorf("CSV export failed: %w", err)
		}
		return []string{res.TracksFile, res.MetadataFile}, nil

	case "markdown":
		mdFile, err := formatter.WriteMarkdownExport(export, basePath)
		if err != nil {
			return nil, fmt.Errorf("markdown export failed: %w", err)
		}
		return []string{mdFile}, nil

	case "txt":
		if basePath != "" {
			basePath += "_tracks.txt"
		}
		path, err := formatter.WriteTextExport(export, basePath)
		if err != nil {
			return nil, fmt.Errorf("text export failed: %w", err)
		}
		return []string{path}, nil

	case "json", "":
		if basePath != "" {
			basePath += ".json"
		}
		path, err := formatter.WriteJSONExport(export, basePath)
		if err != nil {
			return nil, fmt.Errorf("JSON export failed: %w", err)
		}
		return []string{path}, nil

	default:
		return nil, fmt.Errorf("%w: unknown export format %q (csv, markdown, txt, json)", shared.ErrInvalidArgument, format)
	}
}

// record persists a completed export in history. Failures are swallowed:
// the export itself already succeeded.
func (e *ExportEngine) record(export models.PlaylistExport, format string, files []string) {
	if e.history == nil {
		return
	}

	file := ""
	if len(files) > 0 {
		file = files[0]
	}

	record := models.ExportRecord{
		PlaylistID:   export.Playlist.ID,
		PlaylistName: export.Playlist.Name,
		TrackCount:   len(export.Tracks),
		Format:       format,
		File:         file,
		CreatedAt:    time.Now().UTC(),
	}
	_ = e.history.Create(&record)
}
