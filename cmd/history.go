package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/spotx/internal/models"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/urfave/cli/v3"
)

// History lists past playlist exports recorded in the database.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	playlistID := cmd.String("playlist")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.history == nil {
		return fmt.Errorf("%w: export history database not available (run 'spotx setup database')", shared.ErrServiceUnavailable)
	}

	var records []models.ExportRecord
	var err error

	if playlistID != "" {
		records, err = r.history.ListByPlaylist(playlistID)
		if limit > 0 && limit < len(records) {
			records = records[:limit]
		}
	} else {
		records, err = r.history.List(limit)
	}
	if err != nil {
		return fmt.Errorf("failed to list export history: %w", err)
	}

	if useJSON {
		return r.writeJSON(records, pretty)
	}

	if len(records) == 0 {
		r.writePlain("No exports recorded yet.\n")
		return nil
	}

	r.writePlain("Found %d exports:\n\n", len(records))
	for i, record := range records {
		r.writePlain("%d. %s (%d tracks) as %s\n", i+1, record.PlaylistName, record.TrackCount, record.Format)
		r.writePlain("   File: %s\n", record.File)
		r.writePlain("   At: %s\n", record.CreatedAt.Local().Format(time.RFC1123))
	}

	return nil
}
