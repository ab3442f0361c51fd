package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotx/internal/shared"
	"github.com/desertthunder/spotx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistShow prints a playlist's metadata.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.StringArg("id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if playlistID == "" {
		return fmt.Errorf("%w: playlist ID is required", shared.ErrMissingArgument)
	}

	if err := r.requireCatalog(); err != nil {
		return err
	}

	playlist, err := r.catalog.Playlist(ctx, playlistID)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(playlist, pretty)
	}

	r.writePlain("Playlist: %s\n", playlist.Name)
	if playlist.Description != "" {
		r.writePlain("Description: %s\n", playlist.Description)
	}
	if playlist.Owner != "" {
		r.writePlain("Owner: %s\n", playlist.Owner)
	}
	r.writePlain("Tracks: %d\n", playlist.TrackCount)
	r.writePlain("Visibility: %s\n", shared.VisibilityString(playlist.Public))

	return nil
}

// PlaylistTracks prints every track of a playlist.
func (r *Runner) PlaylistTracks(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.StringArg("id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if playlistID == "" {
		return fmt.Errorf("%w: playlist ID is required", shared.ErrMissingArgument)
	}

	if err := r.requireCatalog(); err != nil {
		return err
	}

	r.logger.Infof("listing tracks for playlist %v", playlistID)

	tracks, err := r.catalog.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(tracks, pretty)
	}

	r.writePlain("Found %d tracks:\n\n", len(tracks))
	for i, track := range tracks {
		r.writePlain("%d. %s - %s [%s]\n", i+1, track.Artist, track.Title, shared.FormatDuration(track.Duration))
		if track.Album != "" {
			r.writePlain("   Album: %s\n", track.Album)
		}
		if track.ISRC != "" {
			r.writePlain("   ISRC: %s\n", track.ISRC)
		}
	}

	return nil
}

// PlaylistExport exports one or more playlists to files.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.StringSlice("id")
	format := cmd.String("format")
	output := cmd.String("output")

	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one --id is required", shared.ErrMissingArgument)
	}

	if err := r.requireCatalog(); err != nil {
		return err
	}

	if format == "" {
		format = r.config.Export.Format
	}

	if len(ids) == 1 {
		r.logger.Infof("exporting playlist %v as %v", ids[0], format)

		files, err := r.engine.Export(ctx, ids[0], format, output)
		if err != nil {
			return err
		}

		r.writePlain("✓ Playlist exported\n")
		for _, f := range files {
			r.writePlain("  %s\n", f)
		}
		return nil
	}

	if output == "" {
		output = r.config.Export.OutputDir
	}

	r.logger.Infof("exporting %v playlists as %v", len(ids), format)

	result, err := r.engine.BulkExport(ctx, nil, ids, tasks.BulkExportOpts{
		Format:    format,
		OutputDir: output,
	})
	if err != nil {
		return err
	}

	r.writePlain("✓ Exported %d/%d playlists to %s\n", result.SuccessfulExports, result.TotalPlaylists, result.OutputDirectory)
	for _, item := range result.Results {
		if item.Success {
			r.writePlain("  ✓ %s (%d files)\n", item.PlaylistName, len(item.Files))
		} else {
			r.writePlain("  ✗ %s: %s\n", item.PlaylistName, item.Err)
		}
	}
	r.writePlain("Manifest: %s\n", result.ManifestPath)

	if result.FailedExports > 0 {
		return fmt.Errorf("%d of %d exports failed", result.FailedExports, result.TotalPlaylists)
	}

	return nil
}

// PlaylistOpen opens a playlist in the default browser.
func (r *Runner) PlaylistOpen(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.StringArg("id")
	if playlistID == "" {
		return fmt.Errorf("%w: playlist ID is required", shared.ErrMissingArgument)
	}

	url := fmt.Sprintf("https://open.spotify.com/playlist/%s", playlistID)
	r.writePlain("→ Opening %s\n", url)

	if err := shared.OpenBrowser(url); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
