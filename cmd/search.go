package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotx/internal/services"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search queries the catalog and prints the first kind with any hits.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	kindStr := cmd.String("type")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	if err := r.requireCatalog(); err != nil {
		return err
	}

	var kinds []services.SearchKind
	if kindStr != "" {
		kind, err := services.ParseSearchKind(kindStr)
		if err != nil {
			return err
		}
		kinds = append(kinds, kind)
	}

	r.logger.Infof("searching catalog for %q", query)

	results, err := r.catalog.Search(ctx, query, kinds...)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(results, pretty)
	}

	r.writePlain("Found %d %s results for %q:\n\n", results.Count(), results.Kind, query)

	switch results.Kind {
	case services.KindTrack:
		for i, track := range results.Tracks {
			r.writePlain("%d. %s - %s [%s]\n", i+1, track.Artist, track.Title, shared.FormatDuration(track.Duration))
			if track.Album != "" {
				r.writePlain("   Album: %s\n", track.Album)
			}
			r.writePlain("   ID: %s\n", track.ID)
		}
	case services.KindAlbum:
		for i, album := range results.Albums {
			r.writePlain("%d. %s", i+1, album.Name)
			if len(album.Artists) > 0 {
				r.writePlain(" - %s", album.Artists[0].Name)
			}
			r.writePlain("\n   ID: %s  Released: %s  Tracks: %d\n", album.ID, album.ReleaseDate, album.TotalTracks)
		}
	case services.KindArtist:
		for i, artist := range results.Artists {
			r.writePlain("%d. %s\n", i+1, artist.Name)
			r.writePlain("   ID: %s\n", artist.ID)
		}
	case services.KindPlaylist:
		for i, playlist := range results.Playlists {
			r.writePlain("%d. %s\n", i+1, playlist.Name)
			if playlist.Description != "" {
				r.writePlain("   Description: %s\n", playlist.Description)
			}
			r.writePlain("   ID: %s  Tracks: %d\n", playlist.ID, playlist.TrackCount)
		}
	}

	return nil
}
