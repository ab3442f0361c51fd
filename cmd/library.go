package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/spotx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AlbumShow prints an album's metadata.
func (r *Runner) AlbumShow(ctx context.Context, cmd *cli.Command) error {
	albumID := cmd.StringArg("id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if albumID == "" {
		return fmt.Errorf("%w: album ID is required", shared.ErrMissingArgument)
	}

	if err := r.requireCatalog(); err != nil {
		return err
	}

	album, err := r.catalog.Album(ctx, albumID)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(album, pretty)
	}

	r.writePlain("Album: %s\n", album.Name)
	if len(album.Artists) > 0 {
		names := make([]string, len(album.Artists))
		for i, artist := range album.Artists {
			names[i] = artist.Name
		}
		r.writePlain("Artists: %s\n", strings.Join(names, ", "))
	}
	r.writePlain("Type: %s\n", album.AlbumType)
	r.writePlain("Released: %s\n", album.ReleaseDate)
	r.writePlain("Tracks: %d\n", album.TotalTracks)

	return nil
}

// AlbumTracks prints every track of an album.
func (r *Runner) AlbumTracks(ctx context.Context, cmd *cli.Command) error {
	albumID := cmd.StringArg("id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if albumID == "" {
		return fmt.Errorf("%w: album ID is required", shared.ErrMissingArgument)
	}

	if err := r.requireCatalog(); err != nil {
		return err
	}

	r.logger.Infof("listing tracks for album %v", albumID)

	tracks, err := r.catalog.AlbumTracks(ctx, albumID)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(tracks, pretty)
	}

	r.writePlain("Found %d tracks:\n\n", len(tracks))
	for i, track := range tracks {
		r.writePlain("%d. %s - %s [%s]\n", i+1, track.Artist, track.Title, shared.FormatDuration(track.Duration))
	}

	return nil
}

// ArtistShow prints an artist's metadata.
func (r *Runner) ArtistShow(ctx context.Context, cmd *cli.Command) error {
	artistID := cmd.StringArg("id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if artistID == "" {
		return fmt.Errorf("%w: artist ID is required", shared.ErrMissingArgument)
	}

	if err := r.requireCatalog(); err != nil {
		return err
	}

	artist, err := r.catalog.Artist(ctx, artistID)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(artist, pretty)
	}

	r.writePlain("Artist: %s\n", artist.Name)
	if len(artist.Genres) > 0 {
		r.writePlain("Genres: %s\n", strings.Join(artist.Genres, ", "))
	}
	r.writePlain("ID: %s\n", artist.ID)

	return nil
}

// ArtistAlbums prints an artist's albums.
func (r *Runner) ArtistAlbums(ctx context.Context, cmd *cli.Command) error {
	artistID := cmd.StringArg("id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if artistID == "" {
		return fmt.Errorf("%w: artist ID is required", shared.ErrMissingArgument)
	}

	if err := r.requireCatalog(); err != nil {
		return err
	}

	r.logger.Infof("listing albums for artist %v", artistID)

	albums, err := r.catalog.ArtistAlbums(ctx, artistID)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(albums, pretty)
	}

	r.writePlain("Found %d albums:\n\n", len(albums))
	for i, album := range albums {
		r.writePlain("%d. %s (%s)\n", i+1, album.Name, album.ReleaseDate)
		r.writePlain("   ID: %s  Type: %s  Tracks: %d\n", album.ID, album.AlbumType, album.TotalTracks)
	}

	return nil
}
