package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotx/internal/models"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/desertthunder/spotx/internal/spotify"
)

// pageLimit is the page size requested from paginated endpoints.
const pageLimit = 50

// Catalog provides typed read access to the Spotify catalog.
type Catalog struct {
	client *spotify.Client
	logger *log.Logger

	mu   sync.Mutex
	cred spotify.Credential
}

// NewCatalog creates a Catalog over the given client, seeded with cred.
// A zero credential is valid: the first operation acquires a token.
func NewCatalog(client *spotify.Client, cred spotify.Credential, logger *log.Logger) (*Catalog, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: client is required", shared.ErrInvalidArgument)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Catalog{client: client, cred: cred, logger: logger}, nil
}

// Credential returns the credential after any renewals performed so far.
// Callers persist it to reuse the token across runs.
func (c *Catalog) Credential() spotify.Credential {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cred
}

// Authenticate verifies the credentials by acquiring a token when the current
// credential is absent or expired.
func (c *Catalog) Authenticate(ctx context.Context) (spotify.Credential, error) {
	c.mu.Lock()
	cred := c.cred
	c.mu.Unlock()

	cred, err := c.client.Authenticate(ctx, cred)
	if err != nil {
		return cred, err
	}
	c.setCredential(cred)
	return cred, nil
}

// Playlist retrieves a playlist's metadata by ID.
func (c *Catalog) Playlist(ctx context.Context, playlistID string) (models.PlaylistSummary, error) {
	body, err := c.do(ctx, spotify.RequestSpec{Endpoint: "playlists/" + playlistID})
	if err != nil {
		if strings.Contains(err.Error(), "status 404") {
			return models.PlaylistSummary{}, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
		}
		return models.PlaylistSummary{}, err
	}

	playlist, err := models.Decode[models.Playlist](json.RawMessage(body))
	if err != nil {
		return models.PlaylistSummary{}, err
	}
	return playlist.Summary(), nil
}

// PlaylistTracks retrieves every track of a playlist, following pagination.
func (c *Catalog) PlaylistTracks(ctx context.Context, playlistID string) ([]models.TrackRow, error) {
	spec := spotify.RequestSpec{
		Endpoint: fmt.Sprintf("playlists/%s/tracks", playlistID),
		Params:   []spotify.Param{{Key: "limit", Value: fmt.Sprint(pageLimit)}},
	}

	items, err := c.fetchAll(ctx, spec)
	if err != nil {
		return nil, err
	}

	var rows []models.TrackRow
	for _, raw := range items {
		item, err := models.Decode[models.PlaylistItem](raw)
		if err != nil {
			return rows, err
		}
		// Local files and removed tracks appear as entries without an ID.
		if item.Track.ID == "" {
			continue
		}
		rows = append(rows, item.Track.Row())
	}
	return rows, nil
}

// ExportPlaylist retrieves a playlist with its complete track listing.
func (c *Catalog) ExportPlaylist(ctx context.Context, playlistID string) (models.PlaylistExport, error) {
	summary, err := c.Playlist(ctx, playlistID)
	if err != nil {
		return models.PlaylistExport{}, err
	}

	tracks, err := c.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return models.PlaylistExport{}, err
	}

	return models.PlaylistExport{Playlist: summary, Tracks: tracks}, nil
}

// Album retrieves an album by ID.
func (c *Catalog) Album(ctx context.Context, albumID string) (models.Album, error) {
	body, err := c.do(ctx, spotify.RequestSpec{Endpoint: "albums/" + albumID})
	if err != nil {
		return models.Album{}, err
	}
	return models.Decode[models.Album](json.RawMessage(body))
}

// AlbumTracks retrieves every track of an album, following pagination.
// Album track objects omit the album field, so rows are backfilled with the
// album's own name.
func (c *Catalog) AlbumTracks(ctx context.Context, albumID string) ([]models.TrackRow, error) {
	album, err := c.Album(ctx, albumID)
	if err != nil {
		return nil, err
	}

	spec := spotify.RequestSpec{
		Endpoint: fmt.Sprintf("albums/%s/tracks", albumID),
		Params:   []spotify.Param{{Key: "limit", Value: fmt.Sprint(pageLimit)}},
	}

	items, err := c.fetchAll(ctx, spec)
	if err != nil {
		return nil, err
	}

	var rows []models.TrackRow
	for _, raw := range items {
		track, err := models.Decode[models.Track](raw)
		if err != nil {
			return rows, err
		}
		row := track.Row()
		row.Album = album.Name
		rows = append(rows, row)
	}
	return rows, nil
}

// Artist retrieves an artist by ID.
func (c *Catalog) Artist(ctx context.Context, artistID string) (models.Artist, error) {
	body, err := c.do(ctx, spotify.RequestSpec{Endpoint: "artists/" + artistID})
	if err != nil {
		return models.Artist{}, err
	}
	return models.Decode[models.Artist](json.RawMessage(body))
}

// ArtistAlbums retrieves an artist's albums, following pagination.
func (c *Catalog) ArtistAlbums(ctx context.Context, artistID string) ([]models.Album, error) {
	spec := spotify.RequestSpec{
		Endpoint: fmt.Sprintf("artists/%s/albums", artistID),
		Params:   []spotify.Param{{Key: "limit", Value: fmt.Sprint(pageLimit)}},
	}

	items, err := c.fetchAll(ctx, spec)
	if err != nil {
		return nil, err
	}

	var albums []models.Album
	for _, raw := range items {
		album, err := models.Decode[models.Album](raw)
		if err != nil {
			return albums, err
		}
		albums = append(albums, album)
	}
	return albums, nil
}

// do executes a single request and threads the credential forward.
func (c *Catalog) do(ctx context.Context, spec spotify.RequestSpec) (string, error) {
	c.mu.Lock()
	cred := c.cred
	c.mu.Unlock()

	body, cred, err := c.client.Do(ctx, spec, cred)
	c.setCredential(cred)
	return body, err
}

// fetchAll drains a paginated resource and threads the credential forward.
func (c *Catalog) fetchAll(ctx context.Context, spec spotify.RequestSpec) ([]json.RawMessage, error) {
	c.mu.Lock()
	cred := c.cred
	c.mu.Unlock()

	items, cred, err := c.client.Fetch(spec, cred).All(ctx)
	c.setCredential(cred)
	return items, err
}

func (c *Catalog) setCredential(cred spotify.Credential) {
	c.mu.Lock()
	c.cred = cred
	c.mu.Unlock()
}
