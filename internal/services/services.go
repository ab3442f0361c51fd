// package services defines interface CatalogService for typed Spotify catalog access
package services

import (
	"context"

	"github.com/desertthunder/spotx/internal/models"
	"github.com/desertthunder/spotx/internal/spotify"
)

// CatalogService is the read surface of the Spotify catalog consumed by the
// CLI, the TUI and the export engine. [Catalog] is the production
// implementation.
type CatalogService interface {
	// Authenticate verifies credentials by acquiring a token when needed.
	Authenticate(ctx context.Context) (spotify.Credential, error)

	// Credential returns the credential after any renewals performed so far.
	Credential() spotify.Credential

	// Playlist retrieves a playlist's metadata by ID.
	Playlist(ctx context.Context, playlistID string) (models.PlaylistSummary, error)

	// PlaylistTracks retrieves every track of a playlist, following pagination.
	PlaylistTracks(ctx context.Context, playlistID string) ([]models.TrackRow, error)

	// ExportPlaylist retrieves a playlist with its complete track listing.
	ExportPlaylist(ctx context.Context, playlistID string) (models.PlaylistExport, error)

	// Album retrieves an album by ID.
	Album(ctx context.Context, albumID string) (models.Album, error)

	// AlbumTracks retrieves every track of an album, following pagination.
	AlbumTracks(ctx context.Context, albumID string) ([]models.TrackRow, error)

	// Artist retrieves an artist by ID.
	Artist(ctx context.Context, artistID string) (models.Artist, error)

	// ArtistAlbums retrieves an artist's albums, following pagination.
	ArtistAlbums(ctx context.Context, artistID string) ([]models.Album, error)

	// Search queries the catalog, returning the first kind with any hits.
	Search(ctx context.Context, query string, kinds ...SearchKind) (SearchResults, error)
}

var _ CatalogService = (*Catalog)(nil)
