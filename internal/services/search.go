package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/spotx/internal/models"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/desertthunder/spotx/internal/spotify"
)

// SearchKind identifies a searchable catalog resource type.
type SearchKind string

const (
	KindTrack    SearchKind = "track"
	KindAlbum    SearchKind = "album"
	KindArtist   SearchKind = "artist"
	KindPlaylist SearchKind = "playlist"
)

// defaultKindOrder is the order kinds are tried when the caller does not name one.
var defaultKindOrder = []SearchKind{KindTrack, KindAlbum, KindArtist, KindPlaylist}

// ParseSearchKind converts a user-supplied type string into a SearchKind.
func ParseSearchKind(s string) (SearchKind, error) {
	switch SearchKind(s) {
	case KindTrack, KindAlbum, KindArtist, KindPlaylist:
		return SearchKind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown search type %q (track, album, artist, playlist)", shared.ErrInvalidArgument, s)
	}
}

// plural is the key the search response nests this kind's results under.
func (k SearchKind) plural() string {
	return string(k) + "s"
}

// SearchResults holds the hits for the single kind that matched.
type SearchResults struct {
	Kind      SearchKind
	Tracks    []models.TrackRow
	Albums    []models.Album
	Artists   []models.Artist
	Playlists []models.PlaylistSummary
}

// Count returns the number of hits.
func (r SearchResults) Count() int {
	return len(r.Tracks) + len(r.Albums) + len(r.Artists) + len(r.Playlists)
}

// Search queries the catalog. Kinds are tried in the given order and the first
// kind with any hits wins; with no kinds the order is track, album, artist,
// playlist. Only the first page of each kind is fetched. When every kind comes
// back empty the error is [shared.ErrNoResults].
func (c *Catalog) Search(ctx context.Context, query string, kinds ...SearchKind) (SearchResults, error) {
	query = shared.NormalizeSearchQuery(query)
	if query == "" {
		return SearchResults{}, fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}
	if len(kinds) == 0 {
		kinds = defaultKindOrder
	}

	for _, kind := range kinds {
		items, err := c.searchKind(ctx, query, kind)
		if err != nil {
			return SearchResults{}, err
		}
		if len(items) == 0 {
			continue
		}
		return collectResults(kind, items)
	}

	return SearchResults{}, fmt.Errorf("%w: no matches for %q", shared.ErrNoResults, query)
}

// searchKind fetches one kind's first result page. Search responses nest the
// page under the kind's plural key, so the generic pagination engine sees them
// as a single value and the page is unwrapped here.
func (c *Catalog) searchKind(ctx context.Context, query string, kind SearchKind) ([]json.RawMessage, error) {
	spec := spotify.RequestSpec{
		Endpoint: "search",
		Params: []spotify.Param{
			{Key: "q", Value: query},
			{Key: "type", Value: string(kind)},
			{Key: "limit", Value: fmt.Sprint(pageLimit)},
		},
	}

	body, err := c.do(ctx, spec)
	if err != nil {
		return nil, err
	}

	var envelope map[string]struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return nil, fmt.Errorf("%w: malformed search response: %v", shared.ErrAPIRequest, err)
	}

	return envelope[kind.plural()].Items, nil
}

// collectResults decodes raw hits into the kind's typed projection.
func collectResults(kind SearchKind, items []json.RawMessage) (SearchResults, error) {
	results := SearchResults{Kind: kind}

	for _, raw := range items {
		switch kind {
		case KindTrack:
			track, err := models.Decode[models.Track](raw)
			if err != nil {
				return results, err
			}
			results.Tracks = append(results.Tracks, track.Row())
		case KindAlbum:
			album, err := models.Decode[models.Album](raw)
			if err != nil {
				return results, err
			}
			results.Albums = append(results.Albums, album)
		case KindArtist:
			artist, err := models.Decode[models.Artist](raw)
			if err != nil {
				return results, err
			}
			results.Artists = append(results.Artists, artist)
		case KindPlaylist:
			playlist, err := models.Decode[models.Playlist](raw)
			if err != nil {
				return results, err
			}
			results.Playlists = append(results.Playlists, playlist.Summary())
		}
	}

	return results, nil
}
