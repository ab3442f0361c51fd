// Spotify API wire types based on https://developer.spotify.com/documentation/web-api/reference/
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/spotx/internal/shared"
)

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type externalIDs struct {
	ISRC string `json:"isrc"`
}

// Track represents a Spotify track.
type Track struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Artists     []Artist    `json:"artists"`
	Album       Album       `json:"album"`
	DurationMS  int         `json:"duration_ms"`
	Explicit    bool        `json:"explicit"`
	ExternalIDs externalIDs `json:"external_ids"`
	Popularity  int         `json:"popularity"`
	URI         string      `json:"uri"`
}

// Artist represents a Spotify artist.
type Artist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
	Images []Image  `json:"images"`
	URI    string   `json:"uri"`
}

// Album represents a Spotify album.
type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	AlbumType   string   `json:"album_type"`
	Artists     []Artist `json:"artists"`
	ReleaseDate string   `json:"release_date"`
	TotalTracks int      `json:"total_tracks"`
	Images      []Image  `json:"images"`
	URI         string   `json:"uri"`
}

// Owner identifies the user a playlist belongs to.
type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type trackSummary struct {
	Total int `json:"total"`
}

// Playlist represents a Spotify playlist.
type Playlist struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Owner       Owner        `json:"owner"`
	Public      bool         `json:"public"`
	Tracks      trackSummary `json:"tracks"`
	Images      []Image      `json:"images"`
	URI         string       `json:"uri"`
}

// PlaylistItem represents a track within a playlist context.
type PlaylistItem struct {
	AddedAt string `json:"added_at"`
	Track   Track  `json:"track"`
}

// Decode unmarshals a raw pagination item into a wire type.
func Decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return v, nil
}

// TrackRow is a track flattened to a single record for display and export.
type TrackRow struct {
	ID       string
	Title    string
	Artist   string
	Album    string
	Duration int    // Duration in seconds
	ISRC     string // International Standard Recording Code
}

// Row flattens the track: first artist, album name, duration in whole seconds.
func (t Track) Row() TrackRow {
	row := TrackRow{
		ID:       t.ID,
		Title:    t.Name,
		Album:    t.Album.Name,
		Duration: t.DurationMS / 1000,
		ISRC:     t.ExternalIDs.ISRC,
	}
	if len(t.Artists) > 0 {
		row.Artist = t.Artists[0].Name
	}
	return row
}

// PlaylistSummary represents basic playlist metadata.
type PlaylistSummary struct {
	ID          string
	Name        string
	Description string
	Owner       string
	TrackCount  int
	Public      bool
}

// Summary projects the playlist's display metadata.
func (p Playlist) Summary() PlaylistSummary {
	return PlaylistSummary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Owner:       p.Owner.DisplayName,
		TrackCount:  p.Tracks.Total,
		Public:      p.Public,
	}
}

// PlaylistExport represents a playlist with its complete track listing.
type PlaylistExport struct {
	Playlist PlaylistSummary
	Tracks   []TrackRow
}

// ExportRecord is a persisted record of a completed playlist export.
type ExportRecord struct {
	ID           string
	PlaylistID   string
	PlaylistName string
	TrackCount   int
	Format       string
	File         string
	CreatedAt    time.Time
}

// Validate checks that the record carries the fields the exports table requires.
func (r ExportRecord) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: export record ID is required", shared.ErrInvalidInput)
	}
	if r.PlaylistID == "" {
		return fmt.Errorf("%w: playlist ID is required", shared.ErrInvalidInput)
	}
	if r.Format == "" {
		return fmt.Errorf("%w: export format is required", shared.ErrInvalidInput)
	}
	return nil
}
