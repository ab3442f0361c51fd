// Package models defines the data model for the Spotify catalog client.
//
// The package contains two categories of types:
//
// 1. Wire types: Structs mirroring Spotify Web API response objects
//   - [Track] : Full track object with artists, album and external IDs
//   - [Album] / [Artist] / [Playlist] : Catalog resources
//   - [PlaylistItem] : A track entry within a playlist context
//
// 2. Projections: Flattened rows for display and export
//   - [TrackRow] : One track as a single flat record (title, artist, album, duration, ISRC)
//   - [PlaylistSummary] : Basic playlist metadata
//   - [PlaylistExport] : A playlist summary with its complete flattened track listing
//   - [ExportRecord] : A persisted record of a completed export
//
// Wire types are decoded from raw pagination items with [Decode]; projections
// are derived from them with the Row and Summary methods.
package models
