// Package services implements the [Catalog] service over the Spotify client.
//
// # Catalog
//
// [Catalog] wraps the low-level request client with typed operations for
// playlists, albums, artists and search. Raw pagination items are decoded into
// wire types from the models package and projected into flat rows for display
// and export.
//
// # Credential Threading
//
// The catalog owns one [spotify.Credential] and threads it through every
// operation: when a call renews the token, later calls reuse the renewed
// credential without touching the token endpoint again. Access is guarded by
// a mutex so concurrent export workers share a single credential.
//
// # Error Handling
//
// Operations use typed errors from the shared package:
//   - [shared.ErrAuthFailed] : token endpoint rejected the credentials
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrPlaylistNotFound] : playlist ID not found
//   - [shared.ErrNoResults] : search matched nothing in any requested kind
package services
