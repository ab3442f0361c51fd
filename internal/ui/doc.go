// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing and exporting playlists:
//  1. [PlaylistListView] : Browse playlist search results
//  2. [TrackListView] : Preview a playlist's tracks
//  3. [ConfirmView] : Confirm the export operation
//  4. [ExportView] : Monitor real-time progress updates
//  5. [ResultView] : Display the files written or the failure
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the ExportEngine, providing non-blocking status reporting during exports.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
