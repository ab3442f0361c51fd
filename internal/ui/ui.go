package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotx/internal/formatter"
	"github.com/desertthunder/spotx/internal/models"
	"github.com/desertthunder/spotx/internal/services"
	"github.com/desertthunder/spotx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	TrackListView
	ConfirmView
	ExportView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx              context.Context
	view             ViewState
	catalog          services.CatalogService
	engine           *tasks.ExportEngine
	query            string
	format           string
	outputDir        string
	width            int
	height           int
	playlistList     list.Model
	trackList        list.Model
	selectedPlaylist *models.PlaylistSummary
	tracks           []models.TrackRow
	progressChan     chan tasks.ProgressUpdate
	exportDone       chan exportCompleteMsg
	progress         tasks.ProgressUpdate
	result           *formatter.BulkExportResult
	err              error
	help             help.Model
	keys             keyMap
}

type playlistsFetchedMsg struct {
	playlists []models.PlaylistSummary
	err       error
}

type tracksFetchedMsg struct {
	tracks []models.TrackRow
	err    error
}

type progressUpdateMsg tasks.ProgressUpdate

type exportCompleteMsg struct {
	result *formatter.BulkExportResult
	err    error
}

// NewModel creates a new TUI model. The query seeds the playlist search shown
// on startup; format and outputDir configure the export.
func NewModel(ctx context.Context, catalog services.CatalogService, engine *tasks.ExportEngine, query, format, outputDir string) *Model {
	// Lists start empty so a WindowSizeMsg arriving before the first fetch
	// finds a usable delegate.
	playlistList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	trackList := list.New(nil, list.NewDefaultDelegate(), 0, 0)

	return &Model{
		ctx:          ctx,
		view:         PlaylistListView,
		catalog:      catalog,
		engine:       engine,
		query:        query,
		format:       format,
		outputDir:    outputDir,
		playlistList: playlistList,
		trackList:    trackList,
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init initializes the TUI by searching for playlists.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		m.trackList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case playlistsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.playlists))
		for i, pl := range msg.playlists {
			items[i] = playlistItem{playlist: pl}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = fmt.Sprintf("Playlists matching '%s'", m.query)
		m.playlistList.SetSize(m.width-4, m.height-8)
		return m, nil

	case tracksFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = PlaylistListView
			return m, nil
		}
		m.tracks = msg.tracks
		items := make([]list.Item, len(msg.tracks))
		for i, track := range msg.tracks {
			items[i] = trackItem{track: track}
		}
		m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.trackList.Title = fmt.Sprintf("Tracks in '%s'", m.selectedPlaylist.Name)
		m.trackList.SetSize(m.width-4, m.height-8)
		m.view = TrackListView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case exportCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlaylistListView:
		return m.renderPlaylistList()
	case TrackListView:
		return m.renderTrackList()
	case ConfirmView:
		return m.renderConfirm()
	case ExportView:
		return m.renderExport()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.playlistList.SelectedItem()
		if selected != nil {
			if pl, ok := selected.(playlistItem); ok {
				m.selectedPlaylist = &pl.playlist
				return m, m.fetchTracks(pl.playlist.ID)
			}
		}
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistListView
		return m, nil
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n":
		m.view = TrackListView
		return m, nil
	case "y":
		m.view = ExportView
		return m, m.startExport()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = PlaylistListView
		m.selectedPlaylist = nil
		m.result = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		results, err := m.catalog.Search(m.ctx, m.query, services.KindPlaylist)
		return playlistsFetchedMsg{playlists: results.Playlists, err: err}
	}
}

func (m *Model) fetchTracks(playlistID string) tea.Cmd {
	return func() tea.Msg {
		tracks, err := m.catalog.PlaylistTracks(m.ctx, playlistID)
		return tracksFetchedMsg{tracks: tracks, err: err}
	}
}

func (m *Model) startExport() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progress := m.progressChan
	id := m.selectedPlaylist.ID

	done := make(chan exportCompleteMsg, 1)
	go func() {
		result, err := m.engine.BulkExport(m.ctx, progress, []string{id}, tasks.BulkExportOpts{
			Format:    m.format,
			OutputDir: m.outputDir,
		})
		done <- exportCompleteMsg{result: result, err: err}
		close(progress)
	}()
	m.exportDone = done

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return exportCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return <-m.exportDone
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderTrackList() string {
	exportKey := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "export"),
	)
	helpKeys := []key.Binding{exportKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Export '%s' as %s?", m.selectedPlaylist.Name, m.format))
	info := fmt.Sprintf("\nPlaylist: %s\nTracks: %d\n", m.selectedPlaylist.Name, len(m.tracks))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderExport() string {
	title := styles.title.Render("Exporting Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchPlaylist:
		phase = "Fetching playlist..."
	case tasks.ExportPlaylist:
		phase = fmt.Sprintf("Writing files (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Export failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	title := styles.ok.Render("✓ Export Complete!")
	info := fmt.Sprintf("\nOutput directory: %s\nManifest: %s", m.result.OutputDirectory, m.result.ManifestPath)

	var files string
	for _, res := range m.result.Results {
		if !res.Success {
			files += fmt.Sprintf("\n%s", styles.warn.Render(fmt.Sprintf("✗ %s: %s", res.PlaylistName, res.Err)))
			continue
		}
		for _, f := range res.Files {
			files += fmt.Sprintf("\n  • %s", f)
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, info, files, helpView)
}
