// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/spotx/internal/models"
	"github.com/desertthunder/spotx/internal/services"
	"github.com/desertthunder/spotx/internal/spotify"
)

// MockCatalog is a test double for [services.CatalogService]. Fields hold the
// canned responses; unset fields return zero values.
type MockCatalog struct {
	Cred          spotify.Credential
	PlaylistRes   models.PlaylistSummary
	TracksRes     []models.TrackRow
	ExportRes     models.PlaylistExport
	AlbumRes      models.Album
	AlbumTrackRes []models.TrackRow
	ArtistRes     models.Artist
	AlbumsRes     []models.Album
	SearchRes     services.SearchResults
	Err           error
}

func (m *MockCatalog) Authenticate(ctx context.Context) (spotify.Credential, error) {
	return m.Cred, m.Err
}

func (m *MockCatalog) Credential() spotify.Credential {
	return m.Cred
}

func (m *MockCatalog) Playlist(ctx context.Context, playlistID string) (models.PlaylistSummary, error) {
	return m.PlaylistRes, m.Err
}

func (m *MockCatalog) PlaylistTracks(ctx context.Context, playlistID string) ([]models.TrackRow, error) {
	return m.TracksRes, m.Err
}

func (m *MockCatalog) ExportPlaylist(ctx context.Context, playlistID string) (models.PlaylistExport, error) {
	return m.ExportRes, m.Err
}

func (m *MockCatalog) Album(ctx context.Context, albumID string) (models.Album, error) {
	return m.AlbumRes, m.Err
}

func (m *MockCatalog) AlbumTracks(ctx context.Context, albumID string) ([]models.TrackRow, error) {
	return m.AlbumTrackRes, m.Err
}

func (m *MockCatalog) Artist(ctx context.Context, artistID string) (models.Artist, error) {
	return m.ArtistRes, m.Err
}

func (m *MockCatalog) ArtistAlbums(ctx context.Context, artistID string) ([]models.Album, error) {
	return m.AlbumsRes, m.Err
}

func (m *MockCatalog) Search(ctx context.Context, query string, kinds ...services.SearchKind) (services.SearchResults, error) {
	return m.SearchRes, m.Err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
