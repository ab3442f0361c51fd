package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/spotx/internal/models"
	"github.com/desertthunder/spotx/internal/repositories"
	"github.com/desertthunder/spotx/internal/services"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/desertthunder/spotx/internal/spotify"
	tu "github.com/desertthunder/spotx/internal/testing"
	"github.com/urfave/cli/v3"
)

func runCommand(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "spotx", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"spotx"}, args...))
}

func newTestHistory(t *testing.T) *repositories.ExportRepository {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return repositories.NewExportRepository(db)
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			catalog := &tu.MockCatalog{}

			runner := NewRunner(RunnerOpts{
				Config:  config,
				Logger:  logger,
				Output:  output,
				Catalog: catalog,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.catalog != services.CatalogService(catalog) {
				t.Error("expected catalog to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be created")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})

	t.Run("requireCatalog", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})

		err := runner.requireCatalog()
		if err == nil {
			t.Fatal("expected error with no catalog")
		}
		if !strings.Contains(err.Error(), "service unavailable") {
			t.Errorf("expected service unavailable error, got %v", err)
		}

		runner = NewRunner(RunnerOpts{Catalog: &tu.MockCatalog{}})
		if err := runner.requireCatalog(); err != nil {
			t.Errorf("expected no error with catalog set, got %v", err)
		}
	})
}

func TestCommands(t *testing.T) {
	t.Run("AuthCheck", func(t *testing.T) {
		t.Run("reports valid credentials", func(t *testing.T) {
			output := &bytes.Buffer{}
			catalog := &tu.MockCatalog{
				Cred: spotify.Credential{
					AccessToken: "tok",
					TokenType:   "Bearer",
					ExpiresAt:   time.Now().Add(time.Hour),
				},
			}
			runner := NewRunner(RunnerOpts{Catalog: catalog, Output: output})

			if err := runCommand(t, runner, "auth", "check"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "Credentials valid") {
				t.Errorf("expected success message, got %q", output.String())
			}
		})

		t.Run("fails without catalog", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runCommand(t, runner, "auth", "check")
			if err == nil {
				t.Fatal("expected error with no catalog")
			}
			if !strings.Contains(err.Error(), "service unavailable") {
				t.Errorf("expected service unavailable error, got %v", err)
			}
		})
	})

	t.Run("Search", func(t *testing.T) {
		t.Run("renders track hits", func(t *testing.T) {
			output := &bytes.Buffer{}
			catalog := &tu.MockCatalog{
				SearchRes: services.SearchResults{
					Kind: services.KindTrack,
					Tracks: []models.TrackRow{
						{ID: "t1", Title: "Song One", Artist: "Artist One", Album: "Debut", Duration: 180},
					},
				},
			}
			runner := NewRunner(RunnerOpts{Catalog: catalog, Output: output})

			if err := runCommand(t, runner, "search", "song one"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			got := output.String()
			if !strings.Contains(got, "Found 1 track results") {
				t.Errorf("expected result count, got %q", got)
			}
			if !strings.Contains(got, "Artist One - Song One [3:00]") {
				t.Errorf("expected track line, got %q", got)
			}
		})

		t.Run("rejects unknown type", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Catalog: &tu.MockCatalog{}, Output: &bytes.Buffer{}})

			err := runCommand(t, runner, "search", "--type", "podcast", "hello")
			if err == nil {
				t.Fatal("expected error for unknown type")
			}
			if !strings.Contains(err.Error(), "unknown search type") {
				t.Errorf("expected type error, got %v", err)
			}
		})

		t.Run("requires a query", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Catalog: &tu.MockCatalog{}, Output: &bytes.Buffer{}})

			err := runCommand(t, runner, "search")
			if err == nil {
				t.Fatal("expected error for missing query")
			}
			if !strings.Contains(err.Error(), "missing required argument") {
				t.Errorf("expected missing argument error, got %v", err)
			}
		})
	})

	t.Run("PlaylistTracks", func(t *testing.T) {
		output := &bytes.Buffer{}
		catalog := &tu.MockCatalog{
			TracksRes: []models.TrackRow{
				{ID: "t1", Title: "Song One", Artist: "Artist One", Album: "Debut", Duration: 180, ISRC: "USRC12345678"},
				{ID: "t2", Title: "Song Two", Artist: "Artist Two", Duration: 240},
			},
		}
		runner := NewRunner(RunnerOpts{Catalog: catalog, Output: output})

		if err := runCommand(t, runner, "playlist", "tracks", "p1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got := output.String()
		if !strings.Contains(got, "Found 2 tracks") {
			t.Errorf("expected track count, got %q", got)
		}
		if !strings.Contains(got, "ISRC: USRC12345678") {
			t.Errorf("expected ISRC line, got %q", got)
		}
	})

	t.Run("PlaylistShow", func(t *testing.T) {
		output := &bytes.Buffer{}
		catalog := &tu.MockCatalog{
			PlaylistRes: models.PlaylistSummary{
				ID: "p1", Name: "Test Playlist", Owner: "someone", TrackCount: 3, Public: true,
			},
		}
		runner := NewRunner(RunnerOpts{Catalog: catalog, Output: output})

		if err := runCommand(t, runner, "playlist", "show", "p1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got := output.String()
		if !strings.Contains(got, "Playlist: Test Playlist") {
			t.Errorf("expected playlist name, got %q", got)
		}
		if !strings.Contains(got, "Visibility: Public") {
			t.Errorf("expected visibility line, got %q", got)
		}
	})

	t.Run("PlaylistExport", func(t *testing.T) {
		t.Run("single playlist writes files and history", func(t *testing.T) {
			tmpDir := t.TempDir()
			wd := tu.MustGetwd(t)
			tu.MustChdir(t, tmpDir)
			defer tu.MustChdir(t, wd)

			output := &bytes.Buffer{}
			history := newTestHistory(t)
			catalog := &tu.MockCatalog{
				ExportRes: models.PlaylistExport{
					Playlist: models.PlaylistSummary{ID: "p1", Name: "Test Playlist", TrackCount: 1},
					Tracks: []models.TrackRow{
						{ID: "t1", Title: "Song One", Artist: "Artist One", Duration: 180},
					},
				},
			}
			runner := NewRunner(RunnerOpts{Catalog: catalog, History: history, Output: output})

			err := runCommand(t, runner, "playlist", "export", "--id", "p1", "--format", "json")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			tu.AssertFileExists(t, "p1.json")
			if !strings.Contains(output.String(), "Playlist exported") {
				t.Errorf("expected success message, got %q", output.String())
			}

			records, err := history.List(0)
			if err != nil {
				t.Fatalf("failed to list history: %v", err)
			}
			if len(records) != 1 {
				t.Fatalf("expected 1 history record, got %d", len(records))
			}
		})

		t.Run("multiple playlists run a bulk export", func(t *testing.T) {
			tmpDir := t.TempDir()
			wd := tu.MustGetwd(t)
			tu.MustChdir(t, tmpDir)
			defer tu.MustChdir(t, wd)

			output := &bytes.Buffer{}
			catalog := &tu.MockCatalog{
				ExportRes: models.PlaylistExport{
					Playlist: models.PlaylistSummary{ID: "p1", Name: "Test Playlist"},
				},
			}
			runner := NewRunner(RunnerOpts{Catalog: catalog, Output: output})

			err := runCommand(t, runner, "playlist", "export",
				"--id", "p1", "--id", "p2", "--format", "json", "--output", "out")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			tu.AssertDirExists(t, "out")
			tu.AssertFileExists(t, "out/export_manifest.json")
			if !strings.Contains(output.String(), "Exported 2/2 playlists") {
				t.Errorf("expected bulk summary, got %q", output.String())
			}
		})
	})

	t.Run("AlbumTracks", func(t *testing.T) {
		output := &bytes.Buffer{}
		catalog := &tu.MockCatalog{
			AlbumTrackRes: []models.TrackRow{
				{ID: "t1", Title: "Song One", Artist: "Artist One", Album: "Debut", Duration: 180},
			},
		}
		runner := NewRunner(RunnerOpts{Catalog: catalog, Output: output})

		if err := runCommand(t, runner, "album", "tracks", "a1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Found 1 tracks") {
			t.Errorf("expected track count, got %q", output.String())
		}
	})

	t.Run("ArtistAlbums", func(t *testing.T) {
		output := &bytes.Buffer{}
		catalog := &tu.MockCatalog{
			AlbumsRes: []models.Album{
				{ID: "a1", Name: "Debut", AlbumType: "album", ReleaseDate: "2020-01-01", TotalTracks: 10},
			},
		}
		runner := NewRunner(RunnerOpts{Catalog: catalog, Output: output})

		if err := runCommand(t, runner, "artist", "albums", "ar1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Debut (2020-01-01)") {
			t.Errorf("expected album line, got %q", output.String())
		}
	})

	t.Run("History", func(t *testing.T) {
		t.Run("lists recorded exports", func(t *testing.T) {
			output := &bytes.Buffer{}
			history := newTestHistory(t)

			record := models.ExportRecord{
				PlaylistID:   "p1",
				PlaylistName: "Test Playlist",
				TrackCount:   3,
				Format:       "csv",
				File:         "p1_tracks.csv",
			}
			if err := history.Create(&record); err != nil {
				t.Fatalf("failed to create record: %v", err)
			}

			runner := NewRunner(RunnerOpts{History: history, Output: output})

			if err := runCommand(t, runner, "history"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			got := output.String()
			if !strings.Contains(got, "Test Playlist (3 tracks) as csv") {
				t.Errorf("expected record line, got %q", got)
			}
		})

		t.Run("empty history", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{History: newTestHistory(t), Output: output})

			if err := runCommand(t, runner, "history"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "No exports recorded yet") {
				t.Errorf("expected empty message, got %q", output.String())
			}
		})

		t.Run("fails without database", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runCommand(t, runner, "history")
			if err == nil {
				t.Fatal("expected error with no database")
			}
			if !strings.Contains(err.Error(), "service unavailable") {
				t.Errorf("expected service unavailable error, got %v", err)
			}
		})
	})
}
