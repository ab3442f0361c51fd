// package repositories provides the persistence layer for export history.
//
// ExportRepository records completed playlist exports in SQLite so the CLI can
// show what was exported, when and to which file.
package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/spotx/internal/models"
	"github.com/desertthunder/spotx/internal/shared"
)

// ExportRepository persists [models.ExportRecord] rows in the exports table.
type ExportRepository struct {
	db *sql.DB
}

// NewExportRepository creates a new ExportRepository with the given database connection
func NewExportRepository(db *sql.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

// Create inserts a new export record, generating an ID and timestamp when absent.
func (r *ExportRepository) Create(record *models.ExportRecord) error {
	if record.ID == "" {
		record.ID = shared.GenerateID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO exports (id, playlist_id, playlist_name, track_count, format, file, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		record.ID,
		record.PlaylistID,
		record.PlaylistName,
		record.TrackCount,
		record.Format,
		record.File,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert export record: %w", err)
	}

	return nil
}

// Get retrieves an export record by ID.
func (r *ExportRepository) Get(id string) (models.ExportRecord, error) {
	query := `
		SELECT id, playlist_id, playlist_name, track_count, format, file, created_at
		FROM exports
		WHERE id = ?
	`

	var record models.ExportRecord
	err := r.db.QueryRow(query, id).Scan(
		&record.ID,
		&record.PlaylistID,
		&record.PlaylistName,
		&record.TrackCount,
		&record.Format,
		&record.File,
		&record.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.ExportRecord{}, fmt.Errorf("export record not found: %s", id)
	}
	if err != nil {
		return models.ExportRecord{}, fmt.Errorf("failed to scan export record: %w", err)
	}

	return record, nil
}

// List retrieves export records ordered newest first. A limit of 0 returns all.
func (r *ExportRepository) List(limit int) ([]models.ExportRecord, error) {
	query := `
		SELECT id, playlist_id, playlist_name, track_count, format, file, created_at
		FROM exports
		ORDER BY created_at DESC, id
	`

	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return r.scanAll(query, args...)
}

// ListByPlaylist retrieves every export of one playlist, newest first.
func (r *ExportRepository) ListByPlaylist(playlistID string) ([]models.ExportRecord, error) {
	query := `
		SELECT id, playlist_id, playlist_name, track_count, format, file, created_at
		FROM exports
		WHERE playlist_id = ?
		ORDER BY created_at DESC, id
	`

	return r.scanAll(query, playlistID)
}

// Delete removes an export record by ID.
func (r *ExportRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM exports WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete export record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("export record not found: %s", id)
	}

	return nil
}

func (r *ExportRepository) scanAll(query string, args ...any) ([]models.ExportRecord, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query export records: %w", err)
	}
	defer rows.Close()

	var records []models.ExportRecord
	for rows.Next() {
		var record models.ExportRecord
		err := rows.Scan(
			&record.ID,
			&record.PlaylistID,
			&record.PlaylistName,
			&record.TrackCount,
			&record.Format,
			&record.File,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}
