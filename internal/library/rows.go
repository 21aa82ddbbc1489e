package library

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/slipstream/mediascan/internal/database/sqlc"
	"github.com/slipstream/mediascan/internal/status"
)

func rowToVideo(row sqlc.Video) *VideoData {
	v := &VideoData{
		ID:            row.ID,
		Path:          row.Path,
		Kind:          VideoKind(row.Kind),
		EpisodeNumber: int(row.EpisodeNumber),
		Metadata: decodeMetadata(row.Title, row.OriginalTitle, row.Year, row.Overview, row.PosterUrl,
			row.SourceIds, row.Provenance),
		Genres:     decodeGenres(row.Genres),
		Rating:     row.Rating,
		Runtime:    int(row.Runtime),
		FanartURL:  row.FanartUrl,
		TrailerURL: row.TrailerUrl,
		ScanState:  decodeScanState(row.ScanStatus, row.ScanDate, row.LastScannedAt, row.ScanError),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	if row.StagedFileID.Valid {
		id := row.StagedFileID.Int64
		v.StagedFileID = &id
	}
	if row.SeasonID.Valid {
		id := row.SeasonID.Int64
		v.SeasonID = &id
	}
	return v
}

func rowToSeries(row sqlc.Series) *Series {
	return &Series{
		ID: row.ID,
		Metadata: decodeMetadata(row.Title, row.OriginalTitle, row.Year, row.Overview, row.PosterUrl,
			row.SourceIds, row.Provenance),
		Genres:    decodeGenres(row.Genres),
		Rating:    row.Rating,
		FanartURL: row.FanartUrl,
		ScanState: decodeScanState(row.ScanStatus, row.ScanDate, row.LastScannedAt, row.ScanError),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func rowToSeason(row sqlc.Season) *Season {
	return &Season{
		ID:           row.ID,
		SeriesID:     row.SeriesID,
		SeasonNumber: int(row.SeasonNumber),
		Metadata: decodeMetadata(row.Title, "", row.Year, row.Overview, row.PosterUrl,
			row.SourceIds, row.Provenance),
		ScanState: decodeScanState(row.ScanStatus, row.ScanDate, row.LastScannedAt, row.ScanError),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func decodeMetadata(title, originalTitle string, year int64, overview, poster, sourceIDs, provenance string) Metadata {
	m := Metadata{
		Title:         title,
		OriginalTitle: originalTitle,
		Year:          int(year),
		Overview:      overview,
		PosterURL:     poster,
		SourceIDs:     map[string]string{},
		Provenance:    map[string]string{},
	}
	// Corrupt JSON degrades to empty maps; the next scan repopulates them.
	_ = json.Unmarshal([]byte(sourceIDs), &m.SourceIDs)
	_ = json.Unmarshal([]byte(provenance), &m.Provenance)
	return m
}

func decodeGenres(raw string) []string {
	var genres []string
	if err := json.Unmarshal([]byte(raw), &genres); err != nil {
		return nil
	}
	return genres
}

func decodeScanState(st string, scanDate, lastScanned sql.NullTime, scanErr sql.NullString) ScanState {
	return ScanState{
		ScanStatus:    status.Parse(st),
		ScanDate:      timePtr(scanDate),
		LastScannedAt: timePtr(lastScanned),
		ScanError:     scanErr.String,
	}
}

func encodeMetadata(genres []string, m Metadata) (genresJSON, sourceIDsJSON, provenanceJSON string, err error) {
	if genres == nil {
		genres = []string{}
	}
	g, err := json.Marshal(genres)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode genres: %w", err)
	}

	ids := m.SourceIDs
	if ids == nil {
		ids = map[string]string{}
	}
	i, err := json.Marshal(ids)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode source ids: %w", err)
	}

	prov := m.Provenance
	if prov == nil {
		prov = map[string]string{}
	}
	p, err := json.Marshal(prov)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode provenance: %w", err)
	}
	return string(g), string(i), string(p), nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
