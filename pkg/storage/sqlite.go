package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/aiflawlab/sdk/pkg/compress"
	sdkerrors "github.com/aiflawlab/sdk/pkg/errors"
	"github.com/aiflawlab/sdk/pkg/submission"
)

// SQLiteProvider stores reports in a single SQLite database, one row per
// report id, payloads compressed.
type SQLiteProvider struct {
	db         *sql.DB
	path       string
	compressor *compress.Compressor
	mu         sync.RWMutex
}

var _ Provider = (*SQLiteProvider)(nil)

// NewSQLiteProvider opens (or creates) the database at path. A nil
// compressor means the default ZSTD compressor.
func NewSQLiteProvider(path string, compressor *compress.Compressor) (*SQLiteProvider, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, sdkerrors.E(sdkerrors.KindStorage, "storage.NewSQLiteProvider", "creating database directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, sdkerrors.E(sdkerrors.KindStorage, "storage.NewSQLiteProvider", "opening database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, sdkerrors.E(sdkerrors.KindStorage, "storage.NewSQLiteProvider", "setting pragma", err)
		}
	}

	if compressor == nil {
		compressor = compress.Default
	}
	p := &SQLiteProvider{db: db, path: path, compressor: compressor}
	if err := p.initSchema(); err != nil {
		db.Close()
		return nil, sdkerrors.E(sdkerrors.KindStorage, "storage.NewSQLiteProvider", "initializing schema", err)
	}
	return p, nil
}

func (p *SQLiteProvider) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS flaw_reports (
		id TEXT PRIMARY KEY,
		form_data BLOB NOT NULL,
		document BLOB NOT NULL,
		compression TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_flaw_reports_created_at ON flaw_reports(created_at);
	`
	_, err := p.db.Exec(schema)
	return err
}

// Save implements Provider. Saving an existing id replaces its payloads,
// so re-submitting the same report is idempotent.
func (p *SQLiteProvider) Save(ctx context.Context, reportID string, formData submission.Submission, machineReadable map[string]any) (string, error) {
	if reportID == "" {
		return "", sdkerrors.Malformed("reportID", "empty report id")
	}

	formBlob, err := p.encodePayload(formData)
	if err != nil {
		return "", err
	}
	docBlob, err := p.encodePayload(machineReadable)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO flaw_reports (id, form_data, document, compression, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			form_data = excluded.form_data,
			document = excluded.document,
			compression = excluded.compression,
			updated_at = excluded.updated_at
	`, reportID, formBlob, docBlob, string(p.compressor.Algorithm()), time.Now().UTC(), time.Now().UTC())
	if err != nil {
		return "", sdkerrors.E(sdkerrors.KindStorage, "storage.SQLiteProvider.Save", "upserting report", err)
	}

	return p.locationFor(reportID), nil
}

// Load implements Provider.
func (p *SQLiteProvider) Load(ctx context.Context, reportID string) (*StoredReport, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var formBlob, docBlob []byte
	var savedAt time.Time
	err := p.db.QueryRowContext(ctx, `
		SELECT form_data, document, updated_at FROM flaw_reports WHERE id = ?
	`, reportID).Scan(&formBlob, &docBlob, &savedAt)
	if err == sql.ErrNoRows {
		return nil, sdkerrors.ErrReportNotFound
	}
	if err != nil {
		return nil, sdkerrors.E(sdkerrors.KindStorage, "storage.SQLiteProvider.Load", "querying report", err)
	}

	stored := &StoredReport{
		ReportID: reportID,
		Location: p.locationFor(reportID),
		SavedAt:  savedAt,
	}
	if err := p.decodePayload(formBlob, &stored.FormData); err != nil {
		return nil, err
	}
	if err := p.decodePayload(docBlob, &stored.MachineReadable); err != nil {
		return nil, err
	}
	return stored, nil
}

// List implements Provider.
func (p *SQLiteProvider) List(ctx context.Context) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	rows, err := p.db.QueryContext(ctx, `SELECT id FROM flaw_reports ORDER BY id`)
	if err != nil {
		return nil, sdkerrors.E(sdkerrors.KindStorage, "storage.SQLiteProvider.List", "querying report ids", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, sdkerrors.E(sdkerrors.KindStorage, "storage.SQLiteProvider.List", "scanning report id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, sdkerrors.E(sdkerrors.KindStorage, "storage.SQLiteProvider.List", "iterating report ids", err)
	}
	return ids, nil
}

// Count returns the number of stored reports.
func (p *SQLiteProvider) Count(ctx context.Context) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var n int
	if err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flaw_reports`).Scan(&n); err != nil {
		return 0, sdkerrors.E(sdkerrors.KindStorage, "storage.SQLiteProvider.Count", "counting reports", err)
	}
	return n, nil
}

// Close implements Provider.
func (p *SQLiteProvider) Close() error {
	return p.db.Close()
}

func (p *SQLiteProvider) locationFor(reportID string) string {
	return fmt.Sprintf("sqlite://%s#%s", p.path, reportID)
}

func (p *SQLiteProvider) encodePayload(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, sdkerrors.E(sdkerrors.KindStorage, "storage.SQLiteProvider", "encoding payload", err)
	}
	compressed, err := p.compressor.Compress(data)
	if err != nil {
		return nil, sdkerrors.E(sdkerrors.KindStorage, "storage.SQLiteProvider", "compressing payload", err)
	}
	return compressed, nil
}

func (p *SQLiteProvider) decodePayload(blob []byte, v any) error {
	data, err := p.compressor.Decompress(blob)
	if err != nil {
		return sdkerrors.E(sdkerrors.KindStorage, "storage.SQLiteProvider", "decompressing payload", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return sdkerrors.E(sdkerrors.KindStorage, "storage.SQLiteProvider", "decoding payload", err)
	}
	return nil
}
