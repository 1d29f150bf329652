package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/aiflawlab/sdk/pkg/compress"
	sdkerrors "github.com/aiflawlab/sdk/pkg/errors"
	"github.com/aiflawlab/sdk/pkg/submission"
)

const (
	formFileName     = "form.json"
	documentFileName = "report.json"
	archiveFileName  = "archive.json"
)

// LocalProvider stores each report as a directory of JSON files, plus a
// compressed archive of the combined payload for long-term retention.
type LocalProvider struct {
	dir        string
	compressor *compress.Compressor
}

var _ Provider = (*LocalProvider)(nil)

// NewLocalProvider creates a provider rooted at dir. A nil compressor means
// the default ZSTD compressor.
func NewLocalProvider(dir string, compressor *compress.Compressor) (*LocalProvider, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, sdkerrors.E(sdkerrors.KindStorage, "storage.NewLocalProvider", "creating storage directory", err)
	}
	if compressor == nil {
		compressor = compress.Default
	}
	return &LocalProvider{dir: dir, compressor: compressor}, nil
}

// Save implements Provider. Re-saving a report id overwrites its files.
func (p *LocalProvider) Save(ctx context.Context, reportID string, formData submission.Submission, machineReadable map[string]any) (string, error) {
	if reportID == "" {
		return "", sdkerrors.Malformed("reportID", "empty report id")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	reportDir := filepath.Join(p.dir, reportID)
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return "", sdkerrors.E(sdkerrors.KindStorage, "storage.LocalProvider.Save", "creating report directory", err)
	}

	if err := writeJSON(filepath.Join(reportDir, formFileName), formData); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(reportDir, documentFileName), machineReadable); err != nil {
		return "", err
	}

	archive := StoredReport{
		ReportID:        reportID,
		FormData:        formData,
		MachineReadable: machineReadable,
		SavedAt:         time.Now().UTC(),
	}
	data, err := json.Marshal(archive)
	if err != nil {
		return "", sdkerrors.E(sdkerrors.KindStorage, "storage.LocalProvider.Save", "encoding archive", err)
	}
	compressed, err := p.compressor.Compress(data)
	if err != nil {
		return "", sdkerrors.E(sdkerrors.KindStorage, "storage.LocalProvider.Save", "compressing archive", err)
	}
	archivePath := filepath.Join(reportDir, archiveFileName+p.compressor.Extension())
	if err := os.WriteFile(archivePath, compressed, 0o644); err != nil {
		return "", sdkerrors.E(sdkerrors.KindStorage, "storage.LocalProvider.Save", "writing archive", err)
	}

	return reportDir, nil
}

// Load implements Provider.
func (p *LocalProvider) Load(ctx context.Context, reportID string) (*StoredReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	archivePath := filepath.Join(p.dir, reportID, archiveFileName+p.compressor.Extension())
	data, err := os.ReadFile(archivePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, sdkerrors.ErrReportNotFound
		}
		return nil, sdkerrors.E(sdkerrors.KindStorage, "storage.LocalProvider.Load", "reading archive", err)
	}
	decompressed, err := p.compressor.Decompress(data)
	if err != nil {
		return nil, sdkerrors.E(sdkerrors.KindStorage, "storage.LocalProvider.Load", "decompressing archive", err)
	}
	var stored StoredReport
	if err := json.Unmarshal(decompressed, &stored); err != nil {
		return nil, sdkerrors.E(sdkerrors.KindStorage, "storage.LocalProvider.Load", "decoding archive", err)
	}
	stored.Location = filepath.Join(p.dir, reportID)
	return &stored, nil
}

// List implements Provider. Only directories holding an archive count as
// stored reports.
func (p *LocalProvider) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, sdkerrors.E(sdkerrors.KindStorage, "storage.LocalProvider.List", "reading storage directory", err)
	}
	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		archivePath := filepath.Join(p.dir, entry.Name(), archiveFileName+p.compressor.Extension())
		if _, err := os.Stat(archivePath); err != nil {
			continue
		}
		ids = append(ids, entry.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

// Close implements Provider.
func (p *LocalProvider) Close() error { return nil }

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sdkerrors.E(sdkerrors.KindStorage, "storage.writeJSON", "encoding payload", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return sdkerrors.E(sdkerrors.KindStorage, "storage.writeJSON", "writing payload", err)
	}
	return nil
}
