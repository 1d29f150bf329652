package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	sdkerrors "github.com/aiflawlab/sdk/pkg/errors"
	"github.com/aiflawlab/sdk/pkg/submission"
)

func testPayloads() (submission.Submission, map[string]any) {
	form := submission.Submission{
		submission.FieldReportID:        "rep-1",
		submission.FieldFlawDescription: "leaks PII",
		submission.FieldImpacts:         []string{"Privacy"},
	}
	doc := map[string]any{
		"@type":      "aifr:AIFlawReport",
		"identifier": "rep-1",
	}
	return form, doc
}

func TestLocalProviderRoundTrip(t *testing.T) {
	p, err := NewLocalProvider(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewLocalProvider() error = %v", err)
	}
	defer p.Close()

	form, doc := testPayloads()
	loc, err := p.Save(context.Background(), "rep-1", form, doc)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if loc == "" {
		t.Fatal("Save() returned empty location")
	}

	for _, name := range []string{formFileName, documentFileName} {
		if _, err := os.Stat(filepath.Join(loc, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	stored, err := p.Load(context.Background(), "rep-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if stored.FormData[submission.FieldFlawDescription] != "leaks PII" {
		t.Errorf("form data = %v", stored.FormData)
	}
	if stored.MachineReadable["identifier"] != "rep-1" {
		t.Errorf("document = %v", stored.MachineReadable)
	}
}

func TestLocalProviderList(t *testing.T) {
	p, err := NewLocalProvider(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	ctx := context.Background()
	form, doc := testPayloads()
	for _, id := range []string{"rep-b", "rep-a"} {
		if _, err := p.Save(ctx, id, form, doc); err != nil {
			t.Fatal(err)
		}
	}

	ids, err := p.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(ids) != 2 || ids[0] != "rep-a" || ids[1] != "rep-b" {
		t.Errorf("List() = %v, want [rep-a rep-b]", ids)
	}
}

func TestLocalProviderNotFound(t *testing.T) {
	p, err := NewLocalProvider(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Load(context.Background(), "nope"); !sdkerrors.IsNotFound(err) {
		t.Errorf("Load(missing) error = %v, want not found", err)
	}
}

func TestLocalProviderEmptyID(t *testing.T) {
	p, err := NewLocalProvider(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	form, doc := testPayloads()
	if _, err := p.Save(context.Background(), "", form, doc); !sdkerrors.IsMalformedInput(err) {
		t.Errorf("Save(empty id) error = %v, want malformed input", err)
	}
}

func TestSQLiteProviderRoundTrip(t *testing.T) {
	p, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "reports.db"), nil)
	if err != nil {
		t.Fatalf("NewSQLiteProvider() error = %v", err)
	}
	defer p.Close()

	form, doc := testPayloads()
	ctx := context.Background()

	loc, err := p.Save(ctx, "rep-1", form, doc)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if loc == "" {
		t.Fatal("empty location")
	}

	stored, err := p.Load(ctx, "rep-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if stored.FormData[submission.FieldFlawDescription] != "leaks PII" {
		t.Errorf("form data = %v", stored.FormData)
	}
	if stored.MachineReadable["identifier"] != "rep-1" {
		t.Errorf("document = %v", stored.MachineReadable)
	}
}

func TestSQLiteProviderIdempotentSave(t *testing.T) {
	p, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "reports.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	ctx := context.Background()
	form, doc := testPayloads()

	if _, err := p.Save(ctx, "rep-1", form, doc); err != nil {
		t.Fatal(err)
	}

	// Re-saving the same id replaces rather than duplicates.
	form[submission.FieldFlawDescription] = "revised description"
	if _, err := p.Save(ctx, "rep-1", form, doc); err != nil {
		t.Fatal(err)
	}

	n, err := p.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}

	stored, err := p.Load(ctx, "rep-1")
	if err != nil {
		t.Fatal(err)
	}
	if stored.FormData[submission.FieldFlawDescription] != "revised description" {
		t.Errorf("form data after re-save = %v", stored.FormData)
	}
}

func TestSQLiteProviderList(t *testing.T) {
	p, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "reports.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	ctx := context.Background()
	form, doc := testPayloads()
	for _, id := range []string{"rep-2", "rep-1"} {
		if _, err := p.Save(ctx, id, form, doc); err != nil {
			t.Fatal(err)
		}
	}

	ids, err := p.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(ids) != 2 || ids[0] != "rep-1" || ids[1] != "rep-2" {
		t.Errorf("List() = %v, want [rep-1 rep-2]", ids)
	}
}

func TestSQLiteProviderNotFound(t *testing.T) {
	p, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "reports.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	if _, err := p.Load(context.Background(), "missing"); !sdkerrors.IsNotFound(err) {
		t.Errorf("Load(missing) error = %v, want not found", err)
	}
}
