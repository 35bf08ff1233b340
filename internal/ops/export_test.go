package ops

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/keystash/keystash/internal/capture"
	"github.com/keystash/keystash/internal/errors"
)

func TestExport(t *testing.T) {
	store, cfg := newTestEnv(t)
	ctx := context.Background()

	for _, c := range []SaveInput{
		{AppName: "VSCode", Content: "first capture"},
		{AppName: "Terminal", Content: "second capture"},
	} {
		if _, err := Save(ctx, store, cfg, c); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	path := filepath.Join(exportsDir(cfg), "out.jsonl")
	out, err := Export(ctx, store, cfg, ExportInput{Path: path})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if out.Count != 2 {
		t.Errorf("Count = %d, want 2", out.Count)
	}
	if out.Path != path {
		t.Errorf("Path = %q, want %q", out.Path, path)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		t.Fatal("export file is empty")
	}
	var header ExportHeader
	if err := json.Unmarshal(scanner.Bytes(), &header); err != nil {
		t.Fatalf("header line is not JSON: %v", err)
	}
	if !header.KeystashExport || header.SchemaVersion != "1.0" {
		t.Errorf("header = %+v, want marker and schema 1.0", header)
	}

	var lines int
	for scanner.Scan() {
		var c capture.Capture
		if err := json.Unmarshal(scanner.Bytes(), &c); err != nil {
			t.Errorf("line %d is not a capture: %v", lines+2, err)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("capture lines = %d, want 2", lines)
	}
}

func TestExport_AppFilter(t *testing.T) {
	store, cfg := newTestEnv(t)
	ctx := context.Background()

	for _, c := range []SaveInput{
		{AppName: "VSCode", Content: "keep"},
		{AppName: "Terminal", Content: "drop"},
	} {
		if _, err := Save(ctx, store, cfg, c); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	app := "VSCode"
	path := filepath.Join(exportsDir(cfg), "vscode.jsonl")
	out, err := Export(ctx, store, cfg, ExportInput{Path: path, AppName: &app})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if out.Count != 1 {
		t.Errorf("Count = %d, want 1", out.Count)
	}
}

func TestExport_RejectsPathOutsideAllowlist(t *testing.T) {
	store, cfg := newTestEnv(t)

	path := filepath.Join(t.TempDir(), "elsewhere.jsonl")
	_, err := Export(context.Background(), store, cfg, ExportInput{Path: path})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestExport_LeavesNoTempFileBehind(t *testing.T) {
	store, cfg := newTestEnv(t)
	ctx := context.Background()

	if _, err := Save(ctx, store, cfg, SaveInput{AppName: "A", Content: "x"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	path := filepath.Join(exportsDir(cfg), "clean.jsonl")
	if _, err := Export(ctx, store, cfg, ExportInput{Path: path}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	entries, err := os.ReadDir(exportsDir(cfg))
	if err != nil {
		t.Fatalf("read exports dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestImport_Roundtrip(t *testing.T) {
	store, cfg := newTestEnv(t)
	ctx := context.Background()

	batch := "01ARZ3NDEKTSV4RRFFQ69G5FAV"
	for _, c := range []SaveInput{
		{AppName: "VSCode", Content: "first capture", BatchID: &batch},
		{AppName: "Terminal", Content: "second capture"},
	} {
		if _, err := Save(ctx, store, cfg, c); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	path := filepath.Join(exportsDir(cfg), "roundtrip.jsonl")
	if _, err := Export(ctx, store, cfg, ExportInput{Path: path}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	out, err := Import(ctx, store, cfg, ImportInput{Path: path})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if out.Imported != 2 || out.Skipped != 0 {
		t.Errorf("imported/skipped = %d/%d, want 2/0", out.Imported, out.Skipped)
	}

	// Imports land as new rows with fresh identifiers.
	recent, err := Recent(ctx, store, cfg, RecentInput{})
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if recent.Count != 4 {
		t.Errorf("total captures = %d, want 4", recent.Count)
	}

	// Batch identifiers survive the roundtrip.
	var batched int
	for _, c := range recent.Captures {
		if c.BatchID != nil && *c.BatchID == batch {
			batched++
		}
	}
	if batched != 2 {
		t.Errorf("captures carrying the batch id = %d, want 2", batched)
	}
}

func TestImport_SkipsMalformedLines(t *testing.T) {
	store, cfg := newTestEnv(t)

	path := filepath.Join(exportsDir(cfg), "mixed.jsonl")
	content := `{"_keystash_export":true,"schema_version":"1.0","exported_at":1}
{"app_name":"VSCode","content":"good line"}
this is not json
{"app_name":"","content":"missing app"}

{"app_name":"Terminal","content":"another good line"}
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write import file: %v", err)
	}

	out, err := Import(context.Background(), store, cfg, ImportInput{Path: path})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if out.Imported != 2 {
		t.Errorf("Imported = %d, want 2", out.Imported)
	}
	if out.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", out.Skipped)
	}
	if len(out.Errors) != 2 {
		t.Errorf("Errors = %v, want 2 entries", out.Errors)
	}
}

func TestImport_RejectsMissingHeader(t *testing.T) {
	store, cfg := newTestEnv(t)

	path := filepath.Join(exportsDir(cfg), "headerless.jsonl")
	if err := os.WriteFile(path, []byte(`{"app_name":"A","content":"x"}`+"\n"), 0600); err != nil {
		t.Fatalf("write import file: %v", err)
	}

	_, err := Import(context.Background(), store, cfg, ImportInput{Path: path})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestImport_MissingFile(t *testing.T) {
	store, cfg := newTestEnv(t)

	path := filepath.Join(exportsDir(cfg), "nope.jsonl")
	_, err := Import(context.Background(), store, cfg, ImportInput{Path: path})
	if !errors.Is(err, errors.ErrFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}
