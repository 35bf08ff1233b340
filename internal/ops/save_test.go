package ops

import (
	"context"
	"testing"

	"github.com/keystash/keystash/internal/errors"
)

func TestSave(t *testing.T) {
	store, cfg := newTestEnv(t)

	out, err := Save(context.Background(), store, cfg, SaveInput{
		AppName: "VSCode",
		Content: "héllo wörld",
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if out.ID != 1 {
		t.Errorf("ID = %d, want 1", out.ID)
	}
	if out.CharCount != 11 {
		t.Errorf("CharCount = %d, want 11", out.CharCount)
	}
	if out.WordCount != 2 {
		t.Errorf("WordCount = %d, want 2", out.WordCount)
	}
	if out.CreatedAt == 0 {
		t.Error("CreatedAt should be set")
	}
}

func TestSave_NormalizesAppName(t *testing.T) {
	store, cfg := newTestEnv(t)

	out, err := Save(context.Background(), store, cfg, SaveInput{
		AppName: "  Visual   Studio  Code  ",
		Content: "x",
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Get(context.Background(), store, cfg, GetInput{ID: out.ID})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Capture.AppName != "Visual Studio Code" {
		t.Errorf("AppName = %q, want collapsed whitespace", got.Capture.AppName)
	}
}

func TestSave_EmptyContentAllowed(t *testing.T) {
	store, cfg := newTestEnv(t)

	out, err := Save(context.Background(), store, cfg, SaveInput{AppName: "Terminal"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if out.CharCount != 0 || out.WordCount != 0 {
		t.Errorf("counts = %d/%d, want 0/0", out.CharCount, out.WordCount)
	}
}

func TestSave_Validation(t *testing.T) {
	store, cfg := newTestEnv(t)

	tests := []struct {
		name  string
		input SaveInput
	}{
		{"empty app name", SaveInput{AppName: "", Content: "x"}},
		{"whitespace app name", SaveInput{AppName: "   ", Content: "x"}},
		{"negative start time", SaveInput{AppName: "A", StartTime: -1}},
		{"negative end time", SaveInput{AppName: "A", EndTime: -1}},
		{"end before start", SaveInput{AppName: "A", StartTime: 200, EndTime: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Save(context.Background(), store, cfg, tt.input)
			if !errors.Is(err, errors.ErrInvalidRequest) {
				t.Errorf("err = %v, want INVALID_REQUEST", err)
			}
		})
	}
}

func TestSave_TimestampDefaults(t *testing.T) {
	store, cfg := newTestEnv(t)

	out, err := Save(context.Background(), store, cfg, SaveInput{
		AppName:   "Terminal",
		Content:   "x",
		StartTime: 1000,
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Get(context.Background(), store, cfg, GetInput{ID: out.ID})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Capture.EndTime != 1000 {
		t.Errorf("EndTime = %d, want start time", got.Capture.EndTime)
	}
}

func TestSave_EndTimeOnlyDefaultsStart(t *testing.T) {
	store, cfg := newTestEnv(t)

	out, err := Save(context.Background(), store, cfg, SaveInput{
		AppName: "Terminal",
		Content: "x",
		EndTime: 2000,
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Get(context.Background(), store, cfg, GetInput{ID: out.ID})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Capture.StartTime != 2000 || got.Capture.EndTime != 2000 {
		t.Errorf("times = (%d, %d), want (2000, 2000)",
			got.Capture.StartTime, got.Capture.EndTime)
	}
	if got.Capture.StartTime > got.Capture.EndTime {
		t.Error("StartTime must not exceed EndTime")
	}
}

func TestGet_Validation(t *testing.T) {
	store, cfg := newTestEnv(t)

	if _, err := Get(context.Background(), store, cfg, GetInput{ID: 0}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
	if _, err := Get(context.Background(), store, cfg, GetInput{ID: 42}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}
