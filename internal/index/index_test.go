package index

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleRecords() map[string]Record {
	return map[string]Record{
		"Songs/Pack/Song A/banner.png": {
			Path:     "/cache/Banners/0a1b",
			Width:    800,
			Height:   600,
			FullHash: 0xfeedfacecafebeef,
			Rotated:  false,
		},
		"Songs/Pack/Song B/bn.jpg": {
			Path:     "/cache/Banners/2c3d",
			Width:    256,
			Height:   64,
			FullHash: 42,
			Rotated:  true,
		},
	}
}

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	sqliteStore, err := NewSQLiteStore(filepath.Join(dir, FormatSQLite.FileName()))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error: %v", err)
	}
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]Store{
		"yaml":   NewYAMLStore(filepath.Join(dir, FormatYAML.FileName())),
		"sqlite": sqliteStore,
	}
}

func TestStore_MissingIsEmpty(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			records, err := store.Read()
			if err != nil {
				t.Fatalf("Read() error: %v", err)
			}
			if len(records) != 0 {
				t.Errorf("Read() returned %d records, want 0", len(records))
			}
			if _, err := os.Stat(store.Location()); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("Read() should not create %s", store.Location())
			}
		})
	}
}

func TestStore_RoundTrip(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			want := sampleRecords()
			if err := store.Write(want); err != nil {
				t.Fatalf("Write() error: %v", err)
			}

			got, err := store.Read()
			if err != nil {
				t.Fatalf("Read() error: %v", err)
			}
			if len(got) != len(want) {
				t.Fatalf("Read() returned %d records, want %d", len(got), len(want))
			}
			for key, rec := range want {
				if got[key] != rec {
					t.Errorf("record %q = %+v, want %+v", key, got[key], rec)
				}
			}
		})
	}
}

func TestStore_WriteReplacesEverything(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Write(sampleRecords()); err != nil {
				t.Fatalf("first Write() error: %v", err)
			}

			only := map[string]Record{"x.png": {Path: "/cache/Banners/x", Width: 1, Height: 1}}
			if err := store.Write(only); err != nil {
				t.Fatalf("second Write() error: %v", err)
			}

			got, err := store.Read()
			if err != nil {
				t.Fatalf("Read() error: %v", err)
			}
			if len(got) != 1 || got["x.png"] != only["x.png"] {
				t.Errorf("Read() = %+v, want %+v", got, only)
			}
		})
	}
}

func TestYAMLStore_FieldNames(t *testing.T) {
	store := NewYAMLStore(filepath.Join(t.TempDir(), "banners.cache"))
	if err := store.Write(sampleRecords()); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	data, err := os.ReadFile(store.Location())
	if err != nil {
		t.Fatalf("failed to read index: %v", err)
	}
	for _, field := range []string{"Path:", "Width:", "Height:", "FullHash:", "Rotated:"} {
		if !strings.Contains(string(data), field) {
			t.Errorf("index file missing field %s:\n%s", field, data)
		}
	}
}

func TestYAMLStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banners.cache")
	if err := os.WriteFile(path, []byte("{{not yaml"), 0o644); err != nil {
		t.Fatalf("failed to write corrupt index: %v", err)
	}

	records, err := NewYAMLStore(path).Read()
	if err == nil {
		t.Error("Read() of corrupt file should return an error")
	}
	if records == nil || len(records) != 0 {
		t.Errorf("Read() of corrupt file should return an empty map, got %v", records)
	}
}

func TestRecordValid(t *testing.T) {
	tests := []struct {
		rec  Record
		want bool
	}{
		{Record{Width: 800, Height: 600}, true},
		{Record{Width: 0, Height: 600}, false},
		{Record{Width: 800, Height: 0}, false},
		{Record{}, false},
	}
	for _, tt := range tests {
		if got := tt.rec.Valid(); got != tt.want {
			t.Errorf("%+v.Valid() = %v, want %v", tt.rec, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatYAML, false},
		{"yaml", FormatYAML, false},
		{"YML", FormatYAML, false},
		{"sqlite", FormatSQLite, false},
		{"sqlite3", FormatSQLite, false},
		{"ini", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("ParseFormat(%q) error should wrap ErrUnknownFormat", tt.input)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestOpen_UnknownFormat(t *testing.T) {
	if _, err := Open(Format("xml"), "x"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Open() error = %v, want ErrUnknownFormat", err)
	}
}
