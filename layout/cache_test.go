package layout

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestMappingCacheRoundTrip(t *testing.T) {
	dims := GridSize{Width: 12, Height: 12}
	model := Model{Kind: LayoutCircle, Circle: &ArcParams{LEDCount: 8, Radius: 4}}
	model, table, err := BuildMappingTable(model, dims)
	if err != nil {
		t.Fatalf("BuildMappingTable() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "cache.json")
	if err := SaveMappingCache(path, NewMappingCache(model, dims, table)); err != nil {
		t.Fatalf("SaveMappingCache() error = %v", err)
	}

	loaded, err := LoadMappingCache(path)
	if err != nil {
		t.Fatalf("LoadMappingCache() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("LoadMappingCache() returned nil for an existing file")
	}
	if !loaded.Matches(model, dims) {
		t.Error("loaded cache does not match the model it was built from")
	}
	if len(loaded.Table) != len(table) {
		t.Fatalf("loaded table length = %d, want %d", len(loaded.Table), len(table))
	}
	for i := range table {
		if loaded.Table[i] != table[i] {
			t.Errorf("table[%d] = %+v, want %+v", i, loaded.Table[i], table[i])
		}
	}
}

func TestMappingCacheMissingFile(t *testing.T) {
	cache, err := LoadMappingCache(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing cache file should be a cold cache, got error %v", err)
	}
	if cache != nil {
		t.Errorf("missing cache file should return nil, got %+v", cache)
	}
}

func TestMappingCacheChecksumChanges(t *testing.T) {
	dims := GridSize{Width: 12, Height: 12}
	model := Model{Kind: LayoutCircle, Circle: &ArcParams{LEDCount: 8, Radius: 4}}
	cache := NewMappingCache(model, dims, nil)

	edited := model
	edited.Circle = &ArcParams{LEDCount: 8, Radius: 5}
	if cache.Matches(edited, dims) {
		t.Error("cache matched after a radius edit")
	}
	if cache.Matches(model, GridSize{Width: 13, Height: 12}) {
		t.Error("cache matched after a grid edit")
	}
	if !cache.Matches(model, dims) {
		t.Error("cache should match its own inputs")
	}
}

func TestMappingCacheLegacyTableFormat(t *testing.T) {
	// Older cache files stored the table as a flat [x0,y0,x1,y1,...] list.
	raw := []byte(`{
		"checksum": "00000000deadbeef",
		"grid": {"width": 4, "height": 4},
		"table": [0, 0, 1, 0, 3, 2],
		"lastUpdated": 1700000000
	}`)

	var cache MappingCache
	if err := json.Unmarshal(raw, &cache); err != nil {
		t.Fatalf("legacy unmarshal error = %v", err)
	}

	want := MappingTable{{0, 0}, {1, 0}, {3, 2}}
	if len(cache.Table) != len(want) {
		t.Fatalf("table length = %d, want %d", len(cache.Table), len(want))
	}
	for i := range want {
		if cache.Table[i] != want[i] {
			t.Errorf("table[%d] = %+v, want %+v", i, cache.Table[i], want[i])
		}
	}
	if cache.Checksum != "00000000deadbeef" || cache.Grid.Width != 4 {
		t.Errorf("envelope fields lost: %+v", cache)
	}
}

func TestMappingCacheLegacyOddLength(t *testing.T) {
	raw := []byte(`{"checksum": "x", "grid": {"width": 4, "height": 4}, "table": [0, 0, 1]}`)
	var cache MappingCache
	if err := json.Unmarshal(raw, &cache); err == nil {
		t.Error("odd-length legacy table should fail to unmarshal")
	}
}
