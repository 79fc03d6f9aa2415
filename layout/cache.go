package layout

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"time"
)

// MappingCache persists a generated mapping table alongside a checksum of
// the (geometry, grid) pair that produced it, so rapid parameter edits only
// rebuild the table when the inputs actually changed.
type MappingCache struct {
	Checksum    string       `json:"checksum"`
	Grid        GridSize     `json:"grid"`
	Table       MappingTable `json:"table"`
	LastUpdated int64        `json:"lastUpdated"`
}

// ModelChecksum hashes the geometry model and grid size. Two checksums are
// equal iff the serialized configurations are equal, which is sufficient
// because BuildMappingTable is a pure function of (model, dims).
func ModelChecksum(model Model, dims GridSize) string {
	h := fnv.New64a()
	enc := json.NewEncoder(h)
	// Encoding Model and GridSize cannot fail: all fields are plain data.
	_ = enc.Encode(model)
	_ = enc.Encode(dims)
	return fmt.Sprintf("%016x", h.Sum64())
}

// NewMappingCache builds a cache entry for a freshly generated table
func NewMappingCache(model Model, dims GridSize, table MappingTable) *MappingCache {
	return &MappingCache{
		Checksum:    ModelChecksum(model, dims),
		Grid:        dims,
		Table:       table,
		LastUpdated: time.Now().Unix(),
	}
}

// Matches reports whether the cache was generated from the same geometry
// and grid
func (c *MappingCache) Matches(model Model, dims GridSize) bool {
	return c.Checksum == ModelChecksum(model, dims) && c.Grid == dims
}

// UnmarshalJSON provides backward compatibility with old cache files where
// Table was a flat integer list [x0,y0,x1,y1,...]. It probes the raw JSON
// and falls back to the legacy decoding when the first table element is a
// number rather than an object.
func (c *MappingCache) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Checksum    string            `json:"checksum"`
		Grid        GridSize          `json:"grid"`
		Table       []json.RawMessage `json:"table"`
		LastUpdated int64             `json:"lastUpdated"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	c.Checksum = envelope.Checksum
	c.Grid = envelope.Grid
	c.LastUpdated = envelope.LastUpdated

	if len(envelope.Table) == 0 {
		c.Table = nil
		return nil
	}

	// Probe the first element: objects are the current format.
	var probe Coord
	if err := json.Unmarshal(envelope.Table[0], &probe); err == nil {
		c.Table = make(MappingTable, 0, len(envelope.Table))
		for i, raw := range envelope.Table {
			var coord Coord
			if err := json.Unmarshal(raw, &coord); err != nil {
				return fmt.Errorf("table[%d]: %w", i, err)
			}
			c.Table = append(c.Table, coord)
		}
		return nil
	}

	// Legacy format: flat [x0,y0,x1,y1,...].
	if len(envelope.Table)%2 != 0 {
		return fmt.Errorf("legacy table has odd length %d", len(envelope.Table))
	}
	c.Table = make(MappingTable, 0, len(envelope.Table)/2)
	for i := 0; i < len(envelope.Table); i += 2 {
		var x, y int
		if err := json.Unmarshal(envelope.Table[i], &x); err != nil {
			return fmt.Errorf("legacy table[%d]: %w", i, err)
		}
		if err := json.Unmarshal(envelope.Table[i+1], &y); err != nil {
			return fmt.Errorf("legacy table[%d]: %w", i+1, err)
		}
		c.Table = append(c.Table, Coord{X: x, Y: y})
	}
	return nil
}

// LoadMappingCache reads a cache file. A missing file returns (nil, nil)
// so callers can treat it as a cold cache.
func LoadMappingCache(path string) (*MappingCache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading mapping cache: %w", err)
	}

	var cache MappingCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("parsing mapping cache: %w", err)
	}
	return &cache, nil
}

// SaveMappingCache writes the cache file
func SaveMappingCache(path string, cache *MappingCache) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling mapping cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing mapping cache: %w", err)
	}
	return nil
}
