// pkg/mapdata/store.go
// Copyright(c) 2024-2026 routeforge contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package mapdata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/drivebench/routeforge/pkg/log"
)

// Version history:
// 1: initial format: road/parking arrays mirroring the old pickle layout
// 2: unified LanePoint array with kind bitmask, yaw per point
const SerializeVersion = 2

const fileSuffix = ".msgpack.zst"

var (
	// ErrMapDataMissing reports that the map-data directory itself is
	// absent; callers treat this differently from an unreachable
	// simulator, so keep the two conditions as distinct errors.
	ErrMapDataMissing = errors.New("Map data directory does not exist; run mapingest first")

	ErrUnknownMap      = errors.New("No map data for requested map")
	ErrVersionMismatch = errors.New("Map data file has incompatible version")
)

// mapFile is the on-disk wrapper; Version is checked on read so that
// stale files from before a format change fail cleanly rather than
// decoding into garbage.
type mapFile struct {
	Version int
	Data    MapData
}

// Store loads per-map data files from a directory, keeping recently used
// maps decoded in memory. Decoding a large town takes long enough to be
// annoying when the user flips between maps, hence the LRU.
type Store struct {
	dir   string
	cache *expirable.LRU[string, *MapData]
	lg    *log.Logger
}

func NewStore(dir string, lg *log.Logger) (*Store, error) {
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return nil, ErrMapDataMissing
	}
	return &Store{
		dir:   dir,
		cache: expirable.NewLRU[string, *MapData](32, nil, 4*time.Hour),
		lg:    lg,
	}, nil
}

// Available returns the names of the maps with data files in the store's
// directory, sorted by filename.
func (s *Store) Available() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), fileSuffix) {
			names = append(names, strings.TrimSuffix(e.Name(), fileSuffix))
		}
	}
	return names, nil
}

// Load returns the data for the named map, decoding it from disk if it
// isn't cached.
func (s *Store) Load(name string) (*MapData, error) {
	if md, ok := s.cache.Get(name); ok {
		return md, nil
	}

	start := time.Now()
	md, err := ReadFile(filepath.Join(s.dir, name+fileSuffix))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", name, ErrUnknownMap)
		}
		return nil, err
	}
	s.lg.Infof("%s: loaded map data, %d lane points in %s", name, len(md.Lanes),
		time.Since(start))

	s.cache.Add(name, md)
	return md, nil
}

// ReadFile decodes a single map-data file.
func ReadFile(path string) (*MapData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var mf mapFile
	if err := msgpack.NewDecoder(zr).Decode(&mf); err != nil {
		return nil, err
	}
	if mf.Version != SerializeVersion {
		return nil, fmt.Errorf("%s: version %d: %w", path, mf.Version, ErrVersionMismatch)
	}
	return &mf.Data, nil
}

// WriteFile encodes md into dir, named after the map.
func WriteFile(dir string, md *MapData) error {
	path := filepath.Join(dir, md.Name+fileSuffix)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}

	mf := mapFile{Version: SerializeVersion, Data: *md}
	if err := msgpack.NewEncoder(zw).Encode(&mf); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
