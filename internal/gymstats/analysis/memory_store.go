package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/coocood/freecache"
)

const (
	// value prefixes: a whole payload, or the chunk count of a split one
	entryWhole  byte = 'W'
	entryChunks byte = 'C'

	// room left in every entry for freecache's header and the chunk key
	entryOverhead = 128
)

// MemoryStore keeps results in an in-process freecache, for single instance
// deployments and the CLI. freecache refuses entries larger than 1/1024 of
// the cache, so long sessions are split over several chunk entries.
type MemoryStore struct {
	cache     *freecache.Cache
	chunkSize int
}

func NewMemoryStore(cacheSizeMegabytes int) *MemoryStore {
	size := cacheSizeMegabytes * 1024 * 1024
	return &MemoryStore{
		cache:     freecache.NewCache(size),
		chunkSize: size/1024 - entryOverhead,
	}
}

func (s *MemoryStore) Save(_ context.Context, result *Result, ttl time.Duration) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	expire := int(ttl.Seconds())

	if len(payload) < s.chunkSize {
		value := append([]byte{entryWhole}, payload...)
		if err := s.cache.Set([]byte(result.ID), value, expire); err != nil {
			return fmt.Errorf("cache set: %w", err)
		}
		return nil
	}

	chunks := 0
	for start := 0; start < len(payload); start += s.chunkSize {
		end := min(start+s.chunkSize, len(payload))
		if err := s.cache.Set(chunkKey(result.ID, chunks), payload[start:end], expire); err != nil {
			return fmt.Errorf("cache set chunk %d: %w", chunks, err)
		}
		chunks++
	}

	// the index goes in last, a reader never sees a partial result
	index := append([]byte{entryChunks}, strconv.Itoa(chunks)...)
	if err := s.cache.Set([]byte(result.ID), index, expire); err != nil {
		return fmt.Errorf("cache set index: %w", err)
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Result, error) {
	value, err := s.cache.Get([]byte(id))
	if err != nil {
		if errors.Is(err, freecache.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(value) == 0 {
		return nil, fmt.Errorf("cache get: empty entry for %s", id)
	}

	var payload []byte
	switch value[0] {
	case entryWhole:
		payload = value[1:]
	case entryChunks:
		if payload, err = s.joinChunks(id, value[1:]); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("cache get: unknown entry kind %q", value[0])
	}

	result := &Result{}
	if err := json.Unmarshal(payload, result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return result, nil
}

func (s *MemoryStore) joinChunks(id string, index []byte) ([]byte, error) {
	chunks, err := strconv.Atoi(string(index))
	if err != nil {
		return nil, fmt.Errorf("cache get: bad chunk index: %w", err)
	}

	var buf bytes.Buffer
	for i := 0; i < chunks; i++ {
		chunk, err := s.cache.Get(chunkKey(id, i))
		if err != nil {
			if errors.Is(err, freecache.ErrNotFound) {
				// evicted under memory pressure
				return nil, fmt.Errorf("%w: chunk %d of %s evicted", ErrNotFound, i, id)
			}
			return nil, fmt.Errorf("cache get chunk %d: %w", i, err)
		}
		buf.Write(chunk)
	}
	return buf.Bytes(), nil
}

// Len is the number of cache entries, chunks included.
func (s *MemoryStore) Len() int64 {
	return s.cache.EntryCount()
}

func chunkKey(id string, i int) []byte {
	return []byte(id + "#" + strconv.Itoa(i))
}
