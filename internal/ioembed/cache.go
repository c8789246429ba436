package ioembed

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnsys"
)

// Cache is a persistent Badger v4 key-value store for embedding
// vectors. Keys combine the engine name with a hash of the embedded
// text, so switching models never reuses stale vectors. The cache
// survives between runs on purpose.
type Cache struct {
	dir string
	db  *badger.DB
}

// NewCache creates a cache manager at the specified directory,
// creating the directory if needed. Existing cached vectors are kept.
func NewCache(cacheDir string) (*Cache, error) {
	if err := gnsys.MakeDir(cacheDir); err != nil {
		slog.Error("Cannot create cache directory",
			"error", err, "dir", cacheDir)
		return nil, CacheError(err)
	}
	return &Cache{dir: cacheDir}, nil
}

// Open opens the Badger database of the cache.
func (c *Cache) Open() error {
	if c.db != nil {
		slog.Warn("Cache database is already open")
		return nil
	}

	options := badger.DefaultOptions(c.dir)
	options.Logger = nil // Disable badger's internal logging

	db, err := badger.Open(options)
	if err != nil {
		slog.Error("Cannot open cache database",
			"error", err, "dir", c.dir)
		return CacheError(err)
	}

	c.db = db
	return nil
}

// Close closes the Badger database.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	if err != nil {
		return CacheError(err)
	}
	return nil
}

// key builds the cache key of one text for one engine.
func key(engineName, text string) []byte {
	sum := sha256.Sum256([]byte(text))
	return []byte(engineName + "|" + hex.EncodeToString(sum[:]))
}

// Store saves a vector, encoded with GOB.
func (c *Cache) Store(engineName, text string, vec []float32) error {
	if c.db == nil {
		return CacheNotOpenError()
	}

	enc := gnfmt.GNgob{}
	valBytes, err := enc.Encode(vec)
	if err != nil {
		return CacheError(err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(engineName, text), valBytes)
	})
	if err != nil {
		return CacheError(err)
	}
	return nil
}

// Get retrieves a cached vector. Returns nil without error when the
// text has not been embedded by this engine yet.
func (c *Cache) Get(engineName, text string) ([]float32, error) {
	if c.db == nil {
		return nil, CacheNotOpenError()
	}

	var valBytes []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(engineName, text))
		if err == badger.ErrKeyNotFound {
			return nil // not an error, just not cached
		}
		if err != nil {
			return err
		}
		valBytes, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, CacheError(err)
	}
	if valBytes == nil {
		return nil, nil
	}

	enc := gnfmt.GNgob{}
	var vec []float32
	if err = enc.Decode(valBytes, &vec); err != nil {
		return nil, CacheError(err)
	}
	return vec, nil
}
