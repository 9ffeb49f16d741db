// Package cache is a persistent, content-addressed store of previously
// rendered page markup. Entries are keyed by a hash of the page's URL path
// and namespaced by host, so identical paths on different sites never
// collide. Entries never expire and the last writer wins; concurrent
// requests racing on a cold key may both fetch and both write, which is
// duplicate work but not corruption.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

// PageCache is the storage contract used by the page acquirer.
// Implementations must be safe for concurrent use.
type PageCache interface {
	// Get returns the cached markup for (host, key), and whether it exists.
	Get(host, key string) (string, bool, error)

	// Set stores markup under (host, key), overwriting any previous entry.
	Set(host, key, markup string) error

	// Close releases the underlying store.
	Close() error
}

// Key derives the cache key for an address: the hex-encoded SHA-256 digest
// of its path component. Query and fragment are ignored so that addresses
// differing only in query share an entry within a host.
func Key(addr *url.URL) string {
	sum := sha256.Sum256([]byte(addr.Path))
	return hex.EncodeToString(sum[:])
}

// BadgerCache implements PageCache on a BadgerDB store.
type BadgerCache struct {
	db  *badger.DB
	log logrus.FieldLogger
}

// NewBadgerCache opens (or creates) the cache at the given path.
func NewBadgerCache(path string, logger logrus.FieldLogger) (*BadgerCache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = &badgerLogger{logger.WithField("component", "badger")}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open page cache at %s: %w", path, err)
	}

	return &BadgerCache{
		db:  db,
		log: logger.WithField("component", "cache"),
	}, nil
}

// Close closes the underlying BadgerDB.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}

// entryKey namespaces a page key by its host.
func entryKey(host, key string) []byte {
	return []byte(fmt.Sprintf("page:%s:%s", host, key))
}

// Get returns the cached markup for (host, key).
func (c *BadgerCache) Get(host, key string) (string, bool, error) {
	var markup []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entryKey(host, key))
		if err != nil {
			return err
		}
		markup, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cache entry %s/%s: %w", host, key, err)
	}

	c.log.WithFields(logrus.Fields{"host": host, "key": key}).Debug("cache hit")
	return string(markup), true, nil
}

// Set stores markup under (host, key). Existing entries are overwritten.
func (c *BadgerCache) Set(host, key, markup string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(entryKey(host, key), []byte(markup)))
	})
	if err != nil {
		return fmt.Errorf("failed to write cache entry %s/%s: %w", host, key, err)
	}

	c.log.WithFields(logrus.Fields{
		"host":  host,
		"key":   key,
		"bytes": len(markup),
	}).Debug("cache entry stored")
	return nil
}

// badgerLogger adapts logrus.FieldLogger to Badger's logger interface.
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{})   { l.logger.Errorf(f, v...) }
func (l *badgerLogger) Warningf(f string, v ...interface{}) { l.logger.Warningf(f, v...) }
func (l *badgerLogger) Infof(f string, v ...interface{})    { l.logger.Debugf(f, v...) }
func (l *badgerLogger) Debugf(f string, v ...interface{})   { l.logger.Debugf(f, v...) }
