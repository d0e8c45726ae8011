// Package cache persists the last page of messages per channel so a
// conversation can be drawn before the first remote fetch returns.
package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/peterbourgon/diskv/v3"

	"github.com/m96-chan/rivet/internal/model"
)

const keyPrefix = "messages-"

// Store is a disk-backed message cache. A nil *Store is valid and caches
// nothing.
type Store struct {
	d *diskv.Diskv
}

// New opens a cache rooted at dir. maxBytes bounds the in-memory layer.
func New(dir string, maxBytes uint64) *Store {
	return &Store{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: maxBytes,
	})}
}

func key(channelID string) string {
	return keyPrefix + channelID
}

// Load returns the cached page for a channel. Missing or unreadable
// entries report false.
func (s *Store) Load(channelID string) ([]model.Message, bool) {
	if s == nil || channelID == "" {
		return nil, false
	}
	data, err := s.d.Read(key(channelID))
	if err != nil {
		return nil, false
	}
	var msgs []model.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		slog.Warn("discarding corrupt cache entry", "channel", channelID, "error", err)
		_ = s.d.Erase(key(channelID))
		return nil, false
	}
	return msgs, true
}

// Put replaces the cached page for a channel.
func (s *Store) Put(channelID string, msgs []model.Message) error {
	if s == nil || channelID == "" {
		return nil
	}
	data, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("encoding messages: %w", err)
	}
	if err := s.d.Write(key(channelID), data); err != nil {
		return fmt.Errorf("writing cache for %s: %w", channelID, err)
	}
	return nil
}

// Clear removes every cached page.
func (s *Store) Clear() error {
	if s == nil {
		return nil
	}
	return s.d.EraseAll()
}
