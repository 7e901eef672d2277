package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

type CacheNamespace string

const (
	NamespaceResume CacheNamespace = "resume"
	NamespaceJD     CacheNamespace = "jd"
)

// CacheEntry stores one artifact per (namespace, text). ContentHash indexes the
// text; lookups still compare Text so the key is the literal content.
type CacheEntry struct {
	ID          uint           `gorm:"primaryKey" json:"-"`
	Namespace   CacheNamespace `gorm:"type:text;not null;uniqueIndex:idx_cache_ns_hash" json:"namespace"`
	ContentHash string         `gorm:"type:char(64);not null;uniqueIndex:idx_cache_ns_hash" json:"content_hash"`
	Text        string         `gorm:"type:text;not null" json:"text"`
	Artifact    Artifact       `gorm:"type:jsonb;serializer:json" json:"artifact"`
	CreatedAt   time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CacheEntry) TableName() string {
	return "content_cache_entries"
}

// ContentHash is the hex SHA-256 of text, used as the index column for cache rows
// and as the seed of content-addressed IDs.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
