package rawdata

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Payload is a raw provider response archived for audit and replay.
type Payload struct {
	Source          string
	EntityType      string
	EntityKey       string
	PayloadJSON     string
	PayloadHash     string
	SourceUpdatedAt *time.Time
}

func NewPayload(source, entityType, entityKey string, raw []byte, fetchedAt time.Time) Payload {
	sum := sha256.Sum256(raw)
	var updatedAt *time.Time
	if !fetchedAt.IsZero() {
		v := fetchedAt.UTC()
		updatedAt = &v
	}
	return Payload{
		Source:          strings.TrimSpace(source),
		EntityType:      strings.TrimSpace(entityType),
		EntityKey:       strings.TrimSpace(entityKey),
		PayloadJSON:     string(raw),
		PayloadHash:     hex.EncodeToString(sum[:]),
		SourceUpdatedAt: updatedAt,
	}
}
