package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by entity type to avoid cross-entity collisions.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

func PageUUID(slug string) uuid.UUID {
	return UUID("pagelist:page:" + strings.ToLower(strings.TrimSpace(slug)))
}

func PostUUID(slug string) uuid.UUID {
	return UUID("pagelist:post:" + strings.ToLower(strings.TrimSpace(slug)))
}

func CategoryUUID(slug string) uuid.UUID {
	return UUID("pagelist:category:" + strings.ToLower(strings.TrimSpace(slug)))
}

func TagUUID(slug string) uuid.UUID {
	return UUID("pagelist:tag:" + strings.ToLower(strings.TrimSpace(slug)))
}

// MetaUUID keys a meta row by owner and meta key so re-seeding replaces it.
func MetaUUID(ownerID uuid.UUID, key string) uuid.UUID {
	return UUID("pagelist:meta:" + ownerID.String() + ":" + strings.TrimSpace(key))
}
