package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mhashir/textrack/internal/storage"
)

// identityKey is where the session stamp lives in local storage.
const identityKey = "textrack_user_id"

// Identity returns the persisted session stamp, generating and storing one
// on first run. Uniqueness is best-effort randomness; there is no central
// allocator and collisions are accepted as negligible at this scale.
func Identity(ctx context.Context, kv storage.KV) (string, error) {
	existing, ok, err := kv.Get(ctx, identityKey)
	if err != nil {
		return "", fmt.Errorf("load session identity: %w", err)
	}
	if ok && existing != "" {
		return existing, nil
	}

	id := "user_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:7]
	if err := kv.Set(ctx, identityKey, id); err != nil {
		return "", fmt.Errorf("persist session identity: %w", err)
	}

	return id, nil
}
