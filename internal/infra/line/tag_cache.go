package line

import (
	"context"
	"sync"

	"university_line_bot/internal/domain/messaging"
)

// CachedTagDirectory memoizes successful tag resolutions by name in front of
// a remote directory. Tags are never deleted by this system, so entries need
// no expiry; failed resolutions are not cached, so a remote create failure
// leaves no stale entry behind.
type CachedTagDirectory struct {
	remote messaging.TagDirectory

	mu     sync.Mutex
	byName map[string]int64
}

func NewCachedTagDirectory(remote messaging.TagDirectory) *CachedTagDirectory {
	return &CachedTagDirectory{
		remote: remote,
		byName: make(map[string]int64),
	}
}

// ResolveOrCreateTag implements messaging.TagDirectory. The lock is held
// across the remote call on a miss: serializing resolutions is what closes
// the duplicate-create race when two users pick the same faculty for the
// first time at once. Hits return without any remote round trip.
func (d *CachedTagDirectory) ResolveOrCreateTag(ctx context.Context, name string) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if id, ok := d.byName[name]; ok {
		return id, nil
	}
	id, err := d.remote.ResolveOrCreateTag(ctx, name)
	if err != nil {
		return 0, err
	}
	d.byName[name] = id
	return id, nil
}

// AttachTag implements messaging.TagDirectory by delegating to the remote.
func (d *CachedTagDirectory) AttachTag(ctx context.Context, lineUserID string, tagID int64) error {
	return d.remote.AttachTag(ctx, lineUserID, tagID)
}
