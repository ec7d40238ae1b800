package localstore

import "context"

// Keys of the persisted application state.
const (
	KeyGymDays            = "gymDays"
	KeyPlanInfo           = "planInfo"
	KeyNotifiedMilestones = "notifiedMilestones"
)

// Store persists opaque values under well-known keys. This is the local
// key-value store the record store writes its snapshots through.
type Store interface {
	// Get returns the stored value for key. ok is false when the key has
	// never been written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set writes the value for key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}
