package policy

import "context"

// Actor is the resolved identity initiating an action. A nil *Actor means
// the request is anonymous. Credential decoding happens upstream; policies
// only ever see the resolved id and active flag.
type Actor struct {
	ID       int64
	IsActive bool
}

// AdminDirectory reports administrator membership. The designated
// super-admin holds no membership row and is handled by the policies
// themselves.
type AdminDirectory interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}
