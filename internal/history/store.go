package history

import "context"

// Store persists one History per user id.
//
// Load never reports a missing key: first contact is resolved by writing the
// seed history and returning it, so callers see every user as already
// initialized. Save overwrites the whole value, last writer wins; if
// conditional writes are ever needed the interface grows an expected-revision
// argument, the call sites already thread the loaded value back into Save.
type Store interface {
	Load(ctx context.Context, userID string) (History, error)
	Save(ctx context.Context, userID string, h History) error
}
