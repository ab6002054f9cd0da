package progress

import (
	"hash/fnv"
	"sync"
)

// userLocks serializes read-modify-write access to a user's record. Locks
// are striped by a hash of the user id so the table stays bounded no matter
// how many users the process serves; two users sharing a stripe merely
// contend, they never corrupt each other's state.
type userLocks struct {
	stripes [64]sync.Mutex
}

func (l *userLocks) forUser(userID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return &l.stripes[h.Sum32()%uint32(len(l.stripes))]
}
