package usecases

import (
	"hash/fnv"
	"sync"
)

const phoneLockStripes = 64

// phoneLocks serializes work on one phone without a mutex per phone
type phoneLocks [phoneLockStripes]sync.Mutex

func (l *phoneLocks) lock(phone string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(phone))
	mu := &l[h.Sum32()%phoneLockStripes]
	mu.Lock()
	return mu.Unlock
}
