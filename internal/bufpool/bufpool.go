// Package bufpool pools the byte buffers legacymsg.PreImage uses for the
// UTF-16-low-byte transform, which runs for every message whose hash is
// computed. Legacy-JSON re-serialization allocates its own buffers.
package bufpool

import (
	"bytes"
	"sync"
)

const maxPooledCap = 1 << 20 // 1MiB; buffers larger than this are not returned to the pool

var pool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

// Get acquires a reset, ready-to-use buffer.
func Get() *bytes.Buffer {
	return pool.Get().(*bytes.Buffer)
}

// Put returns b to the pool unless it has grown unreasonably large.
func Put(b *bytes.Buffer) {
	if b == nil {
		return
	}
	if b.Cap() > maxPooledCap {
		return
	}
	b.Reset()
	pool.Put(b)
}
