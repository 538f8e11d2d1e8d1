package model

import "sync"

// ColumnPool recycles the scratch buffers a band uses to collect the next
// generation's columns for one row.
type ColumnPool struct {
	pool sync.Pool
}

func NewColumnPool() *ColumnPool {
	return &ColumnPool{
		pool: sync.Pool{
			New: func() interface{} {
				buf := make([]int, 0, 64)
				return &buf
			},
		},
	}
}

// Get retrieves an empty scratch buffer from the pool
func (p *ColumnPool) Get() *[]int {
	buf := p.pool.Get().(*[]int)
	*buf = (*buf)[:0]
	return buf
}

// Put returns a scratch buffer to the pool
func (p *ColumnPool) Put(buf *[]int) {
	if buf == nil {
		return
	}
	p.pool.Put(buf)
}

// columns is shared by every band of every Advance call
var columns = NewColumnPool()
