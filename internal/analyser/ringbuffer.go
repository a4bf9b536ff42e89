package analyser

import "sync"

// ringBuffer is a thread-safe circular sample buffer.
type ringBuffer struct {
	buf  []float32
	size int
	w    int // write position
	len  int // current fill level
	mu   sync.Mutex
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		buf:  make([]float32, size),
		size: size,
	}
}

// write appends samples, overwriting the oldest once full.
func (rb *ringBuffer) write(p []float32) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if len(p) > rb.size {
		p = p[len(p)-rb.size:]
	}
	for _, s := range p {
		rb.buf[rb.w] = s
		rb.w = (rb.w + 1) % rb.size
	}
	rb.len += len(p)
	if rb.len > rb.size {
		rb.len = rb.size
	}
}

// latest copies the most recent samples into the tail of dst and returns
// how many were available. The head of dst is left untouched.
func (rb *ringBuffer) latest(dst []float32) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	n := len(dst)
	if n > rb.len {
		n = rb.len
	}
	start := (rb.w - n + rb.size) % rb.size
	off := len(dst) - n
	for i := range n {
		dst[off+i] = rb.buf[(start+i)%rb.size]
	}
	return n
}
