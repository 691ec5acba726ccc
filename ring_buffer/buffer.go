package ring_buffer

type bufImpl struct {
	buffer []int16
	head   int
	filled bool
}

// New returns a buffer that keeps the last size samples written to it.
func New(size int) Interface {
	if size < 1 {
		size = 1
	}

	return &bufImpl{
		buffer: make([]int16, size),
	}
}

func (r *bufImpl) Add(samples []int16) {
	for _, s := range samples {
		r.buffer[r.head] = s
		r.head = (r.head + 1) % len(r.buffer)

		if r.head == 0 {
			r.filled = true
		}
	}
}

// Read returns the buffered samples oldest first. Slots never written are not returned.
func (r *bufImpl) Read() []int16 {
	if !r.filled {
		samples := make([]int16, r.head)
		copy(samples, r.buffer[:r.head])

		return samples
	}

	samples := make([]int16, len(r.buffer))
	for i := 0; i < len(r.buffer); i++ {
		samples[i] = r.buffer[(r.head+i)%len(r.buffer)]
	}

	return samples
}

func (r *bufImpl) Len() int {
	if r.filled {
		return len(r.buffer)
	}

	return r.head
}

func (r *bufImpl) Clear() {
	for i := 0; i < len(r.buffer); i++ {
		r.buffer[i] = 0
	}

	r.head = 0
	r.filled = false
}
