package ring_buffer

// Interface keeps the audio heard just before speech is detected, so the
// first syllables of a phrase are not lost.
type Interface interface {
	Add(samples []int16)
	Read() []int16
	Len() int
	Clear()
}
