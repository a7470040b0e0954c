package tui

// sparkBlocks maps eight levels to Unicode block elements.
var sparkBlocks = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// History keeps the most recent samples of a percentage in a fixed-size ring.
type History struct {
	data  []float64
	head  int
	count int
}

// NewHistory creates a history holding up to size samples (at least one).
func NewHistory(size int) *History {
	return &History{data: make([]float64, max(size, 1))}
}

// Push appends a sample, dropping the oldest one when full.
func (h *History) Push(v float64) {
	h.data[h.head] = v
	h.head = (h.head + 1) % len(h.data)
	h.count = min(h.count+1, len(h.data))
}

// Len returns the number of stored samples.
func (h *History) Len() int { return h.count }

// Last returns the newest sample, or 0 when empty.
func (h *History) Last() float64 {
	if h.count == 0 {
		return 0
	}
	return h.data[(h.head-1+len(h.data))%len(h.data)]
}

// Values returns the samples oldest first.
func (h *History) Values() []float64 {
	out := make([]float64, h.count)
	start := (h.head - h.count + len(h.data)) % len(h.data)
	for i := range out {
		out[i] = h.data[(start+i)%len(h.data)]
	}
	return out
}

// RenderSparkline renders percentages (0..100) as Unicode block characters.
func RenderSparkline(values []float64) string {
	runes := make([]rune, len(values))
	for i, v := range values {
		v = min(max(v, 0), 100)
		runes[i] = sparkBlocks[min(int(v/100*7), 7)]
	}
	return string(runes)
}
