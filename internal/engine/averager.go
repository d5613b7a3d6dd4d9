package engine

// Averager is a running average over a stream of samples.
type Averager interface {
	Update(sample float64)
	Value() float64
}

// CMA is the cumulative moving average of every sample seen.
type CMA struct {
	value float64
	n     int
}

func (a *CMA) Update(sample float64) {
	a.n++
	a.value += (sample - a.value) / float64(a.n)
}

func (a *CMA) Value() float64 { return a.value }

// SMA is the simple moving average of the last N samples.
type SMA struct {
	size    int
	samples []float64
	value   float64
}

// NewSMA creates a moving average over size samples.
func NewSMA(size int) *SMA {
	if size < 1 {
		size = 1
	}
	return &SMA{size: size, samples: make([]float64, 0, size+1)}
}

func (a *SMA) Update(sample float64) {
	a.samples = append(a.samples, sample)
	if len(a.samples) <= a.size {
		a.value += (sample - a.value) / float64(len(a.samples))
		return
	}
	a.value += (sample - a.samples[0]) / float64(a.size)
	a.samples = append(a.samples[:0], a.samples[1:]...)
}

func (a *SMA) Value() float64 { return a.value }

// EMA is an exponential moving average. Alpha is the weight of the newest
// sample. The first sample seeds the average.
type EMA struct {
	Alpha  float64
	value  float64
	seeded bool
}

func (a *EMA) Update(sample float64) {
	if !a.seeded {
		a.value = sample
		a.seeded = true
		return
	}
	a.value = a.Alpha*sample + (1-a.Alpha)*a.value
}

func (a *EMA) Value() float64 { return a.value }
