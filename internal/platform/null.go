package platform

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/hermes/internal/event"
	"github.com/dshills/hermes/internal/event/events"
)

// Cell is one character cell of a Null surface.
type Cell struct {
	Text  string
	Style Style
}

// Null is an in-memory Backend for tests and headless runs. Events are
// queued with Inject and published on the next Pump.
type Null struct {
	width, height int
	cells         []Cell
	queue         []func(*event.Bus)

	initialized bool
	presented   int
}

// NewNull creates a Null surface of the given size.
func NewNull(width, height int) *Null {
	n := &Null{}
	n.resize(width, height)
	return n
}

func (n *Null) resize(width, height int) {
	n.width, n.height = width, height
	n.cells = make([]Cell, width*height)
	n.Clear()
}

func (n *Null) Init() error {
	n.initialized = true
	return nil
}

func (n *Null) Shutdown() {
	n.initialized = false
}

func (n *Null) Size() (int, int) {
	return n.width, n.height
}

func (n *Null) Clear() {
	for i := range n.cells {
		n.cells[i] = Cell{Text: " "}
	}
}

func (n *Null) Print(x, y int, text string, style Style) {
	forEachCluster(text, func(cluster string, width int) {
		n.set(x, y, Cell{Text: cluster, Style: style})
		// Wide clusters own the cells they cover.
		for i := 1; i < width; i++ {
			n.set(x+i, y, Cell{Style: style})
		}
		x += width
	})
}

func (n *Null) set(x, y int, c Cell) {
	if x >= 0 && x < n.width && y >= 0 && y < n.height {
		n.cells[y*n.width+x] = c
	}
}

func (n *Null) Present() {
	n.presented++
}

func (n *Null) Pump(bus *event.Bus) int {
	queued := n.queue
	n.queue = nil
	for _, fn := range queued {
		fn(bus)
	}
	return len(queued)
}

// Inject queues ev to be published, preceded by events.Raw, on the next
// Pump.
func Inject[T any](n *Null, ev T) {
	n.queue = append(n.queue, func(bus *event.Bus) {
		event.Publish(bus, events.Raw{Native: ev})
		event.Publish(bus, ev)
	})
}

// Resize changes the surface size and queues an events.Resize.
func (n *Null) Resize(width, height int) {
	n.resize(width, height)
	Inject(n, events.Resize{Width: width, Height: height})
}

// Cell returns the cell at x, y.
func (n *Null) Cell(x, y int) Cell {
	if x < 0 || x >= n.width || y < 0 || y >= n.height {
		return Cell{}
	}
	return n.cells[y*n.width+x]
}

// Row returns line y with trailing blanks removed.
func (n *Null) Row(y int) string {
	if y < 0 || y >= n.height {
		return ""
	}
	var sb strings.Builder
	for _, c := range n.cells[y*n.width : (y+1)*n.width] {
		sb.WriteString(c.Text)
	}
	return strings.TrimRight(sb.String(), " ")
}

// Contains reports whether any row contains s.
func (n *Null) Contains(s string) bool {
	for y := range n.height {
		if strings.Contains(n.Row(y), s) {
			return true
		}
	}
	return false
}

// Presented returns how many times Present was called.
func (n *Null) Presented() int {
	return n.presented
}

// Initialized reports whether Init has been called without Shutdown.
func (n *Null) Initialized() bool {
	return n.initialized
}

// forEachCluster calls fn for each grapheme cluster of s with its display
// width. Zero-width clusters are skipped.
func forEachCluster(s string, fn func(cluster string, width int)) {
	state := -1
	for len(s) > 0 {
		var cluster string
		var width int
		cluster, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
		if width == 0 {
			continue
		}
		fn(cluster, width)
	}
}
