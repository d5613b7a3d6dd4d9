package event

// payload carries one published event through dispatch. The value is boxed
// exactly once per publish and handed to handlers as *T.
type payload struct {
	tag  Tag
	name string

	value    any
	zero     func()
	released bool
}

func newPayload[T any](info typeInfo, ev T) *payload {
	box := new(T)
	*box = ev
	return &payload{
		tag:   info.tag,
		name:  info.name,
		value: box,
		zero: func() {
			var z T
			*box = z
		},
	}
}

// release zeroes the boxed value and drops it. A payload is released exactly
// once, after the last handler has returned.
func (p *payload) release() {
	if p.released {
		panic(ErrPayloadReleased)
	}
	p.released = true
	p.zero()
	p.zero = nil
	p.value = nil
}
