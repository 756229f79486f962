package host

type listener struct {
	id uint64
	fn func(Event)
}

type observer struct {
	id        uint64
	container *Container
	opts      ObserverOptions
	fn        func(visible bool)
	last      bool
	fired     bool
}

// Bus fans page events out to listeners and intersection changes out to
// observers.
type Bus struct {
	next      uint64
	listeners []listener
	observers []*observer
}

// Listen registers fn for every event. The returned func removes it and
// is safe to call more than once.
func (b *Bus) Listen(fn func(Event)) (remove func()) {
	b.next++
	id := b.next
	b.listeners = append(b.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range b.listeners {
			if l.id == id {
				b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

func (b *Bus) Emit(ev Event) {
	ls := make([]listener, len(b.listeners))
	copy(ls, b.listeners)
	for _, l := range ls {
		l.fn(ev)
	}
}

func (b *Bus) Listeners() int { return len(b.listeners) }
func (b *Bus) Observers() int { return len(b.observers) }

// Observe watches c's intersection with the viewport. fn is called when
// the visible state changes; the first evaluation always reports.
func (b *Bus) Observe(c *Container, opts ObserverOptions, fn func(visible bool)) (disconnect func()) {
	b.next++
	o := &observer{id: b.next, container: c, opts: opts, fn: fn}
	b.observers = append(b.observers, o)
	return func() {
		for i, x := range b.observers {
			if x == o {
				b.observers = append(b.observers[:i], b.observers[i+1:]...)
				return
			}
		}
	}
}

// Intersect evaluates every observer with visible and notifies those whose
// state changed.
func (b *Bus) Intersect(visible func(c *Container, opts ObserverOptions) bool) {
	obs := make([]*observer, len(b.observers))
	copy(obs, b.observers)
	for _, o := range obs {
		v := visible(o.container, o.opts)
		if o.fired && v == o.last {
			continue
		}
		o.fired = true
		o.last = v
		o.fn(v)
	}
}
