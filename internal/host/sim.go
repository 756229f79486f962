package host

// Sim is an in-memory host with a virtual clock. Containers added with
// AddContainer fill the viewport and follow Resize.
type Sim struct {
	Queue
	Bus

	width, height int
	pixelRatio    float64
	pageVisible   bool
	containers    map[string]*Container
}

func NewSim(width, height int) *Sim {
	return &Sim{
		width:       width,
		height:      height,
		pixelRatio:  1,
		pageVisible: true,
		containers:  make(map[string]*Container),
	}
}

func (s *Sim) AddContainer(id string) *Container {
	c := NewContainer(id, Rect{W: float64(s.width), H: float64(s.height)})
	s.containers[id] = c
	return c
}

func (s *Sim) RemoveContainer(id string) { delete(s.containers, id) }

// Container returns nil when no element has that id.
func (s *Sim) Container(id string) *Container { return s.containers[id] }

func (s *Sim) PageVisible() bool             { return s.pageVisible }
func (s *Sim) DevicePixelRatio() float64     { return s.pixelRatio }
func (s *Sim) SetDevicePixelRatio(r float64) { s.pixelRatio = r }
func (s *Sim) Viewport() (w, h int)          { return s.width, s.height }

func (s *Sim) SetPageVisible(v bool) {
	s.pageVisible = v
	s.Emit(Visibility{Visible: v})
}

func (s *Sim) Resize(w, h int) {
	s.width, s.height = w, h
	for _, c := range s.containers {
		c.Rect.W, c.Rect.H = float64(w), float64(h)
	}
	s.Emit(Resize{Width: w, Height: h})
	s.intersect()
}

// Scroll moves a container vertically by dy pixels.
func (s *Sim) Scroll(id string, dy float64) {
	if c, ok := s.containers[id]; ok {
		c.Rect.Y += dy
		s.intersect()
	}
}

func (s *Sim) PageShow(persisted bool) { s.Emit(PageShow{Persisted: persisted}) }
func (s *Sim) PageHide(persisted bool) { s.Emit(PageHide{Persisted: persisted}) }
func (s *Sim) Unload(backForward bool) { s.Emit(Unload{BackForward: backForward}) }

// Step advances the virtual clock by dt ms and pumps the queue.
func (s *Sim) Step(dt float64) {
	s.intersect()
	s.Pump(s.Now() + dt)
}

// Run steps at hz frames per second for ms milliseconds.
func (s *Sim) Run(ms, hz float64) {
	step := 1000 / hz
	end := s.Now() + ms
	for s.Now()+step <= end+1e-9 {
		s.Step(step)
	}
}

func (s *Sim) intersect() {
	vw, vh := float64(s.width), float64(s.height)
	s.Intersect(func(c *Container, opts ObserverOptions) bool {
		return c.Intersects(vw, vh, opts)
	})
}
