package host

// Surface is a drawing surface a backend mounts into a container.
type Surface interface {
	Size() (w, h int)
}

// Rect is a container's box in viewport coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Container is the element the background renders into.
type Container struct {
	ID   string
	Rect Rect

	children []Surface
}

func NewContainer(id string, r Rect) *Container {
	return &Container{ID: id, Rect: r}
}

func (c *Container) Append(s Surface) { c.children = append(c.children, s) }

// Remove detaches s and reports whether it was mounted.
func (c *Container) Remove(s Surface) bool {
	for i, x := range c.children {
		if x == s {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Container) Contains(s Surface) bool {
	for _, x := range c.children {
		if x == s {
			return true
		}
	}
	return false
}

func (c *Container) Len() int    { return len(c.children) }
func (c *Container) Empty() bool { return len(c.children) == 0 }
func (c *Container) Size() (w, h int) {
	return int(c.Rect.W), int(c.Rect.H)
}

// Intersects reports whether at least opts.Threshold of the container's
// area lies inside a vw×vh viewport grown by opts.Margin.
func (c *Container) Intersects(vw, vh float64, opts ObserverOptions) bool {
	area := c.Rect.W * c.Rect.H
	if area <= 0 {
		return false
	}
	x0 := max(c.Rect.X, -opts.Margin)
	y0 := max(c.Rect.Y, -opts.Margin)
	x1 := min(c.Rect.X+c.Rect.W, vw+opts.Margin)
	y1 := min(c.Rect.Y+c.Rect.H, vh+opts.Margin)
	if x1 <= x0 || y1 <= y0 {
		return false
	}
	return (x1-x0)*(y1-y0) >= opts.Threshold*area
}
