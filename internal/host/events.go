package host

// Event is a page-level notification delivered to listeners.
type Event interface{ event() }

// Resize reports new viewport dimensions in CSS pixels.
type Resize struct{ Width, Height int }

// Visibility reports a document visibility change.
type Visibility struct{ Visible bool }

// PageShow fires when a page is shown. Persisted is set when it was
// restored from the back/forward cache.
type PageShow struct{ Persisted bool }

// PageHide fires when a page is hidden by navigation. Persisted is set when
// the page is going into the back/forward cache.
type PageHide struct{ Persisted bool }

// Unload fires before the page goes away. BackForward is set for history
// navigations that may restore the page later.
type Unload struct{ BackForward bool }

func (Resize) event()     {}
func (Visibility) event() {}
func (PageShow) event()   {}
func (PageHide) event()   {}
func (Unload) event()     {}

// ObserverOptions mirror the viewport intersection settings: Margin grows
// the viewport by that many pixels on every side and Threshold is the
// fraction of the container that must intersect.
type ObserverOptions struct {
	Margin    float64
	Threshold float64
}

// DefaultObserver is the pre-roll used for the background container.
var DefaultObserver = ObserverOptions{Margin: 50, Threshold: 0.1}
