package lifecycle_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/terrainbg/internal/compute"
	"github.com/san-kum/terrainbg/internal/config"
	"github.com/san-kum/terrainbg/internal/host"
	"github.com/san-kum/terrainbg/internal/lifecycle"
	"github.com/san-kum/terrainbg/internal/quality"
)

const containerID = "terrain-container"

var _ = Describe("Manager", func() {
	var (
		sim     *host.Sim
		built   []*fakeBackend
		prepare func(*fakeBackend)
		m       *lifecycle.Manager
		tier    quality.Tier
	)

	last := func() *fakeBackend { return built[len(built)-1] }

	newManager := func() *lifecycle.Manager {
		return lifecycle.New(sim, lifecycle.Options{
			ContainerID: containerID,
			Render:      config.Resolve(tier),
			Backend: func() compute.Backend {
				b := &fakeBackend{}
				if prepare != nil {
					prepare(b)
				}
				built = append(built, b)
				return b
			},
		})
	}

	BeforeEach(func() {
		sim = host.NewSim(800, 600)
		built = nil
		prepare = nil
		tier = quality.High
	})

	JustBeforeEach(func() {
		m = newManager()
	})

	Describe("Initialize", func() {
		var c *host.Container

		BeforeEach(func() {
			c = sim.AddContainer(containerID)
		})

		It("mounts one surface and starts the loop", func() {
			Expect(m.Initialize()).To(Succeed())
			Expect(m.State()).To(Equal(lifecycle.Running))
			Expect(c.Len()).To(Equal(1))
			Expect(m.Running()).To(BeTrue())
			Expect(sim.Listeners()).To(Equal(1))
			Expect(sim.Observers()).To(Equal(1))

			sim.Run(1000, 60)
			Expect(last().renders).To(BeNumerically("~", 59, 2))
		})

		It("is idempotent", func() {
			Expect(m.Initialize()).To(Succeed())
			listeners, observers := sim.Listeners(), sim.Observers()

			Expect(m.Initialize()).To(Succeed())
			Expect(built).To(HaveLen(1))
			Expect(c.Len()).To(Equal(1))
			Expect(sim.Listeners()).To(Equal(listeners))
			Expect(sim.Observers()).To(Equal(observers))
			Expect(sim.Pending()).To(Equal(1))
		})

		It("resumes a paused loop instead of rebuilding", func() {
			Expect(m.Initialize()).To(Succeed())
			Expect(m.Pause()).To(Succeed())
			Expect(m.Initialize()).To(Succeed())

			Expect(built).To(HaveLen(1))
			Expect(m.State()).To(Equal(lifecycle.Running))
			Expect(m.Running()).To(BeTrue())
		})

		It("restores fully after dispose", func() {
			Expect(m.Initialize()).To(Succeed())
			listeners := sim.Listeners()

			Expect(m.Dispose()).To(Succeed())
			Expect(m.State()).To(Equal(lifecycle.Disposed))
			Expect(c.Empty()).To(BeTrue())
			Expect(sim.Listeners()).To(Equal(0))
			Expect(sim.Observers()).To(Equal(0))
			Expect(sim.Pending()).To(Equal(0))
			Expect(built[0].cleanups).To(Equal(1))

			Expect(m.Initialize()).To(Succeed())
			Expect(m.State()).To(Equal(lifecycle.Running))
			Expect(c.Len()).To(Equal(1))
			Expect(c.Contains(last().Surface())).To(BeTrue())
			Expect(sim.Listeners()).To(Equal(listeners))
			Expect(m.Running()).To(BeTrue())
			Expect(m.Loop().Clock().Time).To(BeZero())
		})

		It("rebuilds when the surface was dropped by the host", func() {
			Expect(m.Initialize()).To(Succeed())
			c.Remove(last().Surface())

			Expect(m.Initialize()).To(Succeed())
			Expect(built).To(HaveLen(2))
			Expect(built[0].cleanups).To(Equal(1))
			Expect(c.Len()).To(Equal(1))
			Expect(sim.Listeners()).To(Equal(1))
		})

		It("cleans up after a failed build", func() {
			boom := errors.New("no context")
			prepare = func(b *fakeBackend) { b.initErr = boom }

			err := m.Initialize()
			Expect(err).To(MatchError(boom))
			Expect(m.State()).To(Equal(lifecycle.Uninitialized))
			Expect(c.Empty()).To(BeTrue())
			Expect(last().cleanups).To(Equal(1))
			Expect(sim.Listeners()).To(Equal(0))
			Expect(m.Backend()).To(BeNil())
		})

		It("rejects re-entrant transitions", func() {
			var inner, dispose error
			prepare = func(b *fakeBackend) {
				b.onInit = func() {
					inner = m.Initialize()
					dispose = m.Dispose()
				}
			}

			Expect(m.Initialize()).To(Succeed())
			Expect(inner).To(MatchError(lifecycle.ErrTransitionInProgress))
			Expect(dispose).To(MatchError(lifecycle.ErrTransitionInProgress))
			Expect(built).To(HaveLen(1))
			Expect(c.Len()).To(Equal(1))
		})

		It("rebuilds after a render failure", func() {
			prepare = func(b *fakeBackend) {
				if len(built) == 0 {
					b.renderErr = errors.New("context lost")
				}
			}
			Expect(m.Initialize()).To(Succeed())
			sim.Run(100, 60)

			Expect(m.Running()).To(BeFalse())
			Expect(m.Loop().Err()).To(HaveOccurred())
			Expect(sim.Pending()).To(Equal(0))

			Expect(m.Initialize()).To(Succeed())
			Expect(built).To(HaveLen(2))
			Expect(c.Len()).To(Equal(1))
			sim.Run(100, 60)
			Expect(last().renders).To(BeNumerically(">", 0))
		})

		It("resizes the backend and absorbs resize errors", func() {
			Expect(m.Initialize()).To(Succeed())
			sim.Resize(1024, 768)
			Expect(last().resizes).To(Equal(1))
			Expect(last().surface.w).To(Equal(1024))

			last().resizeErr = errors.New("disposed")
			Expect(func() { sim.Resize(640, 480) }).NotTo(Panic())
			Expect(m.State()).To(Equal(lifecycle.Running))
		})

		Context("without animation", func() {
			BeforeEach(func() { tier = quality.Minimal })

			It("renders exactly once at time zero", func() {
				Expect(m.Initialize()).To(Succeed())
				sim.Run(2000, 60)

				Expect(last().renders).To(Equal(1))
				Expect(last().times).To(Equal([]float32{0}))
				Expect(m.Running()).To(BeFalse())
				Expect(sim.Pending()).To(Equal(0))
			})

			It("stays paused on resume", func() {
				Expect(m.Initialize()).To(Succeed())
				Expect(m.Pause()).To(Succeed())
				Expect(m.Resume()).To(Succeed())
				Expect(m.Running()).To(BeFalse())
			})
		})
	})

	Describe("missing container", func() {
		It("fails gracefully", func() {
			Expect(m.Initialize()).To(MatchError(lifecycle.ErrNoContainer))
			Expect(m.State()).To(Equal(lifecycle.Uninitialized))
			Expect(built).To(BeEmpty())
		})
	})

	Describe("visibility", func() {
		var c *host.Container

		BeforeEach(func() {
			c = sim.AddContainer(containerID)
		})

		JustBeforeEach(func() {
			Expect(m.Initialize()).To(Succeed())
			sim.Run(200, 60)
		})

		It("keeps ticking without rendering while the page is hidden", func() {
			before := last().renders
			sim.SetPageVisible(false)
			sim.Run(2000, 60)

			Expect(last().renders).To(Equal(before))
			Expect(sim.Pending()).To(Equal(1))
			Expect(m.Stats().Skipped()).To(BeNumerically(">", 100))

			sim.SetPageVisible(true)
			sim.Run(200, 60)
			Expect(last().renders).To(BeNumerically(">", before))
		})

		It("stops rendering when the container scrolls away", func() {
			sim.Scroll(containerID, 5000)
			before := last().renders
			sim.Run(1000, 60)
			Expect(last().renders).To(Equal(before))

			sim.Scroll(containerID, -5000)
			sim.Run(200, 60)
			Expect(last().renders).To(BeNumerically(">", before))
			Expect(c.Len()).To(Equal(1))
		})
	})

	Describe("page events", func() {
		var c *host.Container

		BeforeEach(func() {
			c = sim.AddContainer(containerID)
		})

		JustBeforeEach(func() {
			Expect(m.Start()).To(Succeed())
		})

		It("pauses on a real navigation hide only", func() {
			sim.PageHide(true)
			Expect(m.State()).To(Equal(lifecycle.Running))

			sim.PageHide(false)
			Expect(m.State()).To(Equal(lifecycle.Paused))
			Expect(sim.Pending()).To(Equal(0))

			sim.PageShow(false)
			Expect(m.State()).To(Equal(lifecycle.Running))
			Expect(sim.Pending()).To(Equal(1))
		})

		It("rechecks after a restore from cache", func() {
			c.Remove(last().Surface())
			last().Cleanup()
			sim.PageShow(true)

			sim.Step(50)
			Expect(c.Empty()).To(BeTrue())
			sim.Step(60)
			Expect(c.Len()).To(Equal(1))
			Expect(built).To(HaveLen(2))
			Expect(m.Running()).To(BeTrue())
		})

		It("does not rebuild an intact instance on restore", func() {
			sim.PageShow(true)
			sim.Run(200, 60)
			Expect(built).To(HaveLen(1))
			Expect(c.Len()).To(Equal(1))
		})

		It("disposes on unload except for history navigation", func() {
			sim.Unload(true)
			Expect(m.State()).To(Equal(lifecycle.Running))

			sim.Unload(false)
			Expect(m.State()).To(Equal(lifecycle.Disposed))
			Expect(c.Empty()).To(BeTrue())

			sim.PageShow(false)
			sim.Run(200, 60)
			Expect(m.State()).To(Equal(lifecycle.Running))
			Expect(c.Len()).To(Equal(1))
		})

		It("rejects pause and resume once disposed", func() {
			Expect(m.Dispose()).To(Succeed())
			Expect(m.Pause()).To(MatchError(lifecycle.ErrDisposed))
			Expect(m.Resume()).To(MatchError(lifecycle.ErrDisposed))
		})

		It("removes every hook on shutdown", func() {
			Expect(m.Shutdown()).To(Succeed())
			Expect(sim.Listeners()).To(Equal(0))
			Expect(sim.Timers()).To(Equal(0))
			Expect(c.Empty()).To(BeTrue())
		})
	})

	Describe("startup checks", func() {
		It("initializes once a late container appears", func() {
			Expect(m.Start()).To(MatchError(lifecycle.ErrNoContainer))
			c := sim.AddContainer(containerID)

			sim.Run(600, 60)
			Expect(c.Len()).To(Equal(1))
			Expect(m.State()).To(Equal(lifecycle.Running))
		})

		It("caps the idle fallback checks", func() {
			Expect(m.Start()).To(MatchError(lifecycle.ErrNoContainer))
			sim.Run(30000, 10)

			Expect(m.Checks()).To(Equal(lifecycle.MaxFallbacks))
			Expect(sim.Timers()).To(Equal(0))
		})

		It("restores a surface the page lost while idle", func() {
			c := sim.AddContainer(containerID)
			Expect(m.Start()).To(Succeed())
			sim.Run(1500, 60)
			Expect(m.Checks()).To(Equal(1))

			// The host drops the surface and the loop with it.
			Expect(m.Pause()).To(Succeed())
			c.Remove(last().Surface())

			sim.Run(5000, 60)
			Expect(m.Checks()).To(Equal(2))
			Expect(c.Len()).To(Equal(1))
			Expect(built).To(HaveLen(2))
		})

		It("skips fallback recovery while the page is hidden", func() {
			c := sim.AddContainer(containerID)
			Expect(m.Start()).To(Succeed())
			sim.Run(600, 60)

			Expect(m.Pause()).To(Succeed())
			c.Remove(last().Surface())
			sim.SetPageVisible(false)

			sim.Run(20000, 10)
			Expect(c.Empty()).To(BeTrue())
			Expect(built).To(HaveLen(1))
		})
	})
})
