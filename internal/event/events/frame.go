package events

// PreUpdate is published at the start of every frame, before Update.
// Timers tick here.
type PreUpdate struct {
	// DT is the duration of the previous frame in seconds.
	DT float64
}

// Update is published once per frame. Game and application state advance here.
type Update struct {
	// DT is the duration of the previous frame in seconds.
	DT float64
}

// PostUpdate is published after Update.
type PostUpdate struct {
	// DT is the duration of the previous frame in seconds.
	DT float64
}

// PreDraw is published after the surface is cleared.
type PreDraw struct{}

// Draw is published once per frame for scene drawing.
type Draw struct{}

// PreDrawOverlay is published before overlays are drawn.
type PreDrawOverlay struct{}

// DrawOverlay is published for UI drawn on top of the scene.
type DrawOverlay struct{}

// PostDrawOverlay is published after overlays are drawn.
type PostDrawOverlay struct{}

// PostDraw is published last, before the surface is presented.
type PostDraw struct{}
