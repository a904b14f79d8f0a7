package ui

// ensureViewportSize resizes the right pane in place. The scroll offset is
// kept, clamped to the content that still fits.
func (m *TuiModel) ensureViewportSize(width, height int) {
	if m.vp.Width == width && m.vp.Height == height {
		return
	}
	m.vp.Width, m.vp.Height = width, height
	m.vp.SetYOffset(m.vp.YOffset)
}

// scrollViewport applies a scroll key to the right pane and reports whether
// the key was one.
func (m *TuiModel) scrollViewport(key string) bool {
	switch key {
	case "up", "k":
		m.vp.LineUp(1)
	case "down", "j":
		m.vp.LineDown(1)
	case "pgup":
		m.vp.HalfViewUp()
	case "pgdown":
		m.vp.HalfViewDown()
	case "home", "g":
		m.vp.GotoTop()
	case "end", "G":
		m.vp.GotoBottom()
	default:
		return false
	}
	return true
}
