//go:build !windows

package overlay

// Other platforms rely on the translucent background rectangle.
func (overlay *Window) applyNativeOpacity(alpha uint8) {}
