package wm

// Locate selects the primary window of a process: the visible window
// with the strictly largest area whose width exceeds minDimension.
// The width gate discards tooltips and utility popups that are visible
// but are not the application frame. Ties keep the first-enumerated
// window; enumeration order is compositor-defined.
func Locate(windows []Window, pid int, minDimension int) (Window, bool) {
	var best Window
	bestArea := 0
	found := false

	for _, w := range windows {
		if w.PID != pid || !w.Visible() {
			continue
		}
		if w.Size[0] <= minDimension {
			continue
		}
		if area := w.Area(); area > bestArea {
			best = w
			bestArea = area
			found = true
		}
	}

	return best, found
}
