// Package sound resolves keystroke sound assets and plays them without
// ever blocking the caller.
package sound

// Asset is one of the fixed keystroke sound resources.
type Asset int

const (
	AssetEnter Asset = iota + 1
	AssetSpace
	AssetClick
)

func (a Asset) String() string {
	switch a {
	case AssetEnter:
		return "enter"
	case AssetSpace:
		return "space"
	case AssetClick:
		return "click"
	default:
		return "unknown"
	}
}

// Player issues fire-and-forget playback requests. Implementations
// must never block the caller and never surface playback failures.
type Player interface {
	Play(Asset)
}
