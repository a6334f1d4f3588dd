// Package input turns raw key events into the per-tick Intent the game loop reads.
package input

// Intent is what the player wants this tick: held flags plus just-pressed edges.
type Intent struct {
	TurnLeft  bool
	TurnRight bool
	Thrust    bool
	Fire      bool

	FirePressed    bool
	RestartPressed bool
	BackPressed    bool

	Quit bool
}

// Turn returns +1 for a left (counter-clockwise) turn, -1 for right, 0 for none
// or both.
func (in Intent) Turn() float64 {
	switch {
	case in.TurnLeft && !in.TurnRight:
		return 1
	case in.TurnRight && !in.TurnLeft:
		return -1
	}
	return 0
}
