package config

import "time"

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	PlayerBlinkFrequency  = 10.0 // Hz, while the respawned ship is still untouchable
)

// Terminal render area is clamped to this size and centered in larger terminals.
const (
	MaxTermWidth  = 200
	MaxTermHeight = 60
)

// Inactivity (remote sessions only)
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Desktop window
const (
	DesktopScale = 5.0 // pixels per field unit
)

// Remote sessions
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
	MaxUsernameLength      = 16   // Maximum display length for player usernames
	TopScoreCount          = 5    // Leaderboard entries kept by the hub
)
