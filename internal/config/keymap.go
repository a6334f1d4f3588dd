package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Action is a bindable game input.
type Action string

const (
	ActionTurnLeft  Action = "turn_left"
	ActionTurnRight Action = "turn_right"
	ActionThrust    Action = "thrust"
	ActionFire      Action = "fire"
	ActionRestart   Action = "restart"
	ActionBack      Action = "back"
	ActionQuit      Action = "quit"
)

// Actions lists every bindable action in display order.
var Actions = []Action{
	ActionTurnLeft, ActionTurnRight, ActionThrust, ActionFire, ActionRestart, ActionBack, ActionQuit,
}

// Named keys accepted in a key map besides single printable characters.
const (
	KeySpace = "space"
	KeyEnter = "enter"
	KeyEsc   = "esc"
	KeyUp    = "up"
	KeyDown  = "down"
	KeyLeft  = "left"
	KeyRight = "right"
)

var namedKeys = map[string]bool{
	KeySpace: true, KeyEnter: true, KeyEsc: true,
	KeyUp: true, KeyDown: true, KeyLeft: true, KeyRight: true,
}

// KeyMap binds each action to one or more key names. It is the only user state
// that is persisted.
type KeyMap struct {
	TurnLeft  []string `toml:"turn_left"`
	TurnRight []string `toml:"turn_right"`
	Thrust    []string `toml:"thrust"`
	Fire      []string `toml:"fire"`
	Restart   []string `toml:"restart"`
	Back      []string `toml:"back"`
	Quit      []string `toml:"quit"`
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		TurnLeft:  []string{"a", "j", KeyLeft},
		TurnRight: []string{"d", "l", KeyRight},
		Thrust:    []string{"w", "i", KeyUp},
		Fire:      []string{KeySpace},
		Restart:   []string{KeyEnter, "r"},
		Back:      []string{KeyEsc},
		Quit:      []string{"q"},
	}
}

// Keys returns the keys bound to an action.
func (km KeyMap) Keys(a Action) []string {
	switch a {
	case ActionTurnLeft:
		return km.TurnLeft
	case ActionTurnRight:
		return km.TurnRight
	case ActionThrust:
		return km.Thrust
	case ActionFire:
		return km.Fire
	case ActionRestart:
		return km.Restart
	case ActionBack:
		return km.Back
	case ActionQuit:
		return km.Quit
	}
	return nil
}

// Bindings inverts the map into key name -> action. When a key is bound twice the
// action listed first in Actions wins.
func (km KeyMap) Bindings() map[string]Action {
	out := make(map[string]Action)
	for _, a := range Actions {
		for _, k := range km.Keys(a) {
			k = NormalizeKey(k)
			if _, taken := out[k]; !taken {
				out[k] = a
			}
		}
	}
	return out
}

// Validate checks that every bound key name is known.
func (km KeyMap) Validate() error {
	for _, a := range Actions {
		for _, k := range km.Keys(a) {
			if !ValidKey(k) {
				return fmt.Errorf("keymap: action %s: unknown key %q", a, k)
			}
		}
	}
	return nil
}

// NormalizeKey lower-cases letters and named keys.
func NormalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

// ValidKey reports whether k is a single printable ASCII character or a named key.
func ValidKey(k string) bool {
	k = NormalizeKey(k)
	if namedKeys[k] {
		return true
	}
	return len(k) == 1 && k[0] > ' ' && k[0] < 0x7f
}

// LoadKeyMap reads bindings from path. Actions missing from the file keep their
// defaults; a missing file yields the defaults.
func LoadKeyMap(path string) (KeyMap, error) {
	km := DefaultKeyMap()
	if path == "" {
		return km, nil
	}

	md, err := toml.DecodeFile(path, &km)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultKeyMap(), nil
	}
	if err != nil {
		return KeyMap{}, fmt.Errorf("keymap %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return KeyMap{}, fmt.Errorf("keymap %s: unknown actions %v", path, undecoded)
	}
	if err := km.Validate(); err != nil {
		return KeyMap{}, err
	}
	return km, nil
}

// SaveKeyMap writes bindings to path, creating parent directories as needed.
func SaveKeyMap(path string, km KeyMap) error {
	if err := km.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(km); err != nil {
		f.Close()
		return fmt.Errorf("keymap %s: %w", path, err)
	}
	return f.Close()
}
