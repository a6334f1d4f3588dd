package desktop

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/asteroids/internal/config"
)

// ebitenKeyNames translates key names that differ between config.KeyMap and ebiten.
var ebitenKeyNames = map[string]string{
	config.KeySpace: "Space",
	config.KeyEnter: "Enter",
	config.KeyEsc:   "Escape",
	config.KeyUp:    "ArrowUp",
	config.KeyDown:  "ArrowDown",
	config.KeyLeft:  "ArrowLeft",
	config.KeyRight: "ArrowRight",
	",":             "Comma",
	".":             "Period",
	"/":             "Slash",
	";":             "Semicolon",
	"'":             "Quote",
	"[":             "BracketLeft",
	"]":             "BracketRight",
	"-":             "Minus",
	"=":             "Equal",
	"`":             "Backquote",
	"\\":            "Backslash",
}

// ebitenKey returns the ebiten key for a config.KeyMap key name.
func ebitenKey(name string) (ebiten.Key, error) {
	name = config.NormalizeKey(name)

	text, ok := ebitenKeyNames[name]
	switch {
	case ok:
	case len(name) == 1 && name[0] >= 'a' && name[0] <= 'z':
		text = strings.ToUpper(name)
	case len(name) == 1 && name[0] >= '0' && name[0] <= '9':
		text = "Digit" + name
	default:
		return 0, fmt.Errorf("no desktop key for %q", name)
	}

	var k ebiten.Key
	if err := k.UnmarshalText([]byte(text)); err != nil {
		return 0, fmt.Errorf("no desktop key for %q: %w", name, err)
	}
	return k, nil
}

// bindings resolves every action of km to ebiten keys. Keys the desktop cannot
// express are skipped; an action left with no key at all is an error.
func bindings(km config.KeyMap) (map[config.Action][]ebiten.Key, error) {
	out := make(map[config.Action][]ebiten.Key, len(config.Actions))
	for _, a := range config.Actions {
		for _, name := range km.Keys(a) {
			k, err := ebitenKey(name)
			if err != nil {
				continue
			}
			out[a] = append(out[a], k)
		}
		if len(out[a]) == 0 {
			return nil, fmt.Errorf("desktop: action %s has no usable key", a)
		}
	}
	return out, nil
}
