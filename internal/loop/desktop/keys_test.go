package desktop

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/asteroids/internal/config"
	"github.com/tomz197/asteroids/internal/input"
)

func TestEbitenKey(t *testing.T) {
	tests := []struct {
		name string
		want ebiten.Key
	}{
		{"a", ebiten.KeyA},
		{"Q", ebiten.KeyQ},
		{"7", ebiten.KeyDigit7},
		{config.KeySpace, ebiten.KeySpace},
		{config.KeyEnter, ebiten.KeyEnter},
		{config.KeyEsc, ebiten.KeyEscape},
		{config.KeyLeft, ebiten.KeyArrowLeft},
		{config.KeyUp, ebiten.KeyArrowUp},
		{",", ebiten.KeyComma},
	}
	for _, tt := range tests {
		got, err := ebitenKey(tt.name)
		if err != nil {
			t.Errorf("ebitenKey(%q): %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ebitenKey(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if _, err := ebitenKey("~"); err == nil {
		t.Error("expected an error for an unmapped key")
	}
}

func TestBindingsCoverEveryAction(t *testing.T) {
	keys, err := bindings(config.DefaultKeyMap())
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}
	for _, a := range config.Actions {
		if len(keys[a]) == 0 {
			t.Errorf("action %s has no key", a)
		}
	}
	if got := keys[config.ActionThrust]; len(got) != 3 || got[2] != ebiten.KeyArrowUp {
		t.Errorf("thrust keys = %v", got)
	}
}

func TestBindingsRejectUnusableAction(t *testing.T) {
	km := config.DefaultKeyMap()
	km.Quit = []string{"~"}
	if _, err := bindings(km); err == nil {
		t.Error("expected an error when quit has no desktop key")
	}
}

func TestApplyStick(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want input.Intent
	}{
		{"centered", 0.1, -0.2, input.Intent{}},
		{"left", -0.9, 0, input.Intent{TurnLeft: true}},
		{"right and up", 0.8, -0.7, input.Intent{TurnRight: true, Thrust: true}},
		{"down does nothing", 0, 1, input.Intent{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in input.Intent
			applyStick(&in, tt.x, tt.y)
			if in != tt.want {
				t.Errorf("applyStick(%v, %v) = %+v, want %+v", tt.x, tt.y, in, tt.want)
			}
		})
	}
}
