package session

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Action names a user command independent of the input that produced it.
type Action string

const (
	ActionPlay       Action = "play"
	ActionPause      Action = "pause"
	ActionToggle     Action = "toggle"
	ActionVolumeUp   Action = "volume-up"
	ActionVolumeDown Action = "volume-down"
	ActionSpeedUp    Action = "speed-up"
	ActionSpeedDown  Action = "speed-down"
	ActionForward    Action = "forward"
	ActionBackward   Action = "backward"
	ActionFullscreen Action = "fullscreen"
	ActionStop       Action = "stop"
)

// Actions lists every action in a stable order.
func Actions() []Action {
	return []Action{
		ActionPlay,
		ActionPause,
		ActionToggle,
		ActionVolumeUp,
		ActionVolumeDown,
		ActionSpeedUp,
		ActionSpeedDown,
		ActionForward,
		ActionBackward,
		ActionFullscreen,
		ActionStop,
	}
}

// Valid reports whether a names a known action.
func (a Action) Valid() bool {
	return lo.Contains(Actions(), a)
}

// Keymap maps canonical key names to actions.
type Keymap map[string]Action

// DefaultKeymap is the binding set active while a session exists.
func DefaultKeymap() Keymap {
	return Keymap{
		" ":          ActionToggle,
		"ArrowUp":    ActionVolumeUp,
		"ArrowDown":  ActionVolumeDown,
		"+":          ActionSpeedUp,
		"-":          ActionSpeedDown,
		"ArrowRight": ActionForward,
		"ArrowLeft":  ActionBackward,
	}
}

// Keys returns the bound key names sorted by action order.
func (k Keymap) Keys() []string {
	actions := Actions()
	keys := lo.Keys(k)
	sort.Slice(keys, func(i, j int) bool {
		ai, aj := lo.IndexOf(actions, k[keys[i]]), lo.IndexOf(actions, k[keys[j]])
		if ai != aj {
			return ai < aj
		}
		return keys[i] < keys[j]
	})
	return keys
}

var aliases = map[string]string{
	"space":      " ",
	"up":         "ArrowUp",
	"down":       "ArrowDown",
	"left":       "ArrowLeft",
	"right":      "ArrowRight",
	"arrowup":    "ArrowUp",
	"arrowdown":  "ArrowDown",
	"arrowleft":  "ArrowLeft",
	"arrowright": "ArrowRight",
	"plus":       "+",
	"minus":      "-",
	"=":          "+",
}

// NormalizeKey maps terminal and shorthand key names onto the canonical names used by Keymap.
func NormalizeKey(name string) string {
	if canonical, ok := aliases[strings.ToLower(name)]; ok {
		return canonical
	}
	return name
}

// DisplayKey renders a canonical key name for help texts.
func DisplayKey(name string) string {
	switch name {
	case " ":
		return "space"
	case "ArrowUp":
		return "↑"
	case "ArrowDown":
		return "↓"
	case "ArrowLeft":
		return "←"
	case "ArrowRight":
		return "→"
	default:
		return name
	}
}
