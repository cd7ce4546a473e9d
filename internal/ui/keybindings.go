package ui

import (
	"fmt"
	"sort"
	"strings"
)

// Action is a query bar command bound to one or more keys.
type Action string

const (
	ActionNone        Action = ""
	ActionAccept      Action = "accept"
	ActionAcceptRight Action = "accept_right"
	ActionSubmit      Action = "submit"
	ActionEscape      Action = "escape"
	ActionTogglePanel Action = "toggle_panel"
	ActionPanelUp     Action = "panel_up"
	ActionPanelDown   Action = "panel_down"
	ActionSelect      Action = "select"
	ActionQuit        Action = "quit"
)

// actionOrder is the footer and validation order.
var actionOrder = []Action{
	ActionAccept,
	ActionAcceptRight,
	ActionSubmit,
	ActionEscape,
	ActionTogglePanel,
	ActionPanelUp,
	ActionPanelDown,
	ActionSelect,
	ActionQuit,
}

var defaultBindings = map[Action][]string{
	ActionAccept:      {"tab"},
	ActionAcceptRight: {"right"},
	ActionSubmit:      {"enter"},
	ActionEscape:      {"esc"},
	ActionTogglePanel: {"ctrl+space"},
	ActionPanelUp:     {"up"},
	ActionPanelDown:   {"down"},
	ActionSelect:      {"ctrl+s"},
	ActionQuit:        {"ctrl+c"},
}

// KeyMap resolves key strings (as reported by tea.KeyPressMsg.String) to
// actions.
type KeyMap struct {
	byKey    map[string]Action
	byAction map[Action][]string
}

// DefaultKeyMap returns the built-in bindings.
func DefaultKeyMap() KeyMap {
	km, _ := KeyMapFromConfig(nil)
	return km
}

// KeyMapFromConfig overlays configured bindings (action name -> keys) on the
// defaults. Unknown actions and keys bound to two actions are errors.
func KeyMapFromConfig(cfg map[string][]string) (KeyMap, error) {
	bindings := make(map[Action][]string, len(defaultBindings))
	for a, keys := range defaultBindings {
		bindings[a] = append([]string(nil), keys...)
	}
	for name, keys := range cfg {
		a := Action(strings.TrimSpace(name))
		if _, ok := defaultBindings[a]; !ok {
			return DefaultKeyMap(), fmt.Errorf("unknown key action %q", name)
		}
		normalized := make([]string, 0, len(keys))
		for _, k := range keys {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				normalized = append(normalized, k)
			}
		}
		bindings[a] = normalized
	}

	km := KeyMap{byKey: map[string]Action{}, byAction: bindings}
	for _, a := range actionOrder {
		for _, k := range bindings[a] {
			if prev, dup := km.byKey[k]; dup {
				return DefaultKeyMap(), fmt.Errorf("key %q bound to both %s and %s", k, prev, a)
			}
			km.byKey[k] = a
		}
	}
	return km, nil
}

// Lookup returns the action bound to key.
func (k KeyMap) Lookup(key string) Action {
	return k.byKey[key]
}

// Keys returns the keys bound to a.
func (k KeyMap) Keys(a Action) []string {
	return append([]string(nil), k.byAction[a]...)
}

// Label renders the keys for a as "tab/ctrl+f".
func (k KeyMap) Label(a Action) string {
	return strings.Join(k.byAction[a], "/")
}

// BoundKeys lists every bound key, sorted.
func (k KeyMap) BoundKeys() []string {
	keys := make([]string, 0, len(k.byKey))
	for key := range k.byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
