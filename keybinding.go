package main

import (
	"log"
	"strings"
)

// keyCombo is a parsed "Shift+Ctrl+Key" combination.
type keyCombo struct {
	key Key
	mod Modifiers
}

// parseKeyCombo parses a combo string such as "Shift+ArrowLeft" into its key
// and modifier set. Returns false for empty or malformed strings.
func parseKeyCombo(keyStr string) (keyCombo, bool) {
	parts := strings.Split(keyStr, "+")
	if len(parts) == 0 {
		return keyCombo{}, false
	}

	var combo keyCombo
	for _, part := range parts[:len(parts)-1] {
		switch part {
		case "Shift":
			combo.mod.Shift = true
		case "Ctrl":
			combo.mod.Ctrl = true
		case "Alt":
			combo.mod.Alt = true
		default:
			return keyCombo{}, false
		}
	}

	name := parts[len(parts)-1]
	if name == "" {
		return keyCombo{}, false
	}
	combo.key = Key(name)
	return combo, true
}

// KeybindingManager resolves key-down events to action names. Bindings are
// exact-match on the modifier set, so "ArrowLeft" does not fire when Shift
// is held unless "Shift+ArrowLeft" is also bound.
type KeybindingManager struct {
	byCombo map[keyCombo]string
}

// NewKeybindingManager builds the reverse lookup from an action->combos map.
// Malformed combos are logged and skipped; later bindings win on conflict.
func NewKeybindingManager(bindings map[string][]string) *KeybindingManager {
	m := &KeybindingManager{byCombo: make(map[keyCombo]string)}
	for action, combos := range bindings {
		for _, keyStr := range combos {
			combo, ok := parseKeyCombo(keyStr)
			if !ok {
				log.Printf("Warning: invalid keybinding %q for action %q", keyStr, action)
				continue
			}
			m.byCombo[combo] = action
		}
	}
	return m
}

// Resolve maps a pressed key and its modifiers to an action name.
func (m *KeybindingManager) Resolve(key Key, mod Modifiers) (string, bool) {
	action, ok := m.byCombo[keyCombo{key: key, mod: mod}]
	return action, ok
}
