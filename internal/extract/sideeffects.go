package extract

import (
	"strings"

	"ripple/internal/facts"
)

// sideEffectKeywords is the fixed substring vocabulary for tagging a
// file's side effects. Matching is textual, not semantic.
var sideEffectKeywords = map[facts.SideEffectKind][]string{
	facts.SideEffectNetwork:       {"fetch(", "axios", "XMLHttpRequest", "new WebSocket"},
	facts.SideEffectDOM:           {"document.", "innerHTML", "querySelector", "createElement("},
	facts.SideEffectStorage:       {"localStorage", "sessionStorage", "indexedDB"},
	facts.SideEffectTimer:         {"setTimeout", "setInterval", "requestAnimationFrame"},
	facts.SideEffectEventListener: {"addEventListener", "removeEventListener"},
	facts.SideEffectConsole:       {"console."},
	facts.SideEffectStateMutation: {"setState", "useState", "useReducer", "dispatch("},
	facts.SideEffectExternalAPI:   {"process.env", "navigator.", "window.location"},
}

func detectSideEffects(content []byte) map[facts.SideEffectKind]bool {
	text := string(content)
	tags := make(map[facts.SideEffectKind]bool)
	for kind, keywords := range sideEffectKeywords {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				tags[kind] = true
				break
			}
		}
	}
	return tags
}
