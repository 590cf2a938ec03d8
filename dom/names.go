package dom

import (
	"github.com/dlclark/regexp2"
)

var nameToken = regexp2.MustCompile(`[^\s,]+`, regexp2.None)

// SplitNames splits an event names list such as "click, keyup focus"
// into the individual event types. Empty entries are dropped.
func SplitNames(names string) []string {
	var types []string
	m, err := nameToken.FindStringMatch(names)
	for err == nil && m != nil {
		types = append(types, m.String())
		m, err = nameToken.FindNextMatch(m)
	}
	return types
}
