package main

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/exp/slices"

	"github.com/neuronlabs/tunables/store"
)

var (
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	typeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	flagsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func formatEntry(key string, v store.Value) string {
	return fmt.Sprintf("%s = %v %s", keyStyle.Render(key), v, typeStyle.Render("("+v.Type().String()+")"))
}

func formatNotification(n store.Notification) string {
	return flagsStyle.Render("["+n.Flags.String()+"]") + " " + formatEntry(n.Key, n.Value)
}

// suggest gets the keys closest to the 'key' by the edit distance, up to 'limit' results.
func suggest(key string, keys []string, limit int) []string {
	type candidate struct {
		key      string
		distance int
	}
	maxDistance := len(key)/3 + 1
	var candidates []candidate
	for _, k := range keys {
		d := levenshtein.ComputeDistance(strings.ToLower(key), strings.ToLower(k))
		if d <= maxDistance {
			candidates = append(candidates, candidate{key: k, distance: d})
		}
	}
	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return a.distance - b.distance
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.key
	}
	return out
}
