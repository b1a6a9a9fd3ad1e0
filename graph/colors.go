package graph

import (
	"strings"
	"sync"
)

// MarkerColor is the colour token assigned to an event type.
type MarkerColor struct {
	Index int     `json:"index"`
	Name  string  `json:"name"`
	Hue   float64 `json:"hue"`
}

// Palette is the fixed, ordered marker palette. Types are assigned entries
// in first-seen order, wrapping once every entry is taken.
var Palette = []MarkerColor{
	{Index: 0, Name: "red", Hue: 0},
	{Index: 1, Name: "yellow", Hue: 60},
	{Index: 2, Name: "azure", Hue: 210},
	{Index: 3, Name: "green", Hue: 120},
	{Index: 4, Name: "rose", Hue: 330},
	{Index: 5, Name: "orange", Hue: 30},
	{Index: 6, Name: "violet", Hue: 270},
	{Index: 7, Name: "magenta", Hue: 300},
}

type colorMap struct {
	mu       sync.Mutex
	assigned map[string]int
}

func newColorMap() *colorMap {
	return &colorMap{assigned: make(map[string]int)}
}

func (c *colorMap) colorFor(eventType string) MarkerColor {
	key := strings.ToLower(eventType)

	c.mu.Lock()
	defer c.mu.Unlock()

	idx, ok := c.assigned[key]
	if !ok {
		idx = len(c.assigned) % len(Palette)
		c.assigned[key] = idx
	}
	return Palette[idx]
}
