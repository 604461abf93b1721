// Package catalog holds the fixed list of symposium events and the
// information shown for each of them.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"
)

// Descriptor describes one competition track.
type Descriptor struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	Objective   []string `json:"objective"`
	Eligibility []string `json:"eligibility"`
	Format      []string `json:"format"`
	Rules       []string `json:"rules"`
	Judging     []string `json:"judging"`
}

//go:embed events.json
var eventsJSON []byte

var (
	ordered []Descriptor
	byKey   map[string]int
	byName  map[string]int
)

func init() {
	if err := json.Unmarshal(eventsJSON, &ordered); err != nil {
		panic(fmt.Sprintf("catalog: decode events.json: %v", err))
	}
	byKey = make(map[string]int, len(ordered))
	byName = make(map[string]int, len(ordered))
	for i, d := range ordered {
		byKey[d.Key] = i
		byName[d.Name] = i
	}
}

// All returns every descriptor in display order. The slice is a copy.
func All() []Descriptor {
	out := make([]Descriptor, len(ordered))
	copy(out, ordered)
	return out
}

// Lookup returns the descriptor for a short key such as "quiz".
func Lookup(key string) (Descriptor, bool) {
	i, ok := byKey[key]
	if !ok {
		return Descriptor{}, false
	}
	return ordered[i], true
}

// ByName returns the descriptor for a category identifier such as
// "Technical Quiz".
func ByName(name string) (Descriptor, bool) {
	i, ok := byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return ordered[i], true
}

// Names returns the category identifiers in display order.
func Names() []string {
	names := make([]string, len(ordered))
	for i, d := range ordered {
		names[i] = d.Name
	}
	return names
}

// Remaining is the time left before the symposium opens.
type Remaining struct {
	Days    int  `json:"days"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Seconds int  `json:"seconds"`
	Started bool `json:"started"`
}

// Countdown splits the time between now and start into whole units.
// Once start has passed every unit is zero and Started is set.
func Countdown(now, start time.Time) Remaining {
	d := start.Sub(now)
	if d <= 0 {
		return Remaining{Started: true}
	}
	total := int(d / time.Second)
	return Remaining{
		Days:    total / 86400,
		Hours:   total % 86400 / 3600,
		Minutes: total % 3600 / 60,
		Seconds: total % 60,
	}
}
