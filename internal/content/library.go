package content

import (
	"sort"
)

// Library holds all loaded content tables. Lookups degrade gracefully:
// missing keys return zero values, never errors, and the engine substitutes
// placeholders or "no event".
type Library struct {
	baseline   map[string]float64
	characters map[string]Character
	locations  map[string]Location
	meetings   []MeetingEvent
	seasonal   []SeasonalEvent
	arcs       []StoryArc
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{
		baseline:   make(map[string]float64),
		characters: make(map[string]Character),
		locations:  make(map[string]Location),
	}
}

// Baseline returns the merged emotional baseline for a character: the global
// default overlaid with the character's partial overrides. Unknown character
// ids get the global default unchanged.
func (l *Library) Baseline(characterID string) map[string]float64 {
	merged := make(map[string]float64, len(l.baseline))
	for k, v := range l.baseline {
		merged[k] = v
	}
	if c, ok := l.characters[characterID]; ok {
		for k, v := range c.Baseline {
			merged[k] = v
		}
	}
	return merged
}

// Character returns a character by id.
func (l *Library) Character(id string) (Character, bool) {
	c, ok := l.characters[id]
	return c, ok
}

// Characters returns all characters sorted by id.
func (l *Library) Characters() []Character {
	out := make([]Character, 0, len(l.characters))
	for _, c := range l.characters {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Lines returns the dialogue lines for (character, category, subcategory).
// An empty subcategory reads the "default" bucket. Missing keys return nil.
func (l *Library) Lines(characterID, category, subcategory string) []string {
	c, ok := l.characters[characterID]
	if !ok {
		return nil
	}
	byCategory, ok := c.Dialogue[category]
	if !ok {
		return nil
	}
	if subcategory == "" {
		subcategory = "default"
	}
	return byCategory[subcategory]
}

// Location returns a date location by id.
func (l *Library) Location(id string) (Location, bool) {
	loc, ok := l.locations[id]
	return loc, ok
}

// Locations returns all locations sorted by id.
func (l *Library) Locations() []Location {
	out := make([]Location, 0, len(l.locations))
	for _, loc := range l.locations {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Activity returns an activity within a location.
func (l *Library) Activity(locationID, activityID string) (Activity, bool) {
	loc, ok := l.locations[locationID]
	if !ok {
		return Activity{}, false
	}
	for _, a := range loc.Activities {
		if a.ID == activityID {
			return a, true
		}
	}
	return Activity{}, false
}

// Meetings returns meeting events matching a time of day, optionally
// filtered by location. Events with no location match anywhere.
func (l *Library) Meetings(timeOfDay, locationID string) []MeetingEvent {
	var out []MeetingEvent
	for _, m := range l.meetings {
		if m.TimeOfDay != timeOfDay {
			continue
		}
		if m.Location != "" && locationID != "" && m.Location != locationID {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Seasonal returns seasonal events for a season.
func (l *Library) Seasonal(season string) []SeasonalEvent {
	var out []SeasonalEvent
	for _, s := range l.seasonal {
		if s.Season == season {
			out = append(out, s)
		}
	}
	return out
}

// Arcs returns a character's story arcs, confessions first, then by
// required affection descending, the order the trigger evaluates them.
func (l *Library) Arcs(characterID string) []StoryArc {
	var out []StoryArc
	for _, a := range l.arcs {
		if a.Character == characterID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := out[i].Type == "confession", out[j].Type == "confession"
		if ci != cj {
			return ci
		}
		return out[i].RequiredAffection > out[j].RequiredAffection
	})
	return out
}
