package content

// Character is a content-defined character: identity, emotional baseline
// overrides, and per-character dialogue tables. All of it is read-only
// reference data loaded from YAML.
type Character struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Bio      string `yaml:"bio,omitempty"`
	Baseline map[string]float64 `yaml:"baseline,omitempty"`

	// Endearments are appended (with a small chance) at the lover stage,
	// Friendly at the close-friend stage.
	Endearments []string `yaml:"endearments,omitempty"`
	Friendly    []string `yaml:"friendly,omitempty"`

	// Weather maps a weather key to a one-line addendum.
	Weather map[string]string `yaml:"weather,omitempty"`

	// Dialogue is keyed by category, then subcategory ("default" when the
	// caller passes none).
	Dialogue map[string]map[string][]string `yaml:"dialogue,omitempty"`
}

// Location is a date venue with its activity menu.
type Location struct {
	ID            string     `yaml:"id"`
	Name          string     `yaml:"name"`
	Description   string     `yaml:"description,omitempty"`
	RequiredStage string     `yaml:"required_stage,omitempty"`
	Cost          int        `yaml:"cost"`
	Activities    []Activity `yaml:"activities"`
}

// Activity is a single date activity with its two scripted outcome branches.
type Activity struct {
	ID              string     `yaml:"id"`
	Name            string     `yaml:"name"`
	DurationMinutes int        `yaml:"duration_minutes"`
	Cost            int        `yaml:"cost"`
	RomanticBonus   float64    `yaml:"romantic_bonus"`
	IntimacyBonus   float64    `yaml:"intimacy_bonus"`
	Gates           []StatGate `yaml:"gates,omitempty"`
	Success         Outcome    `yaml:"success"`
	Failure         Outcome    `yaml:"failure"`
}

// StatGate fails an activity (it still happens, unfavorably) when the
// player's stat is below Min.
type StatGate struct {
	Stat string  `yaml:"stat"`
	Min  float64 `yaml:"min"`
}

// Outcome is one branch of an activity resolution.
type Outcome struct {
	Affection float64            `yaml:"affection"`
	Tension   float64            `yaml:"tension"`
	Message   string             `yaml:"message"`
	Emotions  map[string]float64 `yaml:"emotions,omitempty"`
}

// MeetingEvent is a random encounter keyed by time of day and optionally a
// location.
type MeetingEvent struct {
	ID        string `yaml:"id"`
	TimeOfDay string `yaml:"time_of_day"`
	Location  string `yaml:"location,omitempty"`
	Character string `yaml:"character,omitempty"`
	Title     string `yaml:"title"`
	Text      string `yaml:"text"`
}

// SeasonalEvent is a random encounter keyed by season.
type SeasonalEvent struct {
	ID        string `yaml:"id"`
	Season    string `yaml:"season"`
	Character string `yaml:"character,omitempty"`
	Title     string `yaml:"title"`
	Text      string `yaml:"text"`
}

// StoryArc is a scripted branching event gated by affection and a
// completion flag.
type StoryArc struct {
	ID                string      `yaml:"id"`
	Character         string      `yaml:"character"`
	Type              string      `yaml:"type"` // confession, friendship, milestone, ...
	Title             string      `yaml:"title"`
	Text              string      `yaml:"text"`
	RequiredAffection float64     `yaml:"required_affection"`
	Flag              string      `yaml:"flag"`
	Branches          []ArcBranch `yaml:"branches,omitempty"`
}

// ArcBranch is one player choice within a story arc.
type ArcBranch struct {
	ID        string  `yaml:"id"`
	Text      string  `yaml:"text"`
	Affection float64 `yaml:"affection"`
}

// eventsFile is the on-disk shape of events.yaml.
type eventsFile struct {
	Meetings []MeetingEvent  `yaml:"meetings"`
	Seasonal []SeasonalEvent `yaml:"seasonal"`
	Arcs     []StoryArc      `yaml:"arcs"`
}

// baselineFile is the on-disk shape of baseline.yaml.
type baselineFile struct {
	Baseline map[string]float64 `yaml:"baseline"`
}
