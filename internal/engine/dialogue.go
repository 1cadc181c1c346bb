package engine

// DialogueRequest selects a line: category is required, subcategory and
// weather are optional context.
type DialogueRequest struct {
	CharacterID string `json:"character_id"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
	Weather     string `json:"weather,omitempty"`
}

// DialogueLine is a selected, contextualized line.
type DialogueLine struct {
	Text  string `json:"text"`
	Mood  string `json:"mood"`
	Stage string `json:"stage"`
}

// missingLine stands in when a character has no lines for a category.
const missingLine = "..."

// moodDirections are parenthetical stage directions prepended per mood.
// Calm gets none.
var moodDirections = map[string]string{
	"happy":       "smiling",
	"excited":     "beaming",
	"romantic":    "soft-eyed",
	"melancholic": "a little distant",
	"angry":       "curt",
	"nervous":     "fidgeting",
	"lonely":      "quiet",
	"playful":     "grinning",
	"content":     "relaxed",
}

// SelectDialogue picks a line at random from the character's table for the
// requested category, then layers context onto it: a callback or guardedness
// from the latest strong memory, a mood direction, emotional accents, a
// weather remark, and a stage-flavored tail.
func (e *Engine) SelectDialogue(req DialogueRequest) (*DialogueLine, error) {
	mood, err := e.Mood(req.CharacterID)
	if err != nil {
		return nil, err
	}
	stage, _, err := e.CurrentStage(req.CharacterID)
	if err != nil {
		return nil, err
	}

	lines := e.Content.Lines(req.CharacterID, req.Category, req.Subcategory)
	text := missingLine
	if len(lines) > 0 {
		text = lines[e.rng.Intn(len(lines))]
	}

	text, err = e.memoryPrefix(req.CharacterID, text)
	if err != nil {
		return nil, err
	}
	if d := moodDirections[mood.Mood]; d != "" {
		text = "(" + d + ") " + text
	}

	text, err = e.emotionAccents(req.CharacterID, text)
	if err != nil {
		return nil, err
	}

	if req.Weather != "" {
		if c, ok := e.Content.Character(req.CharacterID); ok {
			if remark := c.Weather[req.Weather]; remark != "" {
				text += " " + remark
			}
		}
	}

	text = e.stageTail(req.CharacterID, stage, text)

	return &DialogueLine{Text: text, Mood: mood.Mood, Stage: stage.Status}, nil
}

// memoryPrefix colors the line with the most recent memory when it was
// strong enough to linger, fond or sore.
func (e *Engine) memoryPrefix(characterID, text string) (string, error) {
	recent, err := e.DB.RecentMemories(characterID, 1)
	if err != nil {
		return "", err
	}
	if len(recent) == 0 {
		return text, nil
	}
	m := recent[0]
	switch {
	case m.EmotionalWeight > 15:
		return "I keep thinking about " + m.Title + "... " + text, nil
	case m.EmotionalWeight < -10:
		return "(She's still a little guarded after " + m.Title + ".) " + text, nil
	}
	return text, nil
}

// emotionAccents layers high-emotion tics onto the line. The order is fixed
// so stacked accents always compose the same way: love, then shyness, then
// jealousy.
func (e *Engine) emotionAccents(characterID, text string) (string, error) {
	s, err := e.Emotions(characterID)
	if err != nil {
		return "", err
	}
	if s.Axis("love") > 70 {
		text += " ...I'm really glad it's you."
	}
	if s.Axis("shyness") > 70 {
		text = "U-um... " + text
	}
	if s.Axis("jealousy") > 50 {
		text += " ...Who were you with earlier, anyway?"
	}
	return text, nil
}

// stageTail appends an endearment at the lover stage (30% of lines) or a
// friendly tag at close friend (20%).
func (e *Engine) stageTail(characterID string, stage Stage, text string) string {
	c, ok := e.Content.Character(characterID)
	if !ok {
		return text
	}
	switch stage.Status {
	case "lover", "soulmate":
		if len(c.Endearments) > 0 && e.rng.Float64() < 0.3 {
			text += " " + c.Endearments[e.rng.Intn(len(c.Endearments))]
		}
	case "close_friend":
		if len(c.Friendly) > 0 && e.rng.Float64() < 0.2 {
			text += " " + c.Friendly[e.rng.Intn(len(c.Friendly))]
		}
	}
	return text
}
