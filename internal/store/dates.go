package store

import (
	"database/sql"
	"fmt"
)

// DatePlan is a composed, priced, multi-activity date. Lifecycle:
// planned → in_progress → completed, or planned → cancelled when validation
// refuses the plan. Completed plans are immutable.
type DatePlan struct {
	ID                   string       `json:"id"`
	CharacterID          string       `json:"character_id"`
	LocationID           string       `json:"location_id"`
	ActivityIDs          []string     `json:"activity_ids"`
	TotalDurationMinutes int          `json:"total_duration_minutes"`
	TotalCost            int          `json:"total_cost"`
	Status               string       `json:"status"`
	Reason               string       `json:"reason,omitempty"`
	Results              *DateResults `json:"results,omitempty"`
	CreatedAt            int64        `json:"created_at"`
}

// DateResults aggregates the per-activity outcomes of an executed date.
type DateResults struct {
	Activities              []ActivityResult `json:"activities"`
	TotalAffectionGained    float64          `json:"total_affection_gained"`
	TotalTensionChange      float64          `json:"total_tension_change"`
	OverallSuccess          bool             `json:"overall_success"`
	RelationshipProgression string           `json:"relationship_progression"`
	MemoryIDs               []string         `json:"memory_ids"`
}

// ActivityResult is the resolved outcome of a single date activity.
type ActivityResult struct {
	ActivityID     string  `json:"activity_id"`
	Success        bool    `json:"success"`
	AffectionDelta float64 `json:"affection_delta"`
	TensionDelta   float64 `json:"tension_delta"`
	Message        string  `json:"message"`
}

const datePlanColumns = `id, character_id, location_id, activity_ids, total_duration,
	total_cost, status, reason, results, created_at`

// InsertDatePlan stores a new plan (status planned or cancelled).
func (db *DB) InsertDatePlan(p *DatePlan) error {
	_, err := db.Exec(`
		INSERT INTO date_plans (`+datePlanColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.CharacterID, p.LocationID, marshalJSON(p.ActivityIDs), p.TotalDurationMinutes,
		p.TotalCost, p.Status, p.Reason, marshalJSON(p.Results), p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert date plan: %w", err)
	}
	return nil
}

// GetDatePlan returns a plan by id, or nil if not found.
func (db *DB) GetDatePlan(id string) (*DatePlan, error) {
	row := db.QueryRow(`SELECT `+datePlanColumns+` FROM date_plans WHERE id = ?`, id)
	p, err := scanDatePlan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get date plan: %w", err)
	}
	return p, nil
}

// TransitionDatePlan moves a plan from one status to another. Returns false
// when the plan is not currently in the expected status, leaving it untouched.
func (db *DB) TransitionDatePlan(id, from, to string) (bool, error) {
	result, err := db.Exec(
		"UPDATE date_plans SET status = ? WHERE id = ? AND status = ?",
		to, id, from,
	)
	if err != nil {
		return false, fmt.Errorf("transition date plan: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// CancelDatePlan marks a still-planned plan cancelled with a reason. Returns
// false when the plan already left the planned state, leaving it untouched.
func (db *DB) CancelDatePlan(id, reason string) (bool, error) {
	result, err := db.Exec(`
		UPDATE date_plans SET status = 'cancelled', reason = ?
		WHERE id = ? AND status = 'planned'
	`, reason, id)
	if err != nil {
		return false, fmt.Errorf("cancel date plan: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// CompleteDatePlan attaches results and marks the plan completed. Only an
// in-progress plan can complete.
func (db *DB) CompleteDatePlan(id string, results *DateResults) (bool, error) {
	result, err := db.Exec(`
		UPDATE date_plans SET status = 'completed', results = ?
		WHERE id = ? AND status = 'in_progress'
	`, marshalJSON(results), id)
	if err != nil {
		return false, fmt.Errorf("complete date plan: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// ListDatePlans returns a character's plans, newest first.
func (db *DB) ListDatePlans(characterID string) ([]DatePlan, error) {
	rows, err := db.Query(`
		SELECT `+datePlanColumns+` FROM date_plans
		WHERE character_id = ? ORDER BY created_at DESC, id DESC
	`, characterID)
	if err != nil {
		return nil, fmt.Errorf("list date plans: %w", err)
	}
	defer rows.Close()

	var plans []DatePlan
	for rows.Next() {
		p, err := scanDatePlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan date plan: %w", err)
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

func scanDatePlan(row rowScanner) (*DatePlan, error) {
	var p DatePlan
	var activityIDs string
	var reason, results sql.NullString
	err := row.Scan(&p.ID, &p.CharacterID, &p.LocationID, &activityIDs, &p.TotalDurationMinutes,
		&p.TotalCost, &p.Status, &reason, &results, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Reason = reason.String
	unmarshalJSON(activityIDs, &p.ActivityIDs)
	if results.String != "" {
		unmarshalJSON(results.String, &p.Results)
	}
	return &p, nil
}
