package skinlog

import "time"

// Log is one self-reported skin condition entry; at most one per user per day.
type Log struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	LoggedAt      string    `json:"logged_at"`
	Hydration     *int      `json:"hydration"`
	Oiliness      *int      `json:"oiliness"`
	HasBreakouts  bool      `json:"has_breakouts"`
	BreakoutAreas []string  `json:"breakout_areas"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LogRequest captures the fields a user can record for today.
type LogRequest struct {
	Hydration     *int     `json:"hydration,omitempty"`
	Oiliness      *int     `json:"oiliness,omitempty"`
	HasBreakouts  bool     `json:"has_breakouts"`
	BreakoutAreas []string `json:"breakout_areas,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

// LogResponse is returned after a successful upsert.
type LogResponse struct {
	Success bool   `json:"success"`
	Log     Log    `json:"log"`
	Message string `json:"message"`
}

// HistoryRequest selects the lookback window for the diary view.
type HistoryRequest struct {
	Days  int `json:"days,omitempty"`
	Limit int `json:"limit,omitempty"`
}

// HistoryResponse lists entries newest first.
type HistoryResponse struct {
	SkinLogs   []Log `json:"skin_logs"`
	TotalCount int   `json:"total_count"`
	PeriodDays int   `json:"period_days"`
}

// IntPtr is a small helper for building optional ratings.
func IntPtr(v int) *int {
	return &v
}
