package postgres

import (
	"database/sql"
	"time"
)

// oddsEventTableModel is one distinct event row of the odds1x2 table.
type oddsEventTableModel struct {
	EventID  string         `db:"event_id"`
	HomeTeam sql.NullString `db:"home_team"`
	AwayTeam sql.NullString `db:"away_team"`
	Starts   time.Time      `db:"starts"`
}
