package postgres

import "time"

type resultInsertModel struct {
	EventID   string    `db:"event_id"`
	HomeTeam  string    `db:"home_team"`
	AwayTeam  string    `db:"away_team"`
	Starts    time.Time `db:"starts"`
	HomeScore int       `db:"home_score"`
	AwayScore int       `db:"away_score"`
}
