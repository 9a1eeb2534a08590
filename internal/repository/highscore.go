package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Highscore is a won session. Fewer tests rank higher, then shorter
// playtime.
type Highscore struct {
	GameSessionId string  `json:"game_session_id"`
	Username      *string `json:"username"`
	Base          int     `json:"base"`
	ColumnCount   int     `json:"column_count"`
	Difficulty    int     `json:"difficulty"`
	TestCount     int     `json:"test_count"`
	BidCount      int     `json:"bid_count"`
	PlaytimeMs    float64 `json:"playtime_ms"`
}

type HighscoreFilter struct {
	Username    *string `schema:"username"`
	Base        *int    `schema:"base"`
	ColumnCount *int    `schema:"column_count"`
	Limit       int     `schema:"limit"`
}

const DefaultHighscoreLimit = 100

func (f HighscoreFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	if f.Base != nil {
		clauses = append(clauses, "base = @base")
		args["base"] = *f.Base
	}
	if f.ColumnCount != nil {
		clauses = append(clauses, "column_count = @column_count")
		args["column_count"] = *f.ColumnCount
	}
	limit := f.Limit
	if limit <= 0 || limit > DefaultHighscoreLimit {
		limit = DefaultHighscoreLimit
	}
	args["limit"] = limit
	return strings.Join(clauses, " AND "), args
}

func (q *Queries) GetHighscores(
	ctx context.Context, filter HighscoreFilter,
) ([]Highscore, error) {
	query := `
	SELECT
		game_session_id::text,
		username,
		base,
		column_count,
		difficulty,
		test_count,
		bid_count,
		(
			extract('epoch' from ended_at) -
			extract('epoch' from started_at)
		) * 1000 playtime_ms
	FROM game_session
		LEFT OUTER JOIN player using (player_id)
	WHERE
		won = true
		AND forfeit = false
		AND ended_at IS NOT NULL
	`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " AND " + whereClause
	}

	query += " ORDER BY test_count, playtime_ms LIMIT @limit;"

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Highscore])
}
