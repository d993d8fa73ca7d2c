package models

// Event - соревнование внутри турнира (singles, doubles, team).
type Event struct {
	ID           string `json:"id"`
	TournamentID string `json:"tournament_id"`
	Name         string `json:"name"`
	TeamSize     int    `json:"team_size"`
	Games        int    `json:"games"`
	EntryFee     string `json:"entry_fee"`
	AddedMoney   string `json:"added_money"`
	SortOrder    int    `json:"sort_order"`
}

func (e Event) GetID() string { return e.ID }

func (e Event) WithID(id string) Event {
	e.ID = id
	return e
}

func (e Event) Equal(o Event) bool { return e == o }
