package models

// Bracket - настройки сайд-пота "сетка" (обычно 8 игроков, 3 игры на выбывание).
type Bracket struct {
	ID                string `json:"id"`
	DivisionID        string `json:"division_id"`
	SquadID           string `json:"squad_id"`
	Fee               string `json:"fee"`
	FirstPlace        string `json:"first_place"`
	SecondPlace       string `json:"second_place"`
	Admin             string `json:"admin"`
	Games             int    `json:"games"`
	PlayersPerBracket int    `json:"players_per_bracket"`
	SortOrder         int    `json:"sort_order"`
}

func (b Bracket) GetID() string { return b.ID }

func (b Bracket) WithID(id string) Bracket {
	b.ID = id
	return b
}

func (b Bracket) Equal(o Bracket) bool { return b == o }
