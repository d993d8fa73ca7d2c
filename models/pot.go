package models

type PotType string

const (
	PotTypeGame     PotType = "Game"
	PotTypeLastGame PotType = "Last Game"
	PotTypeSeries   PotType = "Series"
)

type Pot struct {
	ID         string  `json:"id"`
	DivisionID string  `json:"division_id"`
	SquadID    string  `json:"squad_id"`
	PotType    PotType `json:"pot_type"`
	Fee        string  `json:"fee"`
	SortOrder  int     `json:"sort_order"`
}

func (p Pot) GetID() string { return p.ID }

func (p Pot) WithID(id string) Pot {
	p.ID = id
	return p
}

func (p Pot) Equal(o Pot) bool { return p == o }
