package models

type Eliminator struct {
	ID         string `json:"id"`
	DivisionID string `json:"division_id"`
	SquadID    string `json:"squad_id"`
	Fee        string `json:"fee"`
	StartGame  int    `json:"start_game"`
	Games      int    `json:"games"`
	SortOrder  int    `json:"sort_order"`
}

func (e Eliminator) GetID() string { return e.ID }

func (e Eliminator) WithID(id string) Eliminator {
	e.ID = id
	return e
}

func (e Eliminator) Equal(o Eliminator) bool { return e == o }
