package models

// Lane belongs to a squad. Lanes are always provisioned in pairs.
type Lane struct {
	ID         string `json:"id"`
	SquadID    string `json:"squad_id"`
	LaneNumber int    `json:"lane_number"`
	InUse      bool   `json:"in_use"`
}

func (l Lane) GetID() string { return l.ID }

func (l Lane) WithID(id string) Lane {
	l.ID = id
	return l
}

func (l Lane) Equal(o Lane) bool { return l == o }
