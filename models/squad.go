package models

// Squad - смена (заезд) события. Дата и время хранятся строками
// в формате YYYY-MM-DD и HH:MM, так их вводит организатор.
type Squad struct {
	ID           string `json:"id"`
	EventID      string `json:"event_id"`
	Name         string `json:"name"`
	Games        int    `json:"games"`
	StartingLane int    `json:"starting_lane"`
	LaneCount    int    `json:"lane_count"`
	SquadDate    string `json:"squad_date"`
	SquadTime    string `json:"squad_time,omitempty"`
	SortOrder    int    `json:"sort_order"`
}

func (s Squad) GetID() string { return s.ID }

func (s Squad) WithID(id string) Squad {
	s.ID = id
	return s
}

func (s Squad) Equal(o Squad) bool { return s == o }
