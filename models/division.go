package models

type HdcpFor string

const (
	HdcpForGame   HdcpFor = "Game"
	HdcpForSeries HdcpFor = "Series"
)

type Division struct {
	ID           string  `json:"id"`
	TournamentID string  `json:"tournament_id"`
	Name         string  `json:"name"`
	HdcpPercent  int     `json:"hdcp_percent"`
	HdcpFrom     int     `json:"hdcp_from"`
	IntegerHdcp  bool    `json:"integer_hdcp"`
	HdcpFor      HdcpFor `json:"hdcp_for"`
	SortOrder    int     `json:"sort_order"`
}

func (d Division) GetID() string { return d.ID }

func (d Division) WithID(id string) Division {
	d.ID = id
	return d
}

func (d Division) Equal(o Division) bool { return d == o }
