package models

import (
	"encoding/json"
	"fmt"
)

// TournamentFull - турнир со всеми дочерними коллекциями.
// Порядок полей совпадает с порядком сохранения.
type TournamentFull struct {
	Tournament  Tournament   `json:"tournament"`
	Events      []Event      `json:"events"`
	Divisions   []Division   `json:"divisions"`
	Squads      []Squad      `json:"squads"`
	Lanes       []Lane       `json:"lanes"`
	Pots        []Pot        `json:"pots"`
	Brackets    []Bracket    `json:"brackets"`
	Eliminators []Eliminator `json:"eliminators"`
}

// NewBlankTournamentFull - снимок ещё не сохранённого турнира: пустые id,
// по одной заготовке в коллекциях событий, дивизионов и сквадов, две дорожки.
func NewBlankTournamentFull(organizerID int) TournamentFull {
	return TournamentFull{
		Tournament:  Tournament{OrganizerID: organizerID},
		Events:      []Event{{}},
		Divisions:   []Division{{}},
		Squads:      []Squad{{}},
		Lanes:       []Lane{{}, {}},
		Pots:        []Pot{},
		Brackets:    []Bracket{},
		Eliminators: []Eliminator{},
	}
}

// SaveLevel - шаг полного сохранения. LevelNone означает успех.
type SaveLevel int

const (
	LevelNone SaveLevel = iota
	LevelTournament
	LevelEvents
	LevelDivisions
	LevelSquads
	LevelLanes
	LevelPots
	LevelBrackets
	LevelEliminators
)

var saveLevelNames = map[SaveLevel]string{
	LevelNone:        "none",
	LevelTournament:  "tournament",
	LevelEvents:      "events",
	LevelDivisions:   "divisions",
	LevelSquads:      "squads",
	LevelLanes:       "lanes",
	LevelPots:        "pots",
	LevelBrackets:    "brackets",
	LevelEliminators: "eliminators",
}

func (l SaveLevel) String() string {
	if name, ok := saveLevelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("SaveLevel(%d)", int(l))
}

func (l SaveLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}
