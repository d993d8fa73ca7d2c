package models

import "time"

// Tournament - корневая запись агрегата.
type Tournament struct {
	ID          string    `json:"id"`
	OrganizerID int       `json:"organizer_id"`
	Name        string    `json:"name"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Location    string    `json:"location"`
	LogoKey     string    `json:"-"`
	LogoURL     *string   `json:"logo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (t Tournament) GetID() string { return t.ID }

func (t Tournament) WithID(id string) Tournament {
	t.ID = id
	return t
}

// Equal сравнивает только бизнес-поля: CreatedAt и LogoURL вычисляются.
func (t Tournament) Equal(o Tournament) bool {
	return t.ID == o.ID &&
		t.OrganizerID == o.OrganizerID &&
		t.Name == o.Name &&
		t.StartDate.Equal(o.StartDate) &&
		t.EndDate.Equal(o.EndDate) &&
		t.Location == o.Location &&
		t.LogoKey == o.LogoKey
}
