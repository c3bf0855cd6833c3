package models

import "time"

type Category string

const (
	CategoryAnime     Category = "Anime"
	CategorySports    Category = "Sports"
	CategoryMusic     Category = "Music"
	CategoryAcademic  Category = "Academic"
	CategoryReligious Category = "Religious"
	CategorySocial    Category = "Social"
	CategoryOther     Category = "Other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryAnime, CategorySports, CategoryMusic, CategoryAcademic,
		CategoryReligious, CategorySocial, CategoryOther:
		return true
	}
	return false
}

type Event struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Location         string    `json:"location"`
	Date             time.Time `json:"date"`
	Time             string    `json:"time"`
	Category         Category  `json:"category"`
	Image            string    `json:"image,omitempty"`
	CreatedBy        string    `json:"created_by"`
	CreatorEmail     string    `json:"-"`
	IsPaid           bool      `json:"is_paid"`
	Price            float64   `json:"price"`
	TicketsAvailable *int      `json:"tickets_available"` // nil means unlimited
	Cancelled        bool      `json:"cancelled"`
	CreatedAt        time.Time `json:"created_at"`
}

// Unlimited reports whether the event has no capacity cap.
func (e *Event) Unlimited() bool {
	return e.TicketsAvailable == nil
}

// Analytics is the organizer-facing aggregate for a single event.
type Analytics struct {
	EventID        string  `json:"event_id"`
	TicketsSold    int     `json:"tickets_sold"`
	CheckedIn      int     `json:"checked_in"`
	Revenue        float64 `json:"revenue"`
	WaitlistSize   int     `json:"waitlist_size"`
	Remaining      *int    `json:"remaining"` // nil means unlimited
	EventCancelled bool    `json:"event_cancelled"`
}
