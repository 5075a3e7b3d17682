package entities

import "time"

type Subscription struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PlanID       string    `json:"planId,omitempty"`
	ValidUntil   time.Time `json:"validUntil"`
	SessionsLeft int       `json:"sessionsLeft"`
	IsActive     bool      `json:"isActive"`
}

type UpcomingClass struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Date is yyyy-mm-dd and Time is HH:MM, both in the center's timezone
	Date      string `json:"date"`
	Time      string `json:"time"`
	Confirmed bool   `json:"confirmed"`
}

type Preferences struct {
	Reminders  bool `json:"reminders"`
	Expiry     bool `json:"expiry"`
	Balance    bool `json:"balance"`
	Promotions bool `json:"promotions"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Reminders:  true,
		Expiry:     true,
		Balance:    true,
		Promotions: false,
	}
}

// AuthRecord is written by a successful code verification
type AuthRecord struct {
	Phone           string    `json:"phone"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	LoginTime       time.Time `json:"loginTime"`
}

// ProfileRecord is the client's view of its own account, synced over PUT /profile
type ProfileRecord struct {
	Phone           string          `json:"phone"`
	Name            string          `json:"name,omitempty"`
	ChildName       string          `json:"childName,omitempty"`
	Subscriptions   []Subscription  `json:"subscriptions"`
	BonusPoints     int             `json:"bonusPoints"`
	UpcomingClasses []UpcomingClass `json:"upcomingClasses"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// UserNotificationSnapshot is rebuilt every tick and never stored
type UserNotificationSnapshot struct {
	Phone           string
	Subscriptions   []Subscription
	BonusPoints     int
	UpcomingClasses []UpcomingClass
	Preferences     Preferences
}

type ActivatePlanRequest struct {
	PlanID string `json:"planId"`
}
