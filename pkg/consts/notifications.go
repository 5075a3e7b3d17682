package consts

import "time"

// notification types, also used as push data.type
const (
	Reminder  = "reminder"
	Expiry    = "expiry"
	Balance   = "balance"
	Promotion = "promotion"
)

const (
	LowBalanceKey = "low_balance"

	NotificationClick = "NOTIFICATION_CLICK"

	ActionOpen  = "open"
	ActionClose = "close"
)

// click targets per notification type
const (
	ReminderURL  = "/#classes"
	ExpiryURL    = "/#subscriptions"
	BalanceURL   = "/#profile"
	PromotionURL = "/#shop"
	DefaultURL   = "/"
)

// PromoWindow is a weekly calendar slot in the configured timezone
type PromoWindow struct {
	ID      string
	Weekday time.Weekday
	Hour    int
	Title   string
	Body    string
	URL     string
}

var PromoWindows = []PromoWindow{
	{
		ID:      "weekend",
		Weekday: time.Friday,
		Hour:    18,
		Title:   "Выходные с пользой!",
		Body:    "Запишите ребёнка на занятия в субботу и воскресенье",
		URL:     "/#schedule",
	},
	{
		ID:      "new_week",
		Weekday: time.Monday,
		Hour:    8,
		Title:   "Новая неделя, новые открытия",
		Body:    "Посмотрите расписание занятий на эту неделю",
		URL:     "/#schedule",
	},
}
