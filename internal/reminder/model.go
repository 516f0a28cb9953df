package reminder

// Intent is the structured record extracted from a natural-language
// reminder request. Every field is always present; a message that is
// not a reminder (or output that could not be parsed) yields the zero
// record with IsReminder false.
type Intent struct {
	IsReminder      bool   `json:"isReminder"`
	Task            string `json:"task"`
	MinutesFromNow  int    `json:"minutesFromNow"`
	Recurring       bool   `json:"recurring"`
	IntervalMinutes int    `json:"intervalMinutes"`
}

// ParseRequest is the body of POST /api/parse-reminder.
type ParseRequest struct {
	Message string `json:"message" validate:"required,min=1"`
}
