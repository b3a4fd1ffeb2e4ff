package constants

const (
	ReminderTitlePrefix = "Reminder: "
	OverdueTitlePrefix  = "Overdue: "

	ReminderBody         = "This task is due!"
	OverdueBody          = "This task is overdue! Please complete it."
	RecurringOverdueBody = "This recurring task is due! Please complete it."
)
