package conversation

// User-facing dialog strings. Error prompts always restate the expected
// format so a failed step can be retried as-is.
const (
	promptText     = "What do you need to do?"
	promptCategory = "Pick a category for the task, or type your own:"
	promptPriority = "How urgent is it?"
	promptDeadline = "When is it due? Send the deadline as DD.MM.YYYY HH:MM, e.g. 31.12.2024 15:00"

	promptEditText     = "Send the new task text:"
	promptEditDeadline = "Send the new deadline as DD.MM.YYYY HH:MM:"
	promptEditPriority = "Pick the new priority:"

	repromptText     = "The task text cannot be empty. What do you need to do?"
	repromptCategory = "Please pick one of the categories, or type your own:"
	repromptPriority = "Please pick one of the listed priorities (1, 2 or 3):"
	repromptDeadline = "That doesn't look like a date. Please use DD.MM.YYYY HH:MM, e.g. 31.12.2024 15:00"

	replyCreated      = "Task saved. I'll remind you before the deadline."
	replyUpdated      = "Task updated."
	replyTaskGone     = "That task no longer exists."
	replyStorageFault = "Something went wrong saving your task. Please try again."
	replyCancelled    = "Okay, cancelled."
)
