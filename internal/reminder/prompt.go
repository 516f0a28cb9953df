package reminder

import (
	"fmt"
	"time"
)

const promptTemplate = `The current local time is %s.

Decide whether the following message asks to set a reminder. Answer with a single JSON object only, no prose, no code fences:

{"isReminder": boolean, "task": string, "minutesFromNow": number, "recurring": boolean, "intervalMinutes": number}

Rules:
- "in X minutes" or "in X hours" converts directly to minutesFromNow.
- An absolute time like "at 15:00" or "at 3pm" becomes the number of minutes between now and that time; if it already passed today, use tomorrow's occurrence.
- "every X minutes/hours" means recurring is true and intervalMinutes is the interval; minutesFromNow is the first occurrence.
- A pomodoro or focus-session request is a single reminder with minutesFromNow 25 and task "Pomodoro: take a break".
- task is the thing to be reminded about, as a short phrase without the time words.
- Anything that is not a reminder request (a weather question, small talk) is {"isReminder": false, "task": "", "minutesFromNow": 0, "recurring": false, "intervalMinutes": 0}.

Example: "remind me in 30 minutes to stretch" -> {"isReminder": true, "task": "stretch", "minutesFromNow": 30, "recurring": false, "intervalMinutes": 0}

Message: %q`

// BuildPrompt renders the extraction prompt for the given wall-clock
// time and the literal user message.
func BuildPrompt(now time.Time, message string) string {
	return fmt.Sprintf(promptTemplate, now.Format("Monday, 2 January 2006, 15:04"), message)
}
