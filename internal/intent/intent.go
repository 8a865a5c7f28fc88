// Package intent classifies natural-language commands into the agent that
// should handle them. Classification is a staged cascade: a multi-task
// structural check, an ordered list of keyword rules, and an LLM fallback
// constrained to the fixed agent vocabulary.
package intent

// Intent is the classified category of a command.
type Intent string

const (
	// WhatsApp covers WhatsApp messaging.
	WhatsApp Intent = "whatsapp"
	// Email covers email composition.
	Email Intent = "email"
	// Calendar covers scheduling meetings and events.
	Calendar Intent = "calendar"
	// Phone covers placing calls.
	Phone Intent = "phone"
	// Payment covers sending money through payment apps.
	Payment Intent = "payment"
	// AppLauncher covers opening applications.
	AppLauncher Intent = "app_launcher"
	// WebSearch covers web searches.
	WebSearch Intent = "websearch"
	// Task covers reminders and to-do management.
	Task Intent = "task"
	// Screenshot covers screen capture.
	Screenshot Intent = "screenshot"
	// SystemControl covers volume, brightness, power, battery and time.
	SystemControl Intent = "system_control"
	// FileSearch covers finding, opening and sharing files.
	FileSearch Intent = "filesearch"
	// Conversation covers greetings, questions and general chat.
	Conversation Intent = "conversation"
	// MultiTask marks commands that need an ordered workflow of agents.
	MultiTask Intent = "multi_task"
	// MultiAgent is the deprecated simplified file+communication chain,
	// retained for compatibility with commands the older router produced.
	MultiAgent Intent = "multi_agent"
)

// All returns the full intent vocabulary.
func All() []Intent {
	return []Intent{
		WhatsApp, Email, Calendar, Phone, Payment, AppLauncher,
		WebSearch, Task, Screenshot, SystemControl, FileSearch,
		Conversation, MultiTask, MultiAgent,
	}
}

// AgentIntents returns the intents that map one-to-one onto registered
// agents, i.e. everything except the workflow intents.
func AgentIntents() []Intent {
	return []Intent{
		WhatsApp, Email, Calendar, Phone, Payment, AppLauncher,
		WebSearch, Task, Screenshot, SystemControl, FileSearch,
		Conversation,
	}
}

// String returns the string form of the intent.
func (i Intent) String() string { return string(i) }

// IsValid reports whether the intent belongs to the closed vocabulary.
func (i Intent) IsValid() bool {
	for _, v := range All() {
		if i == v {
			return true
		}
	}
	return false
}

// IsWorkflow reports whether the intent dispatches to a workflow rather than
// a single agent.
func (i Intent) IsWorkflow() bool {
	return i == MultiTask || i == MultiAgent
}
