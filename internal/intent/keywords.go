package intent

import (
	"regexp"
	"strings"
)

// Keyword vocabularies per agent category. These lists are hand-tuned: some
// words appear in more than one set ("open" is both a file operation and an
// app launch verb) and the rule ordering in classifier.go is what breaks the
// ties.
var (
	whatsappKeywords = []string{
		"whatsapp", "message", "send to", "text", "tell", "let know",
		"inform", "send whatsapp", "whatsapp to", "message to", "share",
	}
	emailKeywords = []string{
		"email", "send email", "compose email", "draft email", "mail to",
	}
	calendarKeywords = []string{
		"calendar", "schedule", "schedule meeting", "create event",
		"add event", "appointment", "set reminder at", "remind me at",
	}
	phoneKeywords = []string{
		"call", "phone", "dial", "ring", "make a call",
	}
	paymentKeywords = []string{
		"pay", "payment", "send money", "transfer", "paypal",
		"googlepay", "paytm", "phonepe",
	}
	appKeywords = []string{
		"open", "launch", "start", "run", "chrome", "browser",
		"notepad", "calculator",
	}
	searchKeywords = []string{
		"google", "search for", "look up", "find on google",
		"youtube", "browse",
	}
	taskKeywords = []string{
		"task", "todo", "remind me", "reminder", "add task",
		"create task", "list tasks",
	}
	screenshotKeywords = []string{
		"screenshot", "capture screen", "screen capture",
		"take screenshot", "capture", "take a screenshot",
	}
	systemControlKeywords = []string{
		"volume", "mute", "unmute", "lock", "shutdown", "restart",
		"reboot", "sleep", "hibernate", "louder", "quieter",
		"volume up", "volume down", "increase volume", "decrease volume",
		"lock screen", "shut down", "turn off", "brightness",
		"brightness up", "brightness down", "brighter", "dimmer",
		"battery", "battery status", "battery level", "time",
		"what time", "current time", "what's the time",
	}

	// File signal is split in two: context words say a file is involved,
	// operation verbs say the user wants to act on one. Both must be present
	// for a filesearch classification.
	fileContextKeywords = []string{
		"file", "document", "folder", "pdf", "doc", "excel", "photo",
		"video", "music", "ownership", "report", "presentation",
	}
	fileExtensions = []string{
		".pdf", ".doc", ".docx", ".xls", ".xlsx", ".txt", ".jpg",
		".png", ".mp4", ".mp3",
	}
	fileOperationKeywords = []string{
		"find", "search", "open", "locate", "show me",
	}
	// Broader file vocabulary used only for the legacy file+send pairing.
	fileKeywords = []string{
		"find", "search", "open", "ownership", "folder", "photo", "video",
		"pdf", "doc", "docx", "excel", "presentation", "report",
	}

	informationQuestions = []string{
		"who is", "who's", "tell me about", "what do you know about",
		"information about", "details about", "tell me more about",
		"what is", "what's", "explain", "describe",
	}
	capabilityQuestions = []string{
		"can you", "are you able", "do you", "what can", "how do",
		"why", "how",
	}
	generalQuestionWords = []string{
		"what", "how", "why", "when", "where", "who", "?",
	}
	actionVerbs = []string{
		"find", "search", "open", "send",
	}

	whatsappPatterns = []string{
		"send whatsapp", "whatsapp to", "message to", "text to",
	}
)

// Conversational shape detection: a command is conversational only when it
// matches a pure social pattern and none of the task-command shapes.
var (
	taskCommandPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(send|message|text|whatsapp)\s+\w+\s+to\b`),
		regexp.MustCompile(`\b(send whatsapp|whatsapp to|message to|text to)\b`),
		regexp.MustCompile(`\b(find|search|open|locate)\s+\w+`),
		regexp.MustCompile(`\b(share|send)\s+\w+\s+(via|on|through)\s+whatsapp\b`),
	}
	conversationalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\s*(hi|hello|hey|good morning|good afternoon|good evening)\s*$`),
		regexp.MustCompile(`^\s*(how are you|what's up|how's it going)\s*\??\s*$`),
		regexp.MustCompile(`^\s*(who are you|what can you do|help|what are your capabilities)\s*\??\s*$`),
		regexp.MustCompile(`^\s*(thank you|thanks|appreciate)\s*$`),
		regexp.MustCompile(`^\s*(bye|goodbye|see you|exit|quit)\s*$`),
		regexp.MustCompile(`^\s*swara\s*$`),
	}
)

// IsConversational reports whether the input is purely social (greeting,
// thanks, farewell, capability smalltalk) rather than a task command.
func IsConversational(command string) bool {
	lower := strings.ToLower(command)

	for _, p := range taskCommandPatterns {
		if p.MatchString(lower) {
			return false
		}
	}
	for _, p := range conversationalPatterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}

// signals holds the precomputed keyword membership facts one command
// exhibits. Rules read these; they never rescan the text themselves.
type signals struct {
	isInformationQuery   bool
	isCapabilityQuestion bool
	isGeneralQuestion    bool

	hasFileContext   bool
	hasFileOperation bool

	hasWhatsApp      bool
	isWhatsAppShaped bool // structural patterns like "whatsapp to"
	hasEmail         bool
	hasCalendar      bool
	hasPhone         bool
	hasPayment       bool
	hasApp           bool
	hasSearch        bool
	hasTask          bool
	hasScreenshot    bool
	hasSystemControl bool

	isFileSendPair   bool // file vocabulary co-occurring with "send"
	isConversational bool
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// computeSignals lower-cases the command once and evaluates every keyword
// membership test.
func computeSignals(command string) signals {
	lower := strings.ToLower(command)

	var sig signals

	sig.isInformationQuery = containsAny(lower, informationQuestions)
	sig.isCapabilityQuestion = containsAny(lower, capabilityQuestions)
	sig.isGeneralQuestion = containsAny(lower, generalQuestionWords) &&
		!containsAny(lower, actionVerbs)

	sig.hasFileContext = containsAny(lower, fileContextKeywords) ||
		containsAny(lower, fileExtensions)
	sig.hasFileOperation = containsAny(lower, fileOperationKeywords) &&
		sig.hasFileContext &&
		!sig.isInformationQuery &&
		!sig.isCapabilityQuestion

	sig.hasWhatsApp = containsAny(lower, whatsappKeywords)
	sig.isWhatsAppShaped = containsAny(lower, whatsappPatterns)
	sig.hasEmail = containsAny(lower, emailKeywords)
	sig.hasCalendar = containsAny(lower, calendarKeywords)
	sig.hasPhone = containsAny(lower, phoneKeywords)
	sig.hasPayment = containsAny(lower, paymentKeywords)
	sig.hasApp = containsAny(lower, appKeywords)
	sig.hasSearch = containsAny(lower, searchKeywords)
	sig.hasTask = containsAny(lower, taskKeywords)
	sig.hasScreenshot = containsAny(lower, screenshotKeywords)
	sig.hasSystemControl = containsAny(lower, systemControlKeywords)

	sig.isFileSendPair = strings.Contains(lower, "send") &&
		containsAny(lower, fileKeywords)
	sig.isConversational = IsConversational(command)

	return sig
}
