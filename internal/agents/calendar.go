package agents

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/swaralabs/swara/internal/agent"
	"github.com/swaralabs/swara/internal/logging"
)

const calendarRenderBase = "https://calendar.google.com/calendar/render"

var (
	// "schedule meeting with jay tomorrow at 3pm", "create event standup at 9am"
	calendarTitlePattern = regexp.MustCompile(`(?i)(?:schedule|create|add|set up)\s+(?:an?\s+)?(?:event|meeting|appointment|reminder)?\s*(.*?)(?:\s+(?:today|tomorrow|at|on)\b.*)?$`)
	calendarTimePattern  = regexp.MustCompile(`(?i)\bat\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
)

// CalendarAgent builds Google Calendar event-template URLs.
type CalendarAgent struct {
	opener URLOpener
	now    func() time.Time
	log    zerolog.Logger
}

// NewCalendar creates the calendar agent. opener may be nil.
func NewCalendar(opener URLOpener) *CalendarAgent {
	return &CalendarAgent{
		opener: opener,
		now:    time.Now,
		log:    logging.Component("calendar"),
	}
}

// Name implements agent.Agent.
func (c *CalendarAgent) Name() string { return "calendar" }

// Process parses the event title and start time out of the command and builds
// a prefilled Google Calendar link. Events default to one hour.
func (c *CalendarAgent) Process(_ context.Context, command string) *agent.Result {
	title := parseEventTitle(command)
	if title == "" {
		title = "New Event"
	}

	start := c.parseStart(command)
	end := start.Add(time.Hour)

	calURL := CalendarEventURL(title, start, end)
	if err := open(c.opener, calURL); err != nil {
		return agent.Fail(fmt.Sprintf("could not open calendar: %v", err))
	}
	c.log.Info().Str("title", title).Time("start", start).Msg("calendar event ready")

	return agent.OK(fmt.Sprintf("Calendar event %q is ready at %s", title, start.Format("Mon Jan 2 3:04 PM"))).
		With("calendar_url", calURL).
		With("title", title)
}

func parseEventTitle(command string) string {
	m := calendarTitlePattern.FindStringSubmatch(command)
	if m == nil {
		return ""
	}
	title := strings.TrimSpace(m[1])
	title = strings.TrimPrefix(title, "with ")
	return strings.TrimSpace(title)
}

// parseStart resolves "at N[:MM][am|pm]" plus today/tomorrow words. Without a
// usable time, the event lands at the top of the next hour.
func (c *CalendarAgent) parseStart(command string) time.Time {
	now := c.now()
	day := now
	lower := strings.ToLower(command)
	if strings.Contains(lower, "tomorrow") {
		day = now.AddDate(0, 0, 1)
	}

	m := calendarTimePattern.FindStringSubmatch(command)
	if m == nil {
		next := now.Truncate(time.Hour).Add(time.Hour)
		return time.Date(day.Year(), day.Month(), day.Day(), next.Hour(), 0, 0, 0, now.Location())
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	switch strings.ToLower(m[3]) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())
}

// CalendarEventURL builds a Google Calendar event-template link.
func CalendarEventURL(title string, start, end time.Time) string {
	const stamp = "20060102T150405"
	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", title)
	params.Set("dates", start.Format(stamp)+"/"+end.Format(stamp))
	return calendarRenderBase + "?" + params.Encode()
}
