package agents

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestCalendarAgent(t *testing.T) {
	c := NewCalendar(nil)
	c.now = func() time.Time {
		return time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)
	}
	ctx := context.Background()

	t.Run("explicit time tomorrow", func(t *testing.T) {
		res := c.Process(ctx, "schedule meeting with jay tomorrow at 3pm")
		if !res.Success {
			t.Fatalf("Process failed: %s", res.Message)
		}
		url, _ := res.ExtraString("calendar_url")
		if !strings.Contains(url, "action=TEMPLATE") {
			t.Errorf("calendar_url = %q", url)
		}
		if !strings.Contains(url, "20250311T150000%2F20250311T160000") {
			t.Errorf("calendar_url dates wrong: %q", url)
		}
	})

	t.Run("title extraction", func(t *testing.T) {
		res := c.Process(ctx, "create event standup at 9am")
		if !res.Success {
			t.Fatalf("Process failed: %s", res.Message)
		}
		title, _ := res.ExtraString("title")
		if title != "standup" {
			t.Errorf("title = %q", title)
		}
	})

	t.Run("no time defaults to next hour", func(t *testing.T) {
		res := c.Process(ctx, "schedule a meeting")
		if !res.Success {
			t.Fatalf("Process failed: %s", res.Message)
		}
		url, _ := res.ExtraString("calendar_url")
		if !strings.Contains(url, "20250310T100000") {
			t.Errorf("calendar_url = %q", url)
		}
	})
}

func TestCalendarEventURL(t *testing.T) {
	start := time.Date(2025, time.March, 11, 15, 0, 0, 0, time.UTC)
	got := CalendarEventURL("sync up", start, start.Add(time.Hour))
	want := "https://calendar.google.com/calendar/render?action=TEMPLATE&dates=20250311T150000%2F20250311T160000&text=sync+up"
	if got != want {
		t.Errorf("CalendarEventURL = %q, want %q", got, want)
	}
}
