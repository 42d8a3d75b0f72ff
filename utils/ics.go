package utils

import (
	"fmt"
	"strings"
	"time"
)

const icsTimeLayout = "20060102T150405Z"

// BuildEventICS renders a single-event iCalendar document for the
// "add to calendar" download. Lines are CRLF separated per RFC 5545.
func BuildEventICS(uid, name, description, venue string, start, end time.Time) string {
	if end.IsZero() || end.Before(start) {
		end = start.Add(2 * time.Hour)
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//event-registration//EN",
		"BEGIN:VEVENT",
		"UID:" + icsEscape(uid),
		"DTSTAMP:" + time.Now().UTC().Format(icsTimeLayout),
		"DTSTART:" + start.UTC().Format(icsTimeLayout),
		"DTEND:" + end.UTC().Format(icsTimeLayout),
		"SUMMARY:" + icsEscape(name),
	}
	if description != "" {
		lines = append(lines, "DESCRIPTION:"+icsEscape(description))
	}
	if venue != "" {
		lines = append(lines, "LOCATION:"+icsEscape(venue))
	}
	lines = append(lines, "END:VEVENT", "END:VCALENDAR")

	return strings.Join(lines, "\r\n") + "\r\n"
}

func icsEscape(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
		"\r", "",
	)
	return r.Replace(s)
}

// ICSFilename returns a safe attachment filename for an event name.
func ICSFilename(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		default:
			return -1
		}
	}, name)
	if cleaned == "" {
		cleaned = "event"
	}
	return fmt.Sprintf("%s.ics", strings.Trim(cleaned, "-"))
}
