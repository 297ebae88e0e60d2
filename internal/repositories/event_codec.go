package repositories

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BradenHooton/decoyra/internal/models"
)

// Line markers. The emoji prefixes are written for compatibility with existing
// attack logs and are optional when reading.
const (
	loginEmoji     = "\U0001F6A8"
	alertEmoji     = "\u26a0\ufe0f"
	alertEmojiBare = "\u26a0"

	loginMarker = "LOGIN ATTEMPT"
	alertMarker = "POSSIBLE BRUTE FORCE ATTACK"
	scamMarker  = "SCAM MESSAGE"

	fieldSep = " | "

	timestampLayout     = "2006-01-02 15:04:05"
	timestampLayoutFrac = "2006-01-02 15:04:05.000000"
	noUserAgent         = "None"
)

var (
	loginKeys = []string{"ENDPOINT=", "IP=", "User-Agent=", "USERNAME=", "PASSWORD="}
	alertKeys = []string{"IP=", "ATTEMPTS="}
	scamKeys  = []string{"IP=", "TEXT="}

	lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
)

// EncodeEvent renders an event as a single log line without the trailing newline.
//
// Formats:
//
//	🚨 LOGIN ATTEMPT [ts] ENDPOINT=e | IP=ip | User-Agent=ua | USERNAME=u | PASSWORD=p
//	[ts] ⚠️ POSSIBLE BRUTE FORCE ATTACK | IP=ip | ATTEMPTS=n
//	SCAM MESSAGE | IP=ip | TEXT=text
func EncodeEvent(event models.Event) (string, error) {
	var b strings.Builder

	switch ev := event.(type) {
	case models.LoginAttempt:
		ua := ev.UserAgent
		if ua == "" {
			ua = noUserAgent
		}
		b.WriteString(loginEmoji + " " + loginMarker + " ")
		b.WriteString("[" + formatTimestamp(ev.Timestamp) + "] ")
		writeFields(&b, loginKeys, ev.Endpoint, ev.ClientIP, ua, ev.Username, ev.Password)
	case models.BruteForceAlert:
		b.WriteString("[" + formatTimestamp(ev.Timestamp) + "] ")
		b.WriteString(alertEmoji + " " + alertMarker + fieldSep)
		writeFields(&b, alertKeys, ev.ClientIP, strconv.Itoa(ev.AttemptCount))
	case models.ScamMessage:
		b.WriteString(scamMarker + fieldSep)
		writeFields(&b, scamKeys, ev.ClientIP, ev.Text)
	default:
		return "", fmt.Errorf("cannot encode event of type %T", event)
	}

	return b.String(), nil
}

// DecodeEvent parses one log line. Lines that match no known marker, or whose
// fields are missing, return ErrUnrecognizedLine and should be skipped.
func DecodeEvent(line string) (models.Event, error) {
	line = strings.TrimRight(line, "\r\n")

	if rest, ok := cutMarker(line, loginMarker+" ", loginEmoji); ok {
		return decodeLogin(rest)
	}

	if rest, ok := strings.CutPrefix(line, scamMarker+fieldSep); ok {
		values, ok := splitFields(rest, scamKeys)
		if !ok {
			return nil, models.ErrUnrecognizedLine
		}
		return models.ScamMessage{ClientIP: values[0], Text: values[1]}, nil
	}

	if ts, rest, ok := cutTimestamp(line); ok {
		if rest, ok := cutMarker(rest, alertMarker+fieldSep, alertEmoji, alertEmojiBare); ok {
			return decodeAlert(ts, rest)
		}
	}

	return nil, models.ErrUnrecognizedLine
}

func decodeLogin(rest string) (models.Event, error) {
	ts, rest, ok := cutTimestamp(rest)
	if !ok {
		return nil, models.ErrUnrecognizedLine
	}

	values, ok := splitFields(rest, loginKeys)
	if !ok {
		return nil, models.ErrUnrecognizedLine
	}

	ua := values[2]
	if ua == noUserAgent {
		ua = ""
	}

	return models.LoginAttempt{
		Timestamp: ts,
		Endpoint:  values[0],
		ClientIP:  values[1],
		UserAgent: ua,
		Username:  values[3],
		Password:  values[4],
	}, nil
}

func decodeAlert(ts time.Time, rest string) (models.Event, error) {
	values, ok := splitFields(rest, alertKeys)
	if !ok {
		return nil, models.ErrUnrecognizedLine
	}

	// A damaged count still marks the dedupe boundary, so keep the alert.
	count, err := strconv.Atoi(strings.TrimSpace(values[1]))
	if err != nil {
		count = 0
	}

	return models.BruteForceAlert{
		Timestamp:    ts,
		ClientIP:     values[0],
		AttemptCount: count,
	}, nil
}

// cutMarker strips one optional emoji prefix, then requires marker.
// The bare warning sign covers editors that drop the variation selector.
func cutMarker(line, marker string, emojis ...string) (string, bool) {
	for _, emoji := range emojis {
		if rest, ok := strings.CutPrefix(line, emoji+" "); ok {
			line = rest
			break
		}
	}
	return strings.CutPrefix(line, marker)
}

// cutTimestamp reads a leading "[ts] " block. An unparseable timestamp yields
// the zero time rather than rejecting the line.
func cutTimestamp(s string) (time.Time, string, bool) {
	if !strings.HasPrefix(s, "[") {
		return time.Time{}, "", false
	}
	end := strings.Index(s, "] ")
	if end < 0 {
		return time.Time{}, "", false
	}
	return parseTimestamp(s[1:end]), s[end+2:], true
}

// splitFields reads KEY=value pairs in the given order. Each value runs up to
// the next expected key, and the last value takes the rest of the line.
func splitFields(s string, keys []string) ([]string, bool) {
	rest, ok := strings.CutPrefix(s, keys[0])
	if !ok {
		return nil, false
	}

	values := make([]string, len(keys))
	for i := 1; i < len(keys); i++ {
		sep := fieldSep + keys[i]
		idx := strings.Index(rest, sep)
		if idx < 0 {
			return nil, false
		}
		values[i-1] = rest[:idx]
		rest = rest[idx+len(sep):]
	}
	values[len(keys)-1] = rest

	return values, true
}

func writeFields(b *strings.Builder, keys []string, values ...string) {
	for i, key := range keys {
		if i > 0 {
			b.WriteString(fieldSep)
		}
		b.WriteString(key)
		b.WriteString(lineBreaks.Replace(values[i]))
	}
}

// formatTimestamp matches the "YYYY-MM-DD HH:MM:SS[.ffffff]" form used by
// existing logs: the fraction is omitted when there are no microseconds.
func formatTimestamp(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format(timestampLayout)
	}
	return t.Format(timestampLayoutFrac)
}

func parseTimestamp(s string) time.Time {
	// the parser accepts an optional fractional second even without one in the layout
	t, err := time.Parse(timestampLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}
