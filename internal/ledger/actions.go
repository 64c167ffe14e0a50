package ledger

import (
	"fmt"
	"strings"
	"time"
)

// ModActionRecord describes a moderation action for the caller to apply.
// The ledger only builds the record and message; the chat-platform adapter
// performs the actual timeout/kick/ban and persists the audit entry.
type ModActionRecord struct {
	Action          Action
	UserName        string
	Reason          string
	Moderator       string
	Message         string
	DurationMinutes int           // mute only
	Duration        time.Duration // mute only, for the platform timeout API
}

// MuteRecord builds a mute action record. Duration carries the minute count
// as a time.Duration for the platform timeout call.
func MuteRecord(userName string, durationMinutes int, reason, moderator string) ModActionRecord {
	return ModActionRecord{
		Action:          ActionMute,
		UserName:        userName,
		Reason:          reason,
		Moderator:       moderator,
		DurationMinutes: durationMinutes,
		Duration:        time.Duration(durationMinutes) * time.Minute,
		Message: fmt.Sprintf("%s has been muted for %d minutes. Reason: %s",
			userName, durationMinutes, reason),
	}
}

// KickRecord builds a kick action record.
func KickRecord(userName, reason, moderator string) ModActionRecord {
	return ModActionRecord{
		Action:    ActionKick,
		UserName:  userName,
		Reason:    reason,
		Moderator: moderator,
		Message:   fmt.Sprintf("%s has been kicked. Reason: %s", userName, reason),
	}
}

// BanRecord builds a ban action record.
func BanRecord(userName, reason, moderator string) ModActionRecord {
	return ModActionRecord{
		Action:    ActionBan,
		UserName:  userName,
		Reason:    reason,
		Moderator: moderator,
		Message:   fmt.Sprintf("%s has been banned. Reason: %s", userName, reason),
	}
}

// FormatModLog renders a moderation action as a multi-line log entry for
// operator visibility.
func FormatModLog(action Action, moderator, target, reason string) string {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	return fmt.Sprintf("[%s] MOD ACTION: %s\n  Moderator: %s\n  Target: %s\n  Reason: %s",
		timestamp, strings.ToUpper(string(action)), moderator, target, reason)
}
