package order

import (
	"strconv"
	"strings"
	"time"
)

const confirmationPrefix = "RBD-"

// ConfirmationCode derives the display code shown to the shopper. It uses
// the last 8 characters of the payment session id, or the current time when
// there is no session (demo checkout).
func ConfirmationCode(sessionID string, now time.Time) string {
	if sessionID == "" {
		return confirmationPrefix + strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	}
	if len(sessionID) > 8 {
		sessionID = sessionID[len(sessionID)-8:]
	}
	return confirmationPrefix + strings.ToUpper(sessionID)
}
