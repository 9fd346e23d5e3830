package models

import (
	"fmt"
	"time"
)

// Post is a photo post: a description plus an ordered list of photo URLs.
type Post struct {
	ID          string
	Description string
	Photos      []string
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Age renders the time elapsed since t in a compact human form
// ("5s ago", "3h ago", "2w ago").
func Age(t time.Time, now time.Time) string {
	diff := int64(now.Sub(t).Seconds())
	if diff < 0 {
		diff = 0
	}
	switch {
	case diff < 60:
		return fmt.Sprintf("%ds ago", diff)
	case diff < 3600:
		return fmt.Sprintf("%dm ago", diff/60)
	case diff < 86400:
		return fmt.Sprintf("%dh ago", diff/3600)
	case diff < 604800:
		return fmt.Sprintf("%dd ago", diff/86400)
	case diff < 2419200:
		return fmt.Sprintf("%dw ago", diff/604800)
	case diff < 29030400:
		return fmt.Sprintf("%dmo ago", diff/2419200)
	default:
		return fmt.Sprintf("%dyr ago", diff/29030400)
	}
}
