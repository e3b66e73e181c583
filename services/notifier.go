// services/notifier.go
package services

import (
	"log"

	"teamhq/models"
)

// Notifier delivers out-of-band messages. Delivery content and transport are
// external collaborators; this core only fires the event and moves on.
type Notifier interface {
	TransferInitiated(email string, team *models.Team, token string)
}

type logNotifier struct{}

// NewLogNotifier returns a notifier that logs instead of sending. The real
// mail sender plugs in behind the same interface.
func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) TransferInitiated(email string, team *models.Team, token string) {
	suffix := token
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	log.Printf("📧 ownership transfer for team %q queued for %s (token %s…)", team.Name, email, suffix)
}
