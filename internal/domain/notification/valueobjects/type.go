package valueobjects

import "fmt"

type NotificationType string

const (
	TypeTicketDueSoon        NotificationType = "ticket_due_soon"
	TypeTicketActivityDigest NotificationType = "ticket_activity_digest"
	TypeTicketAssigned       NotificationType = "ticket_assigned"
	TypeSystem               NotificationType = "system"
)

var validTypes = map[NotificationType]bool{
	TypeTicketDueSoon:        true,
	TypeTicketActivityDigest: true,
	TypeTicketAssigned:       true,
	TypeSystem:               true,
}

func (t NotificationType) IsValid() bool {
	return validTypes[t]
}

func (t NotificationType) String() string {
	return string(t)
}

func NewNotificationType(s string) (NotificationType, error) {
	t := NotificationType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid notification type: %s", s)
	}
	return t, nil
}

// IsDigest reports whether the type belongs to the daily digest snapshot.
// Digest notifications are replaced wholesale on every successful run, never
// accumulated.
func (t NotificationType) IsDigest() bool {
	return t == TypeTicketDueSoon || t == TypeTicketActivityDigest
}

// DigestTypes lists every type replaced by a digest run.
func DigestTypes() []NotificationType {
	return []NotificationType{TypeTicketDueSoon, TypeTicketActivityDigest}
}
