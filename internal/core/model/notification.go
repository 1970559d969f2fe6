package model

const (
	NotificationTypeRefundRequest = "refund_request"

	// AudienceAdmin marks entries meant for the admin panel only.
	AudienceAdmin = "admin"
)

// Notification is an entry of the append-only log. Without TargetEmail it is
// a broadcast. ID is set on every entry written by this module; entries from
// older pages have none and are keyed by Timestamp instead.
type Notification struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	Timestamp   Stamp  `json:"timestamp"`
	TargetEmail string `json:"targetEmail,omitempty"`
	Type        string `json:"type,omitempty"`
	ID          string `json:"id,omitempty"`
	Audience    string `json:"audience,omitempty"`
}

func (n Notification) IsBroadcast() bool { return n.TargetEmail == "" }

// AdminOnly reports whether the entry belongs to the admin panel. Refund
// requests written by older storefront pages carry the type but no audience.
func (n Notification) AdminOnly() bool {
	return n.Audience == AudienceAdmin || n.Type == NotificationTypeRefundRequest
}

// SeenKey identifies the entry in the seen set.
func (n Notification) SeenKey() Stamp {
	if n.ID != "" {
		return TextStamp(n.ID)
	}
	return n.Timestamp
}
