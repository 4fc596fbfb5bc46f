package events

import "strings"

// Topic names carried on the bus. One topic per bounded context keeps
// per-election ordering intact through the partition key.
const (
	TopicAccess   = "suffrage.access.events"
	TopicElection = "suffrage.election.events"
)

// TopicFor routes an event type to its context topic. Unknown prefixes land
// on the election topic, which is where new event families are expected to
// appear first.
func TopicFor(eventType string) string {
	switch {
	case strings.HasPrefix(eventType, "role."),
		strings.HasPrefix(eventType, "organization."):
		return TopicAccess
	default:
		return TopicElection
	}
}
