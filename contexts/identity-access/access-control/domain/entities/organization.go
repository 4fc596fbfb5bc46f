package entities

import "time"

// Organization is a registered body that organization-scoped elections
// reference by id. The id is opaque to the engine.
type Organization struct {
	OrgID     string
	Name      string
	CreatedBy string
	CreatedAt time.Time
}
