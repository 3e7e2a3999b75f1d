package shared

// Background task types
const (
	TypePublishCatalog = "playbook:publish_catalog"
)

// Queue names, highest priority first
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// PublishCatalogPayload is the body of TypePublishCatalog. Reason is only
// informational ("import" or "schedule").
type PublishCatalogPayload struct {
	Reason string `json:"reason"`
}
