package topics

const (
	EntityChanges = "sports_entity_changes"

	// canal Redis Pub/Sub consumido pelo hub WebSocket
	EntityChangesBroadcast = "sports_entity_changes_broadcast"
)
