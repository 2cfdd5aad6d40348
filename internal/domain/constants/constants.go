package constants

// Pub/Sub provider selection values for config.PubSub.Provider.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)
