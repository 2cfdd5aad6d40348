package config

import "testing"

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"firestore": map[string]any{
			"projectId":        "",
			"ordersCollection": "orders",
		},
		"pubsub": map[string]any{
			"topicId": "",
		},
		"functions": map[string]any{
			"baseUrl": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "FIRESTORE_PROJECTID", want: "firestore.projectId"},
		{envKey: "FIRESTORE_ORDERSCOLLECTION", want: "firestore.ordersCollection"},
		{envKey: "PUBSUB_TOPICID", want: "pubsub.topicId"},
		{envKey: "FUNCTIONS_BASEURL", want: "functions.baseUrl"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}
