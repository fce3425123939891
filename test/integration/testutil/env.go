package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"vanity/pkg/client"
)

const DefaultHealthCheckTimeout = 30 * time.Second

type TestEnv struct {
	MongoURI          string
	DatabaseName      string
	ServerURL         string
	ContactFlowSecret string
}

// NewTestEnv reads the integration environment. Tests are skipped unless
// TEST_SERVER_URL points at a running service.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	serverURL := os.Getenv("TEST_SERVER_URL")
	if serverURL == "" {
		t.Skip("TEST_SERVER_URL not set, skipping integration tests")
	}

	return &TestEnv{
		MongoURI:          getEnv("TEST_MONGO_URI", DefaultMongoURI),
		DatabaseName:      getEnv("TEST_DB_NAME", DefaultDatabaseName),
		ServerURL:         serverURL,
		ContactFlowSecret: os.Getenv("TEST_CONTACT_FLOW_SECRET"),
	}
}

func (e *TestEnv) Setup(t *testing.T) (*MongoHelper, *client.VanityClient) {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanCollection(t, VanityNumbersCollection)

	c := client.NewVanityClient(e.ServerURL)
	if err := c.WaitForHealthy(context.Background(), DefaultHealthCheckTimeout); err != nil {
		t.Fatalf("service not healthy: %v", err)
	}

	return mongo, c
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanCollection(t, VanityNumbersCollection)
		mongo.Close(t)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
