package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type Neo4jClient struct {
	Driver neo4j.DriverWithContext
}

// NewNeo4jDB connects to the customer graph. The graph store is the only
// consumer; the analysis engine itself never touches it.
func NewNeo4jDB() (*Neo4jClient, error) {
	uri := os.Getenv("NEO4J_URI")
	username := os.Getenv("NEO4J_USERNAME")
	password := os.Getenv("NEO4J_PASSWORD")

	if uri == "" {
		return nil, fmt.Errorf("NEO4J_URI environment variable is not set")
	}
	if username == "" {
		username = "neo4j"
	}

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify Neo4j connectivity: %w", err)
	}

	log.Println("Successfully connected to Neo4j database!")
	return &Neo4jClient{Driver: driver}, nil
}

func (c *Neo4jClient) Close() {
	if c.Driver != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Driver.Close(ctx); err != nil {
			log.Printf("Error closing Neo4j driver: %v", err)
		} else {
			log.Println("Neo4j connection closed.")
		}
	}
}
