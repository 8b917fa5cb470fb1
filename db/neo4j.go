package db

import (
	"context"
	"log"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

func ConnectNeo4j(uri, user, pass string) (neo4j.DriverWithContext, error) {
	var drv neo4j.DriverWithContext
	var err error
	maxRetries := 5
	retryDelay := 3 * time.Second

	for i := 1; i <= maxRetries; i++ {
		drv, err = neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, pass, ""))
		if err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err = drv.VerifyConnectivity(ctx)
			cancel()
			if err == nil {
				return drv, nil
			}
			log.Printf("[WARN] Attempt %d: Neo4j not reachable: %v", i, err)
		} else {
			log.Printf("[WARN] Attempt %d: Failed to create Neo4j driver: %v", i, err)
		}

		if i < maxRetries {
			time.Sleep(retryDelay)
		}
	}

	return nil, err
}
