// Package social mirrors the friend sets into a graph database so
// friend-of-friend recommendations stay a single query.
package social

import (
	"context"
	"errors"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const relFriend = "FRIENDS_WITH"

type Recommendation struct {
	UserID  string `json:"userId"`
	Mutuals int64  `json:"mutuals"`
}

type Graph struct {
	driver neo4j.DriverWithContext
}

func NewGraph(driver neo4j.DriverWithContext) *Graph {
	return &Graph{driver: driver}
}

func (g *Graph) AddFriend(ctx context.Context, from, to string) error {
	if from == to {
		return errors.New("cannot add yourself")
	}

	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		q := `
		MERGE (a:User {id:$from})
		MERGE (b:User {id:$to})
		MERGE (a)-[:` + relFriend + `]->(b)`
		_, err := tx.Run(ctx, q, map[string]any{"from": from, "to": to})
		return nil, err
	})
	return err
}

func (g *Graph) RemoveFriend(ctx context.Context, from, to string) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		q := `
		MATCH (a:User {id:$from})-[r:` + relFriend + `]->(b:User {id:$to})
		DELETE r`
		_, err := tx.Run(ctx, q, map[string]any{"from": from, "to": to})
		return nil, err
	})
	return err
}

func (g *Graph) Friends(ctx context.Context, userID string) ([]string, error) {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	data, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		q := `MATCH (:User {id:$u})-[:` + relFriend + `]->(f:User) RETURN f.id AS id ORDER BY id`
		res, err := tx.Run(ctx, q, map[string]any{"u": userID})
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0)
		for res.Next(ctx) {
			ids = append(ids, res.Record().Values[0].(string))
		}
		return ids, nil
	})
	if err != nil {
		return nil, err
	}
	ids, ok := data.([]string)
	if !ok {
		return nil, errors.New("invalid data format")
	}
	return ids, nil
}

// Recommend returns users the friends of userID have added, ranked by how
// many mutual friends they share.
func (g *Graph) Recommend(ctx context.Context, userID string, limit int) ([]Recommendation, error) {
	if limit <= 0 {
		limit = 10
	}

	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	data, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		q := `
		MATCH (me:User {id:$u})-[:` + relFriend + `]->(m:User)-[:` + relFriend + `]->(rec:User)
		WHERE NOT (me)-[:` + relFriend + `]->(rec) AND me <> rec
		RETURN rec.id AS id, COUNT(DISTINCT m) AS mutuals
		ORDER BY mutuals DESC, id ASC
		LIMIT $limit`
		res, err := tx.Run(ctx, q, map[string]any{"u": userID, "limit": limit})
		if err != nil {
			return nil, err
		}
		recs := make([]Recommendation, 0)
		for res.Next(ctx) {
			recs = append(recs, Recommendation{
				UserID:  res.Record().Values[0].(string),
				Mutuals: res.Record().Values[1].(int64),
			})
		}
		return recs, nil
	})
	if err != nil {
		return nil, err
	}
	recs, ok := data.([]Recommendation)
	if !ok {
		return nil, errors.New("invalid data format")
	}
	return recs, nil
}
