package main

import (
	"context"
	"flag"
	"fmt"

	"gennit/backend/internal/graph"
	"gennit/backend/pkg/config"
	"gennit/backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

func main() {
	demo := flag.Bool("demo", false, "Also create demo users, a comment and a discussion channel")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting database seeding...")

	ctx := context.Background()
	driver, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword, cfg.ConnectMaxRetries)
	if err != nil {
		log.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	defer driver.Close(ctx)

	// Create constraints
	log.Info("Creating constraints...")
	if err := createConstraints(ctx, driver, cfg.Neo4jDatabase); err != nil {
		log.Warn("Failed to create some constraints (may already exist)", zap.Error(err))
	}

	if !*demo {
		log.Info("Seed completed (schema only)")
		return
	}

	ids, err := createDemoForum(ctx, driver, cfg.Neo4jDatabase)
	if err != nil {
		log.Fatal("Failed to create demo data", zap.Error(err))
	}

	log.Info("Demo forum seeded",
		zap.String("comment_id", ids.comment),
		zap.String("discussion_channel_id", ids.discussionChannel),
		zap.Strings("users", []string{"alice", "bob", "carol"}),
	)
}

// createConstraints creates the uniqueness constraints the vote queries
// rely on for single-node lookups
func createConstraints(ctx context.Context, driver neo4j.DriverWithContext, database string) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite, DatabaseName: database})
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT user_username_unique IF NOT EXISTS FOR (u:User) REQUIRE u.username IS UNIQUE",
		"CREATE CONSTRAINT comment_id_unique IF NOT EXISTS FOR (c:Comment) REQUIRE c.id IS UNIQUE",
		"CREATE CONSTRAINT discussion_id_unique IF NOT EXISTS FOR (d:Discussion) REQUIRE d.id IS UNIQUE",
		"CREATE CONSTRAINT discussion_channel_id_unique IF NOT EXISTS FOR (dc:DiscussionChannel) REQUIRE dc.id IS UNIQUE",
	}

	var firstErr error
	for _, constraint := range constraints {
		if _, err := session.Run(ctx, constraint, nil); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

type demoIDs struct {
	comment           string
	discussionChannel string
}

// createDemoForum creates alice (seasoned, high karma), bob (the author)
// and carol (brand new), plus one comment and one discussion channel by bob
func createDemoForum(ctx context.Context, driver neo4j.DriverWithContext, database string) (demoIDs, error) {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite, DatabaseName: database})
	defer session.Close(ctx)

	ids := demoIDs{
		comment:           uuid.NewString(),
		discussionChannel: uuid.NewString(),
	}

	query := `
		MERGE (alice:User {username: 'alice'})
		ON CREATE SET alice.commentKarma = 100, alice.discussionKarma = 100,
		              alice.createdAt = datetime() - duration({months: 12})
		MERGE (bob:User {username: 'bob'})
		ON CREATE SET bob.commentKarma = 0, bob.discussionKarma = 0,
		              bob.createdAt = datetime() - duration({months: 3})
		MERGE (carol:User {username: 'carol'})
		ON CREATE SET carol.commentKarma = 0, carol.discussionKarma = 0,
		              carol.createdAt = datetime()
		CREATE (bob)-[:AUTHORED_COMMENT]->(:Comment {id: $commentID, text: 'First!', weightedVotesCount: 0.0})
		CREATE (bob)-[:POSTED_DISCUSSION]->(:Discussion {id: $discussionID, title: 'Welcome'})
		       -[:POSTED_IN_CHANNEL]->(:DiscussionChannel {id: $discussionChannelID, channelUniqueName: 'general', weightedVotesCount: 0.0})
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"commentID":           ids.comment,
		"discussionID":        uuid.NewString(),
		"discussionChannelID": ids.discussionChannel,
	})
	if err != nil {
		return demoIDs{}, fmt.Errorf("failed to create demo forum: %w", err)
	}

	return ids, nil
}
