package mongodb

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KAILASATEJANI/nam/core"
	"github.com/KAILASATEJANI/nam/core/campus"
	"github.com/KAILASATEJANI/nam/storage/database/storetest"
)

// set TEST_MONGO_URL to run against a live server
func TestDB(t *testing.T) {
	url := os.Getenv("TEST_MONGO_URL")
	if url == "" {
		t.Skip("TEST_MONGO_URL not set")
	}
	conf := core.NewTestConfig()
	conf.Mongo.URL = url

	ctx := context.Background()
	db, err := Open(ctx, conf)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(ctx)
		_ = db.Close(ctx)
	})

	storetest.Run(t, func(t *testing.T) campus.Store {
		require.NoError(t, db.Drop(ctx))
		require.NoError(t, db.createIndexes(ctx))
		return db
	})
}

func TestMatch(t *testing.T) {
	got := match("program", "B.Tech", "semester", "")
	require.Len(t, got, 1)
	require.Equal(t, "B.Tech", got["program"])
}
