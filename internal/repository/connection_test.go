package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoOptions_ClientOptions(t *testing.T) {
	opts := MongoOptions{
		URI:                    "mongodb://localhost:27017",
		Database:               "engaato",
		MaxPoolSize:            20,
		MinPoolSize:            2,
		ConnectTimeout:         3 * time.Second,
		ServerSelectionTimeout: time.Second,
	}.clientOptions()

	require.NotNil(t, opts.MaxPoolSize)
	assert.Equal(t, uint64(20), *opts.MaxPoolSize)
	assert.Equal(t, uint64(2), *opts.MinPoolSize)
	assert.Equal(t, 3*time.Second, *opts.ConnectTimeout)
	assert.Equal(t, time.Second, *opts.ServerSelectionTimeout)
	assert.Equal(t, mongoAppName, *opts.AppName)
}

func TestMongoOptions_ZeroValuesKeepDriverDefaults(t *testing.T) {
	opts := MongoOptions{URI: "mongodb://localhost:27017", Database: "engaato"}.clientOptions()

	assert.Nil(t, opts.MaxPoolSize)
	assert.Nil(t, opts.MinPoolSize)
	assert.Nil(t, opts.ConnectTimeout)
}

func TestOpenMongoStore_RequiresDatabase(t *testing.T) {
	_, err := OpenMongoStore(context.Background(), MongoOptions{URI: "mongodb://localhost:27017"})
	assert.Error(t, err)

	_, err = OpenMongoStore(context.Background(), MongoOptions{Database: "engaato"})
	assert.Error(t, err)
}
