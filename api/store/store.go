/* store.go
 * Contains the Store struct and NewStore function. The store persists the
 * client-held state that a browser would keep in local storage: one session
 * record per Discord user (bearer token plus cached profile) and any
 * locally-held bid selections that could not be confirmed with the server.
 * The methods are split across sessions.go and local_bids.go.
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections struct {
		Sessions  *mongo.Collection
		LocalBids *mongo.Collection
	}
}

// NewStore initialises the db connection and binds the collections
// Preconditions: Receives strings containing dbName and mongoURI
// Postconditions: Returns pointer to the Store object, or error if it occurs
func NewStore(dbName string, mongoURI string) (*Store, error) {
	if dbName == "" {
		return nil, fmt.Errorf("dbName cannot be empty")
	}

	client, err := mongo.Connect(context.TODO(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	db := client.Database(dbName)

	s := &Store{
		Client:   client,
		Database: db,
	}
	s.Collections.Sessions = db.Collection("sessions")
	s.Collections.LocalBids = db.Collection("local_bids")
	return s, nil
}
