package taskstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskdeck/taskdeck/internal/domain/models"
)

// UserRef is the compact identity embedded in task responses in place of a
// raw ObjectID.
type UserRef struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Hydrator resolves the user IDs referenced by tasks (creator, assignees,
// commenters) into UserRefs with a single batched lookup per request.
type Hydrator struct {
	users *mongo.Collection
}

func NewHydrator(db *mongo.Database) *Hydrator {
	return &Hydrator{users: db.Collection("users")}
}

// Resolve returns a UserRef for every referenced ID that still exists.
// Dangling references (deleted users) are simply absent from the map.
func (h *Hydrator) Resolve(ctx context.Context, tasks []models.Task) (map[primitive.ObjectID]UserRef, error) {
	idSet := map[primitive.ObjectID]struct{}{}
	for i := range tasks {
		idSet[tasks[i].CreatedBy] = struct{}{}
		for _, id := range tasks[i].AssignedTo {
			idSet[id] = struct{}{}
		}
		for _, c := range tasks[i].Comments {
			idSet[c.UserID] = struct{}{}
		}
	}
	if len(idSet) == 0 {
		return map[primitive.ObjectID]UserRef{}, nil
	}

	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	proj := options.Find().SetProjection(bson.M{"_id": 1, "email": 1, "role": 1})
	cur, err := h.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, proj)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	refs := make(map[primitive.ObjectID]UserRef, len(ids))
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		refs[u.ID] = UserRef{ID: u.ID.Hex(), Email: u.Email, Role: u.Role}
	}
	return refs, cur.Err()
}
