package taskstore

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskdeck/taskdeck/internal/app/policy/taskpolicy"
)

// ListParams are the optional filters and sort for a task list query.
// Zero values mean "no filter".
type ListParams struct {
	Status   string
	Priority string
	Category string
	Search   string // substring match on title, description, category, tags
	DueDate  time.Time

	SortBy    string
	SortOrder string // "asc" | "desc"
}

// BuildFilter turns the visibility scope and list filters into a Mongo
// filter document.
func BuildFilter(scope taskpolicy.VisibilityScope, p ListParams) bson.M {
	filter := bson.M{}

	if !scope.All {
		filter["$or"] = []bson.M{
			{"created_by": scope.UserID},
			{"assigned_to": scope.UserID},
		}
	}
	if p.Status != "" {
		filter["status"] = p.Status
	}
	if p.Priority != "" {
		filter["priority"] = p.Priority
	}
	if p.Category != "" {
		filter["category"] = caseInsensitive(p.Category)
	}
	if p.Search != "" {
		search := caseInsensitive(p.Search)
		filter["$and"] = []bson.M{
			{"$or": []bson.M{
				{"title": search},
				{"description": search},
				{"category": search},
				{"tags": bson.M{"$in": bson.A{search}}},
			}},
		}
	}
	if !p.DueDate.IsZero() {
		// Match anything due that calendar day, local time.
		y, m, d := p.DueDate.In(time.Local).Date()
		start := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
		filter["due_date"] = bson.M{
			"$gte": start,
			"$lt":  start.AddDate(0, 0, 1),
		}
	}
	return filter
}

// caseInsensitive builds a substring regex with the needle quoted so user
// input cannot inject operators.
func caseInsensitive(needle string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(needle), Options: "i"}
}

// sortFields whitelists the client-sortable fields and maps them to their
// stored names.
var sortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"title":     "title",
	"status":    "status",
	"priority":  "priority",
}

// BuildSort returns the sort document for a list query. Unknown fields fall
// back to the default newest-first ordering; _id breaks ties so pages are
// stable.
func BuildSort(p ListParams) bson.D {
	field, ok := sortFields[p.SortBy]
	if !ok {
		field = "created_at"
	}
	order := -1
	if p.SortOrder == "asc" {
		order = 1
	}
	return bson.D{{Key: field, Value: order}, {Key: "_id", Value: 1}}
}
