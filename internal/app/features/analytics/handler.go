// internal/app/features/analytics/handler.go

// Package analytics aggregates task statistics. Non-admins get statistics
// over the tasks they can see; admins get the whole collection.
package analytics

import (
	"context"
	"math"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/taskdeck/taskdeck/internal/app/features/errors"
	"github.com/taskdeck/taskdeck/internal/app/policy/taskpolicy"
	taskstore "github.com/taskdeck/taskdeck/internal/app/store/tasks"
	"github.com/taskdeck/taskdeck/internal/app/system/authz"
	"github.com/taskdeck/taskdeck/internal/app/system/timeouts"
	"github.com/taskdeck/taskdeck/internal/domain/models"
)

// topCategoryCount caps the topCategories list.
const topCategoryCount = 5

// Handler owns the analytics endpoint.
type Handler struct {
	Tasks  *mongo.Collection
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs an analytics Handler bound to the given database
// and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Tasks: db.Collection("tasks"), Log: logger, ErrLog: errLog}
}

type categoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// HandleSummary handles GET /analytics.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	scope := taskpolicy.Visibility(role, userID)
	match := taskstore.BuildFilter(scope, taskstore.ListParams{})

	total, err := h.Tasks.CountDocuments(ctx, match)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "analytics: total count failed", err, "Failed to compute analytics")
		return
	}

	byStatus, err := h.groupCounts(ctx, match, "$status")
	if err != nil {
		h.ErrLog.LogServerError(w, r, "analytics: status grouping failed", err, "Failed to compute analytics")
		return
	}
	byPriority, err := h.groupCounts(ctx, match, "$priority")
	if err != nil {
		h.ErrLog.LogServerError(w, r, "analytics: priority grouping failed", err, "Failed to compute analytics")
		return
	}

	overdueFilter := bson.M{
		"due_date": bson.M{"$lt": time.Now()},
		"status":   bson.M{"$ne": models.StatusCompleted},
	}
	for k, v := range match {
		overdueFilter[k] = v
	}
	overdue, err := h.Tasks.CountDocuments(ctx, overdueFilter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "analytics: overdue count failed", err, "Failed to compute analytics")
		return
	}

	topCategories, err := h.topCategories(ctx, match)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "analytics: category grouping failed", err, "Failed to compute analytics")
		return
	}

	completed := byStatus[models.StatusCompleted]
	completionRate := 0
	if total > 0 {
		completionRate = int(math.Round(float64(completed) / float64(total) * 100))
	}

	uierrors.WriteSuccess(w, http.StatusOK, uierrors.Payload{
		"analytics": map[string]any{
			"totalTasks":     total,
			"completedTasks": completed,
			"overdueTasks":   overdue,
			"completionRate": completionRate,
			"statusDistribution": map[string]int64{
				"pending":    byStatus[models.StatusPending],
				"inProgress": byStatus[models.StatusInProgress],
				"completed":  completed,
			},
			"priorityDistribution": map[string]int64{
				"low":    byPriority[models.PriorityLow],
				"medium": byPriority[models.PriorityMedium],
				"high":   byPriority[models.PriorityHigh],
			},
			"topCategories": topCategories,
		},
	})
}

// groupCounts runs a $group count over the matched tasks, keyed by field
// (e.g. "$status").
func (h *Handler) groupCounts(ctx context.Context, match bson.M, field string) (map[string]int64, error) {
	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": field, "count": bson.M{"$sum": 1}}},
	}
	cur, err := h.Tasks.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := map[string]int64{}
	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.ID] = row.Count
	}
	return counts, cur.Err()
}

// topCategories returns the most used non-empty categories, ties broken by
// category name so the ranking is deterministic.
func (h *Handler) topCategories(ctx context.Context, match bson.M) ([]categoryCount, error) {
	withCategory := bson.M{"category": bson.M{"$nin": bson.A{nil, ""}}}
	for k, v := range match {
		withCategory[k] = v
	}
	pipeline := []bson.M{
		{"$match": withCategory},
		{"$group": bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}},
		{"$limit": topCategoryCount},
	}
	cur, err := h.Tasks.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	top := []categoryCount{}
	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		top = append(top, categoryCount{Category: row.ID, Count: row.Count})
	}
	return top, cur.Err()
}
