package taskpolicy

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskdeck/taskdeck/internal/domain/models"
)

var (
	creator  = primitive.NewObjectID()
	assignee = primitive.NewObjectID()
	admin    = primitive.NewObjectID()
	stranger = primitive.NewObjectID()
)

func sampleTask() *models.Task {
	return &models.Task{
		ID:         primitive.NewObjectID(),
		CreatedBy:  creator,
		AssignedTo: []primitive.ObjectID{assignee},
	}
}

func TestVisibility(t *testing.T) {
	scope := Visibility(models.RoleAdmin, admin)
	if !scope.All {
		t.Fatal("admin scope should cover all tasks")
	}
	scope = Visibility(models.RoleUser, creator)
	if scope.All || scope.UserID != creator {
		t.Fatalf("user scope = %+v", scope)
	}
}

func TestCanView(t *testing.T) {
	task := sampleTask()
	cases := []struct {
		name   string
		role   string
		userID primitive.ObjectID
		want   bool
	}{
		{"admin", models.RoleAdmin, admin, true},
		{"creator", models.RoleUser, creator, true},
		{"assignee", models.RoleUser, assignee, true},
		{"stranger", models.RoleUser, stranger, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanView(tc.role, tc.userID, task); got != tc.want {
				t.Fatalf("CanView = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanViewChecksAssigneeSetMembership(t *testing.T) {
	second := primitive.NewObjectID()
	task := sampleTask()
	task.AssignedTo = []primitive.ObjectID{assignee, second}

	if !CanView(models.RoleUser, second, task) {
		t.Fatal("second assignee should be able to view")
	}
}

func TestCanManage(t *testing.T) {
	task := sampleTask()
	cases := []struct {
		name   string
		role   string
		userID primitive.ObjectID
		want   bool
	}{
		{"admin", models.RoleAdmin, admin, true},
		{"creator", models.RoleUser, creator, true},
		{"assignee cannot manage", models.RoleUser, assignee, false},
		{"stranger", models.RoleUser, stranger, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanManage(tc.role, tc.userID, task); got != tc.want {
				t.Fatalf("CanManage = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanComment(t *testing.T) {
	task := sampleTask()
	if !CanComment(models.RoleUser, assignee, task) {
		t.Fatal("assignee should be able to comment")
	}
	if CanComment(models.RoleUser, stranger, task) {
		t.Fatal("stranger should not be able to comment")
	}
}
