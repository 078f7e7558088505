package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/kud0/mindsy/core/study"
	"github.com/kud0/mindsy/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		IsActive:  &isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateNode(
	t *testing.T,
	repo study.Repository,
	ownerID, parentID, name string,
	kind study.Kind,
	sortOrder int,
) study.Node {
	t.Helper()

	now := time.Now().UTC()
	node, err := repo.CreateNode(context.Background(), study.Node{
		OwnerID:   ownerID,
		ParentID:  parentID,
		Name:      name,
		Kind:      kind,
		SortOrder: sortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateNode() failed: %v", err)
	}
	return node
}
