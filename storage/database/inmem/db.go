// Package inmem provides map-backed repositories for tests and local hacking:
// no postgres required, same contracts as the sqlx repositories.
package inmem

import (
	"sync"

	"github.com/kud0/mindsy/core/study"
	"github.com/kud0/mindsy/core/user"
)

type DB struct {
	mutex sync.RWMutex
	users map[string]user.User
	nodes map[string]study.Node
}

func Open() *DB {
	return &DB{
		users: make(map[string]user.User),
		nodes: make(map[string]study.Node),
	}
}
