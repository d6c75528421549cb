package inmemdb

import (
	"sync"

	"github.com/ourson-app/backend/core/content"
	"github.com/ourson-app/backend/core/user"
)

// DB is a mutex-guarded in-memory store. It backs tests and local dev runs
// that do not need postgres.
type DB struct {
	user    *userTable
	content *contentTables
}

type userTable struct {
	mutex sync.RWMutex
	table map[string]*user.User
}

type contentTables struct {
	mutex      sync.RWMutex
	sections   map[string]*content.Section
	levels     map[string]*content.Level
	activities map[string]*content.Activity
}

func NewDB() *DB {
	return &DB{
		user: &userTable{table: make(map[string]*user.User)},
		content: &contentTables{
			sections:   make(map[string]*content.Section),
			levels:     make(map[string]*content.Level),
			activities: make(map[string]*content.Activity),
		},
	}
}
