package db

import (
	"database/sql"
	"fmt"
	"sync/atomic"
)

var testDBCounter atomic.Int64

// OpenForTesting opens a uniquely named in-memory database with all
// migrations applied. The database lives until the returned handle is
// closed. Writes go through sqlite's single writer, so the pool is capped
// at one connection.
func OpenForTesting() (*sql.DB, error) {
	name := fmt.Sprintf("file:storefront_test_%d?mode=memory&cache=shared&_foreign_keys=on", testDBCounter.Add(1))
	database, err := sql.Open("sqlite", name)
	if err != nil {
		return nil, fmt.Errorf("failed to open test database: %w", err)
	}
	database.SetMaxOpenConns(1)

	if err := Migrate(database); err != nil {
		_ = database.Close()
		return nil, err
	}
	return database, nil
}
