// Package all wires every built-in storage backend into the storage factory.
// Import it for side effects:
//
//	import _ "analytics/internal/storage/all"
//
// after which storage.New accepts "postgres", "mssql", "mysql" and "sqlite".
package all

import (
	_ "analytics/internal/storage/mssql"
	_ "analytics/internal/storage/mysql"
	_ "analytics/internal/storage/postgres"
	_ "analytics/internal/storage/sqlite"
)
