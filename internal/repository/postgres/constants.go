package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errUserNotFound = "user not found"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"

	errFailedGetUserRoleFmt    = "failed to get user role: %w"
	errFailedUpdateUserRoleFmt = "failed to update user role: %w"

	errFailedApplySchemaFmt = "failed to apply schema: %w"
	errFailedCheckTableFmt  = "failed to check table '%s': %w"
)

var (
	errFailedApplySchema          = func(err error) error { return fmt.Errorf(errFailedApplySchemaFmt, err) }
	errFailedCheckTable           = func(table string, err error) error { return fmt.Errorf(errFailedCheckTableFmt, table, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedGetUserRole          = func(err error) error { return fmt.Errorf(errFailedGetUserRoleFmt, err) }
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
	errFailedUpdateUserRole       = func(err error) error { return fmt.Errorf(errFailedUpdateUserRoleFmt, err) }
)
