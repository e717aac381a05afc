package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// RecordsChecker reports the record store load outcome. Err is non-nil
// only once a load has failed.
type RecordsChecker interface {
	Loaded() bool
	Err() error
}
