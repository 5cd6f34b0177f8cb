package v1

// ID identifies a book everywhere: catalog lookup, favorites membership and
// detail navigation.
type ID string

func (id ID) String() string { return string(id) }

type SyncStatus string

const (
	StatusUninitialized SyncStatus = "uninitialized"
	StatusOK            SyncStatus = "ok"
	StatusOffline       SyncStatus = "offline"
	StatusSynchronizing SyncStatus = "synchronizing"
	StatusError         SyncStatus = "error"
)
