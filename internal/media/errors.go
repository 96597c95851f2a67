package media

import "errors"

var (
	// ErrStorageUnavailable indicates no object storage backend is configured.
	ErrStorageUnavailable = errors.New("media storage unavailable")
	// ErrStatsUnavailable indicates no channel stats source is configured.
	ErrStatsUnavailable = errors.New("channel stats source unavailable")
)
