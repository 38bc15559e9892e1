// Package cache provides a generic TTL cache with in-memory and Redis
// backends behind one [Cache] interface.
//
// Inkwell keeps two kinds of values in it: sessions (see pkg/session) and the
// blog sidebar lists, which are computed through [GetOrSet] so concurrent
// misses hit the database once:
//
//	archive, err := cache.GetOrSet(ctx, lists, "sidebar:archive",
//	    func(ctx context.Context) ([]repository.ArchiveYear, time.Duration, error) {
//	        years, err := repo.ArchiveCounts(ctx)
//	        return years, 10 * time.Minute, err
//	    })
//
// Saving an article drops those keys with [Invalidate].
//
// [NewMemory] suits tests and single-process deployments. [NewRedis]
// serializes values with a [Marshaler], JSON by default.
//
// Missing or expired keys yield [ErrNotFound]; writes to a closed Memory
// cache yield [ErrClosed].
package cache
