package blog

import (
	"context"
	"time"

	"github.com/dmitrymomot/inkwell/internal/locale"
	"github.com/dmitrymomot/inkwell/internal/views"
	"github.com/dmitrymomot/inkwell/pkg/cache"
)

const (
	sidebarKey = "blog:sidebar"
	// SidebarTTL is how long the archive and category lists are cached.
	SidebarTTL = 10 * time.Minute
)

// Sidebars builds the sidebar and keeps it in a cache until an article or
// category changes.
type Sidebars struct {
	store  SidebarStore
	cache  cache.Cache[views.Sidebar]
	locale *locale.Locale
	now    func() time.Time
}

func NewSidebars(store SidebarStore, c cache.Cache[views.Sidebar], loc *locale.Locale) *Sidebars {
	return &Sidebars{store: store, cache: c, locale: loc, now: time.Now}
}

func (s *Sidebars) Get(ctx context.Context) (views.Sidebar, error) {
	return cache.GetOrSet(ctx, s.cache, sidebarKey, func(ctx context.Context) (views.Sidebar, time.Duration, error) {
		sb, err := s.build(ctx)
		return sb, SidebarTTL, err
	})
}

// Invalidate drops the cached sidebar.
func (s *Sidebars) Invalidate(ctx context.Context) error {
	return cache.Invalidate(ctx, s.cache, sidebarKey)
}

func (s *Sidebars) build(ctx context.Context) (views.Sidebar, error) {
	now := s.now()
	months, err := s.store.ArchiveCounts(ctx, now)
	if err != nil {
		return views.Sidebar{}, err
	}
	cats, err := s.store.CategoryCounts(ctx, now)
	if err != nil {
		return views.Sidebar{}, err
	}

	// months arrive oldest first, so years stay in ascending order
	var years []views.ArchiveYear
	for _, m := range months {
		if len(years) == 0 || years[len(years)-1].Year != m.Year {
			years = append(years, views.ArchiveYear{Year: m.Year})
		}
		y := &years[len(years)-1]
		y.Count += m.Count
		y.Months = append(y.Months, views.ArchiveMonth{
			Month: m.Month,
			Count: m.Count,
			Name:  s.locale.Month(m.Month),
		})
	}
	return views.Sidebar{Years: years, Categories: cats}, nil
}
