package availability

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	redisrepo "github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository/redis"
)

type Config struct {
	ResultTTL time.Duration
}

type Service struct {
	catalog      Catalog
	slots        SlotReader
	reservations ReservationReader
	settings     SettingsSource
	cache        *redisrepo.Cache
	cfg          Config
	log          *slog.Logger
}

func New(
	catalog Catalog,
	slots SlotReader,
	reservations ReservationReader,
	settings SettingsSource,
	cache *redisrepo.Cache,
	cfg Config,
	log *slog.Logger,
) *Service {
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		catalog:      catalog,
		slots:        slots,
		reservations: reservations,
		settings:     settings,
		cache:        cache,
		cfg:          cfg,
		log:          log,
	}
}

type Query struct {
	ResourceIDs []int64
	From        time.Time
	To          time.Time
	Daypart     domain.Daypart
}

// SlotCounts is informational: how many offered slots the resource has in range.
type SlotCounts struct {
	Full  int `json:"full"`
	AM    int `json:"am"`
	PM    int `json:"pm"`
	Total int `json:"total"`
}

type Resource struct {
	ID             int64               `json:"id"`
	Kind           domain.ResourceKind `json:"kind"`
	Name           string              `json:"name"`
	Capacity       int                 `json:"capacity"`
	PriceFullCents int64               `json:"price_full_cents"`
	PriceAMCents   int64               `json:"price_am_cents"`
	PricePMCents   int64               `json:"price_pm_cents"`
	Slots          SlotCounts          `json:"slots"`
}

// Find returns the active resources whose offered and unreserved half-days satisfy
// q.Daypart on every day of [q.From, q.To], sorted by name. The answer is advisory:
// reservation creation re-checks conflicts in its own transaction.
//
// Returns:
//   - []Resource: qualifying resources, never nil.
//   - error: domain.ErrBadRange / domain.ErrInvalidDaypart on malformed queries.
func (s *Service) Find(ctx context.Context, q Query) ([]Resource, error) {
	const op = "service.availability.Find"

	if !q.Daypart.Valid() {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrInvalidDaypart)
	}
	if err := domain.ValidateRange(q.From, q.To); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	q.From, q.To = domain.Truncate(q.From), domain.Truncate(q.To)

	policy, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache == nil {
		return s.find(ctx, q, policy)
	}

	gen, err := s.cache.AvailabilityGeneration(ctx)
	if err != nil {
		s.log.Warn("availability cache unavailable", slog.Any("err", err))
		return s.find(ctx, q, policy)
	}

	out, err := redisrepo.Remember(ctx, s.cache, redisrepo.KeyAvailability(gen, cacheKey(q, policy)), s.cfg.ResultTTL,
		func(ctx context.Context) ([]Resource, error) {
			return s.find(ctx, q, policy)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) find(ctx context.Context, q Query, policy domain.Settings) ([]Resource, error) {
	const op = "service.availability.find"

	resources, err := s.catalog.ListActive(ctx, q.ResourceIDs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(resources) == 0 {
		return []Resource{}, nil
	}

	ids := make([]int64, 0, len(resources))
	for _, r := range resources {
		ids = append(ids, r.ID)
	}

	slots, err := s.slots.ListRange(ctx, ids, q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reservations, err := s.reservations.ListLiveInRange(ctx, ids, q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	offered := make(map[int64]map[string]domain.HalfSet, len(resources))
	counts := make(map[int64]*SlotCounts, len(resources))
	for _, sl := range slots {
		if sl.Status != domain.SlotAvailable {
			continue
		}
		days := offered[sl.ResourceID]
		if days == nil {
			days = map[string]domain.HalfSet{}
			offered[sl.ResourceID] = days
		}
		key := sl.Date.Format(domain.DateFormat)
		days[key] = days[key].Add(sl.Daypart)

		c := counts[sl.ResourceID]
		if c == nil {
			c = &SlotCounts{}
			counts[sl.ResourceID] = c
		}
		c.add(sl.Daypart)
	}

	consumed := make(map[int64]map[string]domain.HalfSet)
	for _, r := range reservations {
		days := consumed[r.ResourceID]
		if days == nil {
			days = map[string]domain.HalfSet{}
			consumed[r.ResourceID] = days
		}
		from, to := r.StartDate, r.EndDate
		if from.Before(q.From) {
			from = q.From
		}
		if to.After(q.To) {
			to = q.To
		}
		for _, d := range domain.Days(from, to) {
			key := d.Format(domain.DateFormat)
			days[key] = days[key].Add(r.Daypart)
		}
	}

	dayKeys := make([]string, 0, domain.DayCount(q.From, q.To))
	for _, d := range domain.Days(q.From, q.To) {
		dayKeys = append(dayKeys, d.Format(domain.DateFormat))
	}
	relaxed := policy.SingleDayFullRelaxed && len(dayKeys) == 1

	out := make([]Resource, 0, len(resources))
	for _, r := range resources {
		if !Qualifies(dayKeys, offered[r.ID], consumed[r.ID], q.Daypart, relaxed) {
			continue
		}
		item := Resource{
			ID:             r.ID,
			Kind:           r.Kind,
			Name:           r.Name,
			Capacity:       r.Capacity,
			PriceFullCents: r.PriceFullCents,
			PriceAMCents:   r.PriceAMCents,
			PricePMCents:   r.PricePMCents,
		}
		if c := counts[r.ID]; c != nil {
			item.Slots = *c
		}
		out = append(out, item)
	}

	slices.SortStableFunc(out, func(a, b Resource) int {
		return strings.Compare(a.Name, b.Name)
	})

	return out, nil
}

// Qualifies evaluates one resource over the requested days. A day satisfies AM or PM
// when that half is offered (directly or through FULL) and not reserved; FULL needs
// both halves. With relaxed set, which only applies to single-day FULL requests,
// any free offered half is enough.
func Qualifies(days []string, offered, consumed map[string]domain.HalfSet, part domain.Daypart, relaxed bool) bool {
	for _, d := range days {
		free := offered[d] &^ consumed[d]
		if part == domain.DaypartFull && relaxed {
			if free.Empty() {
				return false
			}
			continue
		}
		if !free.Covers(part) {
			return false
		}
	}
	return true
}

func (c *SlotCounts) add(p domain.Daypart) {
	switch p {
	case domain.DaypartFull:
		c.Full++
	case domain.DaypartAM:
		c.AM++
	case domain.DaypartPM:
		c.PM++
	}
	c.Total++
}

func cacheKey(q Query, policy domain.Settings) string {
	ids := slices.Clone(q.ResourceIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	var b strings.Builder
	if len(ids) == 0 {
		b.WriteString("all")
	}
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(id, 10))
	}
	fmt.Fprintf(&b, ":%s:%s:%s:relaxed=%t",
		q.From.Format(domain.DateFormat), q.To.Format(domain.DateFormat), q.Daypart, policy.SingleDayFullRelaxed)

	return b.String()
}
