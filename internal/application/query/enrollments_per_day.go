package query

import (
	"context"
	"sort"
	"time"

	"github.com/alem-hub/enrollment-ledger/internal/domain/enrollment"
	"github.com/alem-hub/enrollment-ledger/pkg/logger"
	"github.com/alem-hub/enrollment-ledger/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET ENROLLMENTS PER DAY QUERY
// Считает записи реестра по календарным дням (в часовом поясе реестра).
// Результат кешируется под ID реестра вместе с длиной реестра на момент
// подсчёта; запись кеша с другой длиной считается промахом.
// ══════════════════════════════════════════════════════════════════════════════

// GetEnrollmentsPerDayQuery содержит параметры запроса.
type GetEnrollmentsPerDayQuery struct {
	// SkipCache - считать напрямую по реестру, не читая кеш.
	SkipCache bool
}

// DailyCountDTO - количество записей за один день.
type DailyCountDTO struct {
	Date  timeutil.Date `json:"date"`
	Count int           `json:"count"`
}

// EnrollmentsPerDayDTO - результат запроса.
type EnrollmentsPerDayDTO struct {
	// Days отсортированы по дате по возрастанию.
	Days []DailyCountDTO `json:"days"`

	Total     int  `json:"total"`
	FromCache bool `json:"from_cache"`
}

// Counts возвращает результат в виде карты день -> количество.
func (d *EnrollmentsPerDayDTO) Counts() map[timeutil.Date]int {
	out := make(map[timeutil.Date]int, len(d.Days))
	for _, day := range d.Days {
		out[day.Date] = day.Count
	}
	return out
}

// GetEnrollmentsPerDayHandler обрабатывает запрос.
type GetEnrollmentsPerDayHandler struct {
	registry *enrollment.Registry
	cache    enrollment.DailyCountCache
	ttl      time.Duration
	log      *logger.Logger
}

// NewGetEnrollmentsPerDayHandler создаёт обработчик. cache может быть nil.
func NewGetEnrollmentsPerDayHandler(
	registry *enrollment.Registry,
	cache enrollment.DailyCountCache,
	ttl time.Duration,
	log *logger.Logger,
) *GetEnrollmentsPerDayHandler {
	if registry == nil {
		registry = enrollment.DefaultRegistry()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &GetEnrollmentsPerDayHandler{
		registry: registry,
		cache:    cache,
		ttl:      ttl,
		log:      log.With(logger.Component("enrollments_per_day")),
	}
}

// Handle выполняет запрос. Ошибки кеша не прерывают запрос: считаем по реестру.
func (h *GetEnrollmentsPerDayHandler) Handle(ctx context.Context, q GetEnrollmentsPerDayQuery) (*EnrollmentsPerDayDTO, error) {
	registryID := h.registry.ID()

	if h.cache != nil && !q.SkipCache {
		cached, found, err := h.cache.Get(ctx, registryID)
		switch {
		case err != nil:
			h.log.Warn("daily counts cache read failed", logger.Err(err))
		case found && h.registry.Current(cached):
			return buildPerDayDTO(cached.Counts, true), nil
		case found:
			h.log.Debug("daily counts cache is stale",
				logger.Int("cached_version", cached.Version),
				logger.Int("registry_len", h.registry.Len()),
			)
		}
	}

	// Снимок и его версия берутся под одной блокировкой: если запись
	// проскочит между подсчётом и Set, версия в кеше уже отстанет.
	snap := h.registry.DailyCounts()

	if h.cache != nil {
		if err := h.cache.Set(ctx, registryID, snap, h.ttl); err != nil {
			h.log.Warn("daily counts cache write failed", logger.Err(err))
		}
	}

	return buildPerDayDTO(snap.Counts, false), nil
}

func buildPerDayDTO(counts map[timeutil.Date]int, fromCache bool) *EnrollmentsPerDayDTO {
	dto := &EnrollmentsPerDayDTO{
		Days:      make([]DailyCountDTO, 0, len(counts)),
		FromCache: fromCache,
	}
	for day, n := range counts {
		dto.Days = append(dto.Days, DailyCountDTO{Date: day, Count: n})
		dto.Total += n
	}
	sort.Slice(dto.Days, func(i, j int) bool {
		return dto.Days[i].Date.Before(dto.Days[j].Date)
	})
	return dto
}
