package schedule

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/domain"
)

// Allocator generates study schedules. It holds no state besides its
// injected sources and is safe for concurrent use.
type Allocator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	now   func() time.Time
	newID func() uuid.UUID
	loc   *time.Location
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithRand sets the random source used to interleave subjects.
// Pass a seeded source for reproducible schedules.
func WithRand(rng *rand.Rand) Option {
	return func(a *Allocator) {
		if rng != nil {
			a.rng = rng
		}
	}
}

// WithClock sets the function used to determine "today".
func WithClock(now func() time.Time) Option {
	return func(a *Allocator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithIDGenerator sets the block ID generator.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(a *Allocator) {
		if newID != nil {
			a.newID = newID
		}
	}
}

// WithLocation sets the time zone in which day boundaries are computed.
func WithLocation(loc *time.Location) Option {
	return func(a *Allocator) {
		if loc != nil {
			a.loc = loc
		}
	}
}

// NewAllocator creates an Allocator. Without options it uses a time-seeded
// random source, the wall clock, uuid.New and UTC.
func NewAllocator(opts ...Option) *Allocator {
	a := &Allocator{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
		newID: uuid.New,
		loc:   time.UTC,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Generate builds a schedule of exactly horizonDays*blocksPerDay blocks with
// blocksPerDay blocks on each of the horizonDays days starting today.
//
// Each subject receives floor(weight/totalWeight*totalBlocks) blocks. The
// candidates are shuffled, then duplicated or truncated to fill capacity,
// shuffled again when duplicates were added, and finally dated in order. The result is sorted by date. Every block
// carries the same fresh ScheduleID. An empty list is returned when there are
// no subjects or no capacity.
func (a *Allocator) Generate(
	subjects []*domain.Subject,
	userID uuid.UUID,
	horizonDays, blocksPerDay, blockDurationMinutes int,
) []*domain.StudyBlock {
	totalBlocks := horizonDays * blocksPerDay
	subjects = nonNil(subjects)
	if len(subjects) == 0 || totalBlocks <= 0 || blockDurationMinutes <= 0 {
		return []*domain.StudyBlock{}
	}

	now := a.now().In(a.loc)
	candidates := a.candidates(subjects, userID, totalBlocks, blockDurationMinutes, now)
	if len(candidates) == 0 {
		candidates = a.seed(subjects, userID, blockDurationMinutes, now)
	}

	scheduleID := a.newID()
	for _, b := range candidates {
		b.ScheduleID = scheduleID
	}

	a.shuffle(candidates)

	rec := Reconcile(len(candidates), totalBlocks)
	blocks := rec.Apply(candidates, a.newID)
	if rec.Kind == Shortfall {
		// Duplicates are appended at the tail; spread them over the horizon.
		a.shuffle(blocks)
	}

	a.assignDates(blocks, blocksPerDay, startOfDay(now))

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].ScheduledDate.Before(blocks[j].ScheduledDate)
	})

	refreshTotals(blocks)

	return blocks
}

// candidates creates the weighted per-subject blocks, numbered from 1.
func (a *Allocator) candidates(
	subjects []*domain.Subject,
	userID uuid.UUID,
	totalBlocks, duration int,
	now time.Time,
) []*domain.StudyBlock {
	totalWeight := 0.0
	for _, s := range subjects {
		totalWeight += Weight(s.Confidence)
	}

	out := make([]*domain.StudyBlock, 0, totalBlocks)
	for _, s := range subjects {
		count := int(math.Floor(Weight(s.Confidence) / totalWeight * float64(totalBlocks)))
		for n := 1; n <= count; n++ {
			out = append(out, a.newBlock(s, userID, n, count, duration, now))
		}
	}
	return out
}

// seed gives each subject a single block. It is used only when every
// weighted share rounds down to zero, which leaves nothing to duplicate.
func (a *Allocator) seed(
	subjects []*domain.Subject,
	userID uuid.UUID,
	duration int,
	now time.Time,
) []*domain.StudyBlock {
	out := make([]*domain.StudyBlock, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, a.newBlock(s, userID, 1, 1, duration, now))
	}
	return out
}

func (a *Allocator) newBlock(
	s *domain.Subject,
	userID uuid.UUID,
	number, total, duration int,
	now time.Time,
) *domain.StudyBlock {
	return &domain.StudyBlock{
		ID:              a.newID(),
		UserID:          userID,
		SubjectID:       s.ID,
		SubjectName:     s.Name,
		SubjectIcon:     s.Icon,
		BlockNumber:     number,
		TotalBlocks:     total,
		DurationMinutes: duration,
		CreatedAt:       now.UTC(),
	}
}

func (a *Allocator) shuffle(blocks []*domain.StudyBlock) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rng.Shuffle(len(blocks), func(i, j int) {
		blocks[i], blocks[j] = blocks[j], blocks[i]
	})
}

// assignDates puts blocksPerDay consecutive blocks on each day from start.
// Every dated block gets a fresh ID.
func (a *Allocator) assignDates(blocks []*domain.StudyBlock, blocksPerDay int, start time.Time) {
	for i, b := range blocks {
		b.ID = a.newID()
		b.ScheduledDate = start.AddDate(0, 0, i/blocksPerDay)
	}
}

// refreshTotals sets TotalBlocks to the final number of blocks per subject.
func refreshTotals(blocks []*domain.StudyBlock) {
	counts := make(map[uuid.UUID]int)
	for _, b := range blocks {
		counts[b.SubjectID]++
	}
	for _, b := range blocks {
		b.TotalBlocks = counts[b.SubjectID]
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func nonNil(subjects []*domain.Subject) []*domain.Subject {
	out := make([]*domain.Subject, 0, len(subjects))
	for _, s := range subjects {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
