package mocks

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-planner/internal/domain"
	"github.com/phrazzld/scry-planner/internal/store"
)

// MemoryDB is the shared backing data of the in-memory stores. Stores handed
// out by one MemoryDB see each other's writes, like tables in one database.
type MemoryDB struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*domain.User
	subjects map[uuid.UUID]*domain.Subject
	blocks   map[uuid.UUID]*domain.StudyBlock
}

// NewMemoryDB creates an empty MemoryDB.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		users:    make(map[uuid.UUID]*domain.User),
		subjects: make(map[uuid.UUID]*domain.Subject),
		blocks:   make(map[uuid.UUID]*domain.StudyBlock),
	}
}

// Stores returns a fresh set of mock stores backed by db.
func (db *MemoryDB) Stores() (*MockSubjectStore, *MockBlockStore, *MockUserStore) {
	return NewMockSubjectStore(db), NewMockBlockStore(db), NewMockUserStore(db)
}

// StoreSet is a convenience wrapper returning the mock stores as store.Stores.
func (db *MemoryDB) StoreSet() store.Stores {
	subjects, blocks, users := db.Stores()
	return store.Stores{Subjects: subjects, Blocks: blocks, Users: users}
}

// PutUser inserts or replaces a user without validation.
func (db *MemoryDB) PutUser(u *domain.User) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users[u.ID] = copyUser(u)
}

// PutSubject inserts or replaces a subject without validation.
func (db *MemoryDB) PutSubject(s *domain.Subject) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.subjects[s.ID] = copySubject(s)
}

// PutBlocks inserts or replaces blocks without validation.
func (db *MemoryDB) PutBlocks(blocks ...*domain.StudyBlock) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, b := range blocks {
		db.blocks[b.ID] = copyBlock(b)
	}
}

// User returns a copy of the stored user, or nil.
func (db *MemoryDB) User(id uuid.UUID) *domain.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	if u, ok := db.users[id]; ok {
		return copyUser(u)
	}
	return nil
}

// Subject returns a copy of the stored subject, or nil.
func (db *MemoryDB) Subject(id uuid.UUID) *domain.Subject {
	db.mu.Lock()
	defer db.mu.Unlock()
	if s, ok := db.subjects[id]; ok {
		return copySubject(s)
	}
	return nil
}

// Block returns a copy of the stored block, or nil.
func (db *MemoryDB) Block(id uuid.UUID) *domain.StudyBlock {
	db.mu.Lock()
	defer db.mu.Unlock()
	if b, ok := db.blocks[id]; ok {
		return copyBlock(b)
	}
	return nil
}

// DeleteUser removes a user, leaving its subjects and blocks in place.
func (db *MemoryDB) DeleteUser(id uuid.UUID) {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.users, id)
}

// DeleteSubjectOnly removes a subject but keeps its blocks, simulating a
// block whose subject disappeared.
func (db *MemoryDB) DeleteSubjectOnly(id uuid.UUID) {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.subjects, id)
}

// BlocksForUser returns copies of all of the user's blocks ordered by date.
func (db *MemoryDB) BlocksForUser(userID uuid.UUID) []*domain.StudyBlock {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.blocksForUserLocked(userID)
}

func (db *MemoryDB) blocksForUserLocked(userID uuid.UUID) []*domain.StudyBlock {
	blocks := make([]*domain.StudyBlock, 0)
	for _, b := range db.blocks {
		if b.UserID == userID {
			blocks = append(blocks, copyBlock(b))
		}
	}
	sortBlocks(blocks)
	return blocks
}

type snapshot struct {
	users    map[uuid.UUID]*domain.User
	subjects map[uuid.UUID]*domain.Subject
	blocks   map[uuid.UUID]*domain.StudyBlock
}

func (db *MemoryDB) snapshot() snapshot {
	db.mu.Lock()
	defer db.mu.Unlock()

	s := snapshot{
		users:    make(map[uuid.UUID]*domain.User, len(db.users)),
		subjects: make(map[uuid.UUID]*domain.Subject, len(db.subjects)),
		blocks:   make(map[uuid.UUID]*domain.StudyBlock, len(db.blocks)),
	}
	for id, u := range db.users {
		s.users[id] = copyUser(u)
	}
	for id, sub := range db.subjects {
		s.subjects[id] = copySubject(sub)
	}
	for id, b := range db.blocks {
		s.blocks[id] = copyBlock(b)
	}
	return s
}

func (db *MemoryDB) restore(s snapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users = s.users
	db.subjects = s.subjects
	db.blocks = s.blocks
}

func sortBlocks(blocks []*domain.StudyBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		if !blocks[i].ScheduledDate.Equal(blocks[j].ScheduledDate) {
			return blocks[i].ScheduledDate.Before(blocks[j].ScheduledDate)
		}
		return blocks[i].CreatedAt.Before(blocks[j].CreatedAt)
	})
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func copySubject(s *domain.Subject) *domain.Subject {
	c := *s
	return &c
}

func copyBlock(b *domain.StudyBlock) *domain.StudyBlock {
	c := *b
	if b.CompletedAt != nil {
		t := *b.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
