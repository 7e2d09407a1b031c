package service_test

import (
	"context"
	"sort"
	"sync"

	"notevault-be/internal/entity"
	"notevault-be/internal/repository/contract"
	"notevault-be/internal/repository/specification"
	"notevault-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// memStore is shared in-memory state behind the fake repositories. The fakes
// interpret the small set of specifications the services actually use.
type memStore struct {
	users      map[uuid.UUID]*entity.User
	notes      map[uuid.UUID]*entity.Note
	histories  []*entity.NoteHistory
	grants     map[uuid.UUID]*entity.SharedNote     // keyed by note id
	grantees   map[uuid.UUID]map[uuid.UUID]struct{} // grant id -> user ids
	mu         sync.Mutex // guards activities, written from the consumer goroutine
	activities []*entity.NoteActivity

	historyErr error // injected failure for the snapshot-abort path

	lockMu    sync.Mutex
	noteLocks map[uuid.UUID]*sync.Mutex // per-note row locks, held FindOne..Commit
}

// lockForNote mirrors the row lock the real store takes under ForUpdate, so
// concurrent updates in tests serialize the same way they would on Postgres.
func (s *memStore) lockForNote(id uuid.UUID) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	if s.noteLocks[id] == nil {
		s.noteLocks[id] = &sync.Mutex{}
	}
	return s.noteLocks[id]
}

func (s *memStore) activityCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activities)
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[uuid.UUID]*entity.User),
		notes:     make(map[uuid.UUID]*entity.Note),
		grants:    make(map[uuid.UUID]*entity.SharedNote),
		grantees:  make(map[uuid.UUID]map[uuid.UUID]struct{}),
		noteLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *memStore) addUser(username string) *entity.User {
	u := &entity.User{Id: uuid.New(), Username: username, Email: username + "@example.com"}
	s.users[u.Id] = u
	return u
}

type fakeFactory struct {
	store *memStore
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{store: f.store}
}

type fakeUnitOfWork struct {
	store   *memStore
	release func() // pending row-lock release, nil when none held
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }

func (u *fakeUnitOfWork) Commit() error {
	u.releaseLock()
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	u.releaseLock()
	return nil
}

func (u *fakeUnitOfWork) releaseLock() {
	if u.release != nil {
		u.release()
		u.release = nil
	}
}

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}

func (u *fakeUnitOfWork) NoteRepository() contract.NoteRepository {
	return &fakeNoteRepo{store: u.store, uow: u}
}

func (u *fakeUnitOfWork) NoteHistoryRepository() contract.NoteHistoryRepository {
	return &fakeNoteHistoryRepo{store: u.store}
}

func (u *fakeUnitOfWork) SharedNoteRepository() contract.SharedNoteRepository {
	return &fakeSharedNoteRepo{store: u.store}
}

func (u *fakeUnitOfWork) NoteActivityRepository() contract.NoteActivityRepository {
	return &fakeNoteActivityRepo{store: u.store}
}

// --- users ---

type fakeUserRepo struct {
	store *memStore
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	cp := *user
	r.store.users[user.Id] = &cp
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	cp := *user
	r.store.users[user.Id] = &cp
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, u := range r.store.users {
		if userMatches(u, specs) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.store.users {
		if userMatches(u, specs) {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	users, _ := r.FindAll(ctx, specs...)
	return int64(len(users)), nil
}

func userMatches(u *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if u.Id != s.ID {
				return false
			}
		case specification.ByUsername:
			if u.Username != s.Username {
				return false
			}
		case specification.ByUsernames:
			found := false
			for _, name := range s.Usernames {
				if u.Username == name {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case specification.ByEmail:
			if u.Email != s.Email {
				return false
			}
		}
	}
	return true
}

// --- notes ---

type fakeNoteRepo struct {
	store *memStore
	uow   *fakeUnitOfWork
}

func (r *fakeNoteRepo) Create(ctx context.Context, note *entity.Note) error {
	cp := *note
	r.store.notes[note.Id] = &cp
	return nil
}

func (r *fakeNoteRepo) Update(ctx context.Context, note *entity.Note) error {
	cp := *note
	r.store.notes[note.Id] = &cp
	return nil
}

func (r *fakeNoteRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	var forUpdate bool
	var byID *specification.ByID
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ForUpdate:
			forUpdate = true
		case specification.ByID:
			id := s
			byID = &id
		}
	}
	if forUpdate && byID != nil && r.uow != nil {
		lock := r.store.lockForNote(byID.ID)
		lock.Lock()
		r.uow.release = lock.Unlock
	}

	for _, n := range r.store.notes {
		if noteMatches(n, specs) {
			cp := *n
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeNoteRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	var out []*entity.Note
	for _, n := range r.store.notes {
		if noteMatches(n, specs) {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeNoteRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	notes, _ := r.FindAll(ctx, specs...)
	return int64(len(notes)), nil
}

func noteMatches(n *entity.Note, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if n.Id != s.ID {
				return false
			}
		case specification.NoteOwnedByUser:
			if n.UserId != s.UserID {
				return false
			}
		case specification.ForUpdate:
			// lock semantics are a storage concern, nothing to filter
		}
	}
	return true
}

// --- history ---

type fakeNoteHistoryRepo struct {
	store *memStore
}

func (r *fakeNoteHistoryRepo) Create(ctx context.Context, entry *entity.NoteHistory) error {
	if r.store.historyErr != nil {
		return r.store.historyErr
	}
	cp := *entry
	r.store.histories = append(r.store.histories, &cp)
	return nil
}

func (r *fakeNoteHistoryRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteHistory, error) {
	var out []*entity.NoteHistory
	var order *specification.OrderBy
	for _, spec := range specs {
		if o, ok := spec.(specification.OrderBy); ok {
			order = &o
		}
	}
	for _, h := range r.store.histories {
		if historyMatches(h, specs) {
			cp := *h
			out = append(out, &cp)
		}
	}
	if order != nil && order.Field == "captured_at" {
		sort.SliceStable(out, func(i, j int) bool {
			if order.Desc {
				return out[i].CapturedAt.After(out[j].CapturedAt)
			}
			return out[i].CapturedAt.Before(out[j].CapturedAt)
		})
	}
	return out, nil
}

func (r *fakeNoteHistoryRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	entries, _ := r.FindAll(ctx, specs...)
	return int64(len(entries)), nil
}

func historyMatches(h *entity.NoteHistory, specs []specification.Specification) bool {
	for _, spec := range specs {
		if s, ok := spec.(specification.ByNoteID); ok && h.NoteId != s.NoteID {
			return false
		}
	}
	return true
}

// --- sharing ---

type fakeSharedNoteRepo struct {
	store *memStore
}

func (r *fakeSharedNoteRepo) Upsert(ctx context.Context, noteId uuid.UUID) (*entity.SharedNote, error) {
	if grant, ok := r.store.grants[noteId]; ok {
		cp := *grant
		return &cp, nil
	}
	grant := &entity.SharedNote{Id: uuid.New(), NoteId: noteId}
	r.store.grants[noteId] = grant
	r.store.grantees[grant.Id] = make(map[uuid.UUID]struct{})
	cp := *grant
	return &cp, nil
}

func (r *fakeSharedNoteRepo) AddGrantees(ctx context.Context, sharedNoteId uuid.UUID, userIds []uuid.UUID) error {
	set, ok := r.store.grantees[sharedNoteId]
	if !ok {
		set = make(map[uuid.UUID]struct{})
		r.store.grantees[sharedNoteId] = set
	}
	for _, id := range userIds {
		set[id] = struct{}{}
	}
	return nil
}

func (r *fakeSharedNoteRepo) Grantees(ctx context.Context, noteId uuid.UUID) ([]uuid.UUID, error) {
	grant, ok := r.store.grants[noteId]
	if !ok {
		return nil, nil
	}
	var out []uuid.UUID
	for id := range r.store.grantees[grant.Id] {
		out = append(out, id)
	}
	return out, nil
}

// --- activity ---

type fakeNoteActivityRepo struct {
	store *memStore
}

func (r *fakeNoteActivityRepo) Create(ctx context.Context, activity *entity.NoteActivity) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *activity
	r.store.activities = append(r.store.activities, &cp)
	return nil
}

func (r *fakeNoteActivityRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteActivity, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.NoteActivity
	for _, a := range r.store.activities {
		matches := true
		for _, spec := range specs {
			if s, ok := spec.(specification.ByNoteID); ok && a.NoteId != s.NoteID {
				matches = false
			}
		}
		if matches {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

// --- collaborators ---

type fakePublisher struct {
	mu        sync.Mutex
	published [][]byte
}

func (p *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, payload)
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
