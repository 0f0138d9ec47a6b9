// Package memory is an in-process implementation of repository.Store with
// the same contract as the Postgres store. Transactions are serialised and a
// failed transaction restores the snapshot taken when it began.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bookshelf/internal/model"
	"bookshelf/internal/repository"
)

type link struct {
	bookID int
	tagID  int
}

type state struct {
	users map[int]model.User
	books map[int]model.Book
	tags  map[int]model.Tag
	links map[link]struct{}

	nextUser int
	nextBook int
	nextTag  int
}

func newState() state {
	return state{
		users: map[int]model.User{},
		books: map[int]model.Book{},
		tags:  map[int]model.Tag{},
		links: map[link]struct{}{},
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.books {
		if v.Comment != nil {
			comment := *v.Comment
			v.Comment = &comment
		}
		c.books[k] = v
	}
	for k, v := range s.tags {
		c.tags[k] = v
	}
	for k := range s.links {
		c.links[k] = struct{}{}
	}
	c.nextUser, c.nextBook, c.nextTag = s.nextUser, s.nextBook, s.nextTag
	return c
}

type Store struct {
	mu     sync.Mutex
	st     state
	faults map[string]error
	now    func() time.Time
}

func New() *Store {
	return &Store{st: newState(), faults: map[string]error{}, now: time.Now}
}

var _ repository.Store = (*Store)(nil)

// FailOn makes the named Repository method return err until cleared with a
// nil err. DeleteUserCascade fails after the dependent rows are gone so a
// test can observe the rollback.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

func (s *Store) WithTx(ctx context.Context, fn func(repository.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot := s.st.clone()
	if err := fn(&tx{s: s}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// Counts reports the number of stored rows, for assertions.
func (s *Store) Counts() (users, books, tags, links int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.users), len(s.st.books), len(s.st.tags), len(s.st.links)
}

// tx is only used while Store.mu is held by WithTx.
type tx struct {
	s *Store
}

func (t *tx) fault(op string) error {
	if err, ok := t.s.faults[op]; ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func notFound(op string) error {
	return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
}

func duplicate(op string) error {
	return fmt.Errorf("%s: %w", op, repository.ErrDuplicate)
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func (t *tx) GetUserByID(_ context.Context, id int) (*model.User, error) {
	if err := t.fault("GetUserByID"); err != nil {
		return nil, err
	}
	u, ok := t.s.st.users[id]
	if !ok {
		return nil, notFound("GetUserByID")
	}
	return &u, nil
}

func (t *tx) GetUserByName(_ context.Context, username string) (*model.User, error) {
	if err := t.fault("GetUserByName"); err != nil {
		return nil, err
	}
	for _, u := range t.s.st.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, notFound("GetUserByName")
}

func (t *tx) CreateUser(_ context.Context, u *model.User) (*model.User, error) {
	if err := t.fault("CreateUser"); err != nil {
		return nil, err
	}
	for _, existing := range t.s.st.users {
		if existing.Username == u.Username {
			return nil, duplicate("CreateUser")
		}
	}
	t.s.st.nextUser++
	u.ID = t.s.st.nextUser
	u.CreatedAt = t.s.now()
	t.s.st.users[u.ID] = *u
	return u, nil
}

func (t *tx) UpdateUserPasswordHash(_ context.Context, userID int, passwordHash string) error {
	if err := t.fault("UpdateUserPasswordHash"); err != nil {
		return err
	}
	u, ok := t.s.st.users[userID]
	if !ok {
		return notFound("UpdateUserPasswordHash")
	}
	u.PasswordHash = passwordHash
	t.s.st.users[userID] = u
	return nil
}

func (t *tx) DeleteUserCascade(_ context.Context, userID int) (repository.DeleteStats, error) {
	st := &t.s.st
	if _, ok := st.users[userID]; !ok {
		return repository.DeleteStats{}, notFound("DeleteUserCascade")
	}

	var stats repository.DeleteStats
	for id, b := range st.books {
		if b.OwnerID != userID {
			continue
		}
		for l := range st.links {
			if l.bookID == id {
				delete(st.links, l)
				stats.Associations++
			}
		}
		delete(st.books, id)
		stats.Books++
	}
	for id, tg := range st.tags {
		if tg.OwnerID != userID {
			continue
		}
		for l := range st.links {
			if l.tagID == id {
				delete(st.links, l)
				stats.Associations++
			}
		}
		delete(st.tags, id)
		stats.Tags++
	}

	if err := t.fault("DeleteUserCascade"); err != nil {
		return repository.DeleteStats{}, err
	}
	delete(st.users, userID)
	return stats, nil
}

func (t *tx) ListUsers(_ context.Context, offset, limit int) ([]model.User, error) {
	if err := t.fault("ListUsers"); err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(t.s.st.users))
	for _, u := range t.s.st.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return page(users, offset, limit), nil
}

func (t *tx) tagsOf(bookID int) []model.Tag {
	tags := []model.Tag{}
	for l := range t.s.st.links {
		if l.bookID == bookID {
			tags = append(tags, t.s.st.tags[l.tagID])
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
	return tags
}

func (t *tx) withTags(b model.Book) model.Book {
	if b.Comment != nil {
		comment := *b.Comment
		b.Comment = &comment
	}
	b.Tags = t.tagsOf(b.ID)
	return b
}

func (t *tx) GetBook(_ context.Context, id int) (*model.Book, error) {
	if err := t.fault("GetBook"); err != nil {
		return nil, err
	}
	b, ok := t.s.st.books[id]
	if !ok {
		return nil, notFound("GetBook")
	}
	b = t.withTags(b)
	return &b, nil
}

func (t *tx) CreateBook(_ context.Context, b *model.Book) (*model.Book, error) {
	if err := t.fault("CreateBook"); err != nil {
		return nil, err
	}
	if _, ok := t.s.st.users[b.OwnerID]; !ok {
		return nil, fmt.Errorf("CreateBook: owner %d does not exist", b.OwnerID)
	}
	t.s.st.nextBook++
	b.ID = t.s.st.nextBook
	b.CreatedAt = t.s.now()
	b.Tags = []model.Tag{}

	stored := *b
	stored.Tags = nil
	t.s.st.books[b.ID] = stored
	return b, nil
}

func (t *tx) UpdateBook(_ context.Context, b *model.Book) error {
	if err := t.fault("UpdateBook"); err != nil {
		return err
	}
	cur, ok := t.s.st.books[b.ID]
	if !ok {
		return notFound("UpdateBook")
	}
	cur.Title = b.Title
	cur.Author = b.Author
	cur.Rating = b.Rating
	cur.Comment = nil
	if b.Comment != nil {
		comment := *b.Comment
		cur.Comment = &comment
	}
	t.s.st.books[b.ID] = cur
	return nil
}

func (t *tx) DeleteBook(_ context.Context, id int) error {
	if err := t.fault("DeleteBook"); err != nil {
		return err
	}
	if _, ok := t.s.st.books[id]; !ok {
		return notFound("DeleteBook")
	}
	for l := range t.s.st.links {
		if l.bookID == id {
			delete(t.s.st.links, l)
		}
	}
	delete(t.s.st.books, id)
	return nil
}

func (t *tx) ListBooks(_ context.Context, offset, limit int) ([]model.Book, error) {
	if err := t.fault("ListBooks"); err != nil {
		return nil, err
	}
	books := make([]model.Book, 0, len(t.s.st.books))
	for _, b := range t.s.st.books {
		books = append(books, t.withTags(b))
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return page(books, offset, limit), nil
}

func (t *tx) GetTagByID(_ context.Context, id int) (*model.Tag, error) {
	if err := t.fault("GetTagByID"); err != nil {
		return nil, err
	}
	tg, ok := t.s.st.tags[id]
	if !ok {
		return nil, notFound("GetTagByID")
	}
	return &tg, nil
}

func (t *tx) GetTagByName(_ context.Context, name string) (*model.Tag, error) {
	if err := t.fault("GetTagByName"); err != nil {
		return nil, err
	}
	for _, tg := range t.s.st.tags {
		if tg.Name == name {
			return &tg, nil
		}
	}
	return nil, notFound("GetTagByName")
}

func (t *tx) insertTag(name string, ownerID int) *model.Tag {
	t.s.st.nextTag++
	tg := model.Tag{ID: t.s.st.nextTag, Name: name, OwnerID: ownerID, CreatedAt: t.s.now()}
	t.s.st.tags[tg.ID] = tg
	return &tg
}

func (t *tx) CreateTag(ctx context.Context, tg *model.Tag) (*model.Tag, error) {
	if err := t.fault("CreateTag"); err != nil {
		return nil, err
	}
	if _, err := t.GetTagByName(ctx, tg.Name); err == nil {
		return nil, duplicate("CreateTag")
	}
	created := t.insertTag(tg.Name, tg.OwnerID)
	*tg = *created
	return tg, nil
}

func (t *tx) EnsureTag(ctx context.Context, name string, ownerID int) (*model.Tag, bool, error) {
	if err := t.fault("EnsureTag"); err != nil {
		return nil, false, err
	}
	if tg, err := t.GetTagByName(ctx, name); err == nil {
		return tg, false, nil
	}
	return t.insertTag(name, ownerID), true, nil
}

func (t *tx) AttachTag(_ context.Context, bookID, tagID int) error {
	if err := t.fault("AttachTag"); err != nil {
		return err
	}
	if _, ok := t.s.st.books[bookID]; !ok {
		return notFound("AttachTag")
	}
	if _, ok := t.s.st.tags[tagID]; !ok {
		return notFound("AttachTag")
	}
	t.s.st.links[link{bookID: bookID, tagID: tagID}] = struct{}{}
	return nil
}

func (t *tx) DeleteTag(_ context.Context, id int) error {
	if err := t.fault("DeleteTag"); err != nil {
		return err
	}
	if _, ok := t.s.st.tags[id]; !ok {
		return notFound("DeleteTag")
	}
	for l := range t.s.st.links {
		if l.tagID == id {
			delete(t.s.st.links, l)
		}
	}
	delete(t.s.st.tags, id)
	return nil
}

func (t *tx) ListTags(_ context.Context, offset, limit int) ([]model.Tag, error) {
	if err := t.fault("ListTags"); err != nil {
		return nil, err
	}
	tags := make([]model.Tag, 0, len(t.s.st.tags))
	for _, tg := range t.s.st.tags {
		tags = append(tags, tg)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
	return page(tags, offset, limit), nil
}
