package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/leon37/SnapFeed/internal/model"
	"github.com/leon37/SnapFeed/internal/repository"
	"gorm.io/gorm"
)

// 内存版仓储实现，行为对齐真实实现：找不到返回 gorm.ErrRecordNotFound，
// Create/Update 维护时间戳

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint]*model.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*model.User), nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) EmailTaken(_ context.Context, email string, excludeID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Exists(_ context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[id]
	return ok, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	user.UpdatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

type fakePostRepo struct {
	mu     sync.Mutex
	posts  map[uint]*model.Post
	users  *fakeUserRepo
	nextID uint
	clock  time.Time
}

func newFakePostRepo(users *fakeUserRepo) *fakePostRepo {
	return &fakePostRepo{
		posts:  make(map[uint]*model.Post),
		users:  users,
		nextID: 1,
		clock:  time.Now(),
	}
}

// tick 保证相邻写入的 UpdatedAt 严格递增，排序断言才稳定
func (r *fakePostRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *fakePostRepo) Create(ctx context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = r.nextID
	r.nextID++
	now := r.tick()
	post.CreatedAt = now
	post.UpdatedAt = now
	if u, err := r.users.GetByID(ctx, post.UserID); err == nil {
		post.User = *u
	}
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id uint) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) List(_ context.Context) ([]model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *fakePostRepo) Update(_ context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[post.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	post.UpdatedAt = r.tick()
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]uint
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]uint)}
}

func (r *fakeSessionRepo) Save(jti string, userID uint, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[jti] = userID
	return nil
}

func (r *fakeSessionRepo) Get(jti string) (uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.sessions[jti]
	if !ok {
		return 0, repository.ErrSessionNotFound
	}
	return id, nil
}

func (r *fakeSessionRepo) Delete(jti string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, jti)
	return nil
}

// fakeStore 记录保存/删除顺序，可注入失败
type fakeStore struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
	// ops 按发生顺序记录 "save:<url>" / "delete:<url>"
	ops        []string
	failSave   bool
	failDelete bool
	counter    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (s *fakeStore) SaveImage(_ context.Context, prefix, _ string, r io.Reader, _ int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return "", fmt.Errorf("save failed")
	}
	_, _ = io.Copy(io.Discard, r)
	s.counter++
	url := fmt.Sprintf("http://store/snapfeed/%s/obj-%d", prefix, s.counter)
	s.saved = append(s.saved, url)
	s.ops = append(s.ops, "save:"+url)
	return url, nil
}

func (s *fakeStore) DeleteByURL(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete {
		return fmt.Errorf("delete failed")
	}
	s.deleted = append(s.deleted, url)
	s.ops = append(s.ops, "delete:"+url)
	return nil
}
