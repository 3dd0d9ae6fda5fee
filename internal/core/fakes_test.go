package core

import (
	"context"
	"sync"

	"tutor-backend-go/internal/db"
	"tutor-backend-go/internal/identity"
	"tutor-backend-go/internal/llm"
	"tutor-backend-go/internal/models"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[string]*models.User
	created []*models.User
	getErr  error
	createE error
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createE != nil {
		return r.createE
	}
	if _, ok := r.users[u.ID]; ok {
		return db.ErrAlreadyExists
	}
	r.users[u.ID] = u
	r.created = append(r.created, u)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, uid string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	u, ok := r.users[uid]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type savedExchange struct {
	userID, conversationID string
	userTurn, modelTurn    models.Turn
	countTowardsQuota      bool
}

// fakeConvRepo applies SaveExchange to an in-memory map and to the user repo
// so tests can observe both the history and the counter.
type fakeConvRepo struct {
	mu      sync.Mutex
	convs   map[string][]models.Turn
	saves   []savedExchange
	users   *fakeUserRepo
	saveErr error
}

func newFakeConvRepo(users *fakeUserRepo) *fakeConvRepo {
	return &fakeConvRepo{convs: map[string][]models.Turn{}, users: users}
}

func (r *fakeConvRepo) key(uid, cid string) string { return uid + "/" + cid }

func (r *fakeConvRepo) Get(_ context.Context, uid, cid string) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := append([]models.Turn{}, r.convs[r.key(uid, cid)]...)
	return &models.Conversation{ID: cid, History: h}, nil
}

func (r *fakeConvRepo) SaveExchange(_ context.Context, uid, cid string, userTurn, modelTurn models.Turn, count bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves = append(r.saves, savedExchange{uid, cid, userTurn, modelTurn, count})
	k := r.key(uid, cid)
	r.convs[k] = append(r.convs[k], userTurn, modelTurn)
	if count && r.users != nil {
		r.users.mu.Lock()
		if u, ok := r.users.users[uid]; ok {
			u.MessageCount++
		} else {
			r.users.users[uid] = &models.User{ID: uid, MessageCount: 1}
		}
		r.users.mu.Unlock()
	}
	return nil
}

type fakeModel struct {
	mu       sync.Mutex
	calls    []llm.GenerateRequest
	generate func(ctx context.Context, req llm.GenerateRequest) (string, error)
}

func (m *fakeModel) GenerateContent(ctx context.Context, req llm.GenerateRequest) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
	if m.generate != nil {
		return m.generate(ctx, req)
	}
	return "What do you think the first step is?", nil
}

type fakeImages struct {
	mu      sync.Mutex
	images  map[string]*llm.InlineData
	fetched []string
	err     error
}

func (f *fakeImages) Fetch(_ context.Context, url string) (*llm.InlineData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, url)
	if f.err != nil {
		return nil, f.err
	}
	if d, ok := f.images[url]; ok {
		return d, nil
	}
	return &llm.InlineData{MimeType: "image/png", Data: "aW1n"}, nil
}

type fakeIdentity struct {
	mu        sync.Mutex
	byEmail   map[string]*identity.Record
	createErr error
	tokenErr  error
	deleted   []string
	nextUID   string
	tokensFor []string
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{byEmail: map[string]*identity.Record{}, nextUID: "uid-new"}
}

func (f *fakeIdentity) CreateUser(_ context.Context, email, _, name string) (*identity.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[email]; ok {
		return nil, identity.ErrEmailAlreadyExists
	}
	rec := &identity.Record{UID: f.nextUID, Email: email, DisplayName: name}
	f.byEmail[email] = rec
	return rec, nil
}

func (f *fakeIdentity) GetUserByEmail(_ context.Context, email string) (*identity.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.byEmail[email]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	return rec, nil
}

func (f *fakeIdentity) CustomToken(_ context.Context, uid string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	f.tokensFor = append(f.tokensFor, uid)
	return "token-" + uid, nil
}

func (f *fakeIdentity) DeleteUser(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, uid)
	for email, rec := range f.byEmail {
		if rec.UID == uid {
			delete(f.byEmail, email)
		}
	}
	return nil
}

type fakeVerifier struct {
	uid string
	err error
}

func (v *fakeVerifier) VerifyPassword(context.Context, string, string) (string, error) {
	return v.uid, v.err
}
