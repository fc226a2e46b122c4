package service

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"prompt-hub/internal/domain"
	"prompt-hub/internal/policy"
	"prompt-hub/internal/repository"
)

// In-memory fakes. Each embeds its repository interface so only the methods a
// test exercises need implementing.

type fakeUserRepo struct {
	repository.UserRepository
	users map[int64]*domain.User
	next  int64
}

func newFakeUserRepo(t *testing.T, users ...*domain.User) *fakeUserRepo {
	t.Helper()
	r := &fakeUserRepo{users: make(map[int64]*domain.User)}
	for _, u := range users {
		if u.ID == 0 {
			t.Fatalf("seed user %q needs an id", u.Username)
		}
		clone := *u
		r.users[u.ID] = &clone
		if u.ID > r.next {
			r.next = u.ID
		}
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (int64, error) {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return 0, fmt.Errorf("duplicate user: %w", domain.ErrConflict)
		}
	}
	r.next++
	user.ID = r.next
	clone := *user
	r.users[user.ID] = &clone
	return user.ID, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", email, domain.ErrNotFound)
}

func (r *fakeUserRepo) List(_ context.Context, offset, limit int) ([]domain.User, error) {
	ids := make([]int64, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []domain.User
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, *r.users[id])
	}
	return out, nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	u.PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) SetTOTP(_ context.Context, id int64, enabled bool, secret string) error {
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	u.TOTPEnabled = enabled
	u.TOTPSecret = secret
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	delete(r.users, id)
	return nil
}

type fakeAdminRepo struct {
	repository.AdminRepository
	ids map[int64]bool
}

func newFakeAdminRepo(adminIDs ...int64) *fakeAdminRepo {
	r := &fakeAdminRepo{ids: make(map[int64]bool)}
	for _, id := range adminIDs {
		r.ids[id] = true
	}
	return r
}

func (r *fakeAdminRepo) Add(_ context.Context, userID int64) error {
	if r.ids[userID] {
		return fmt.Errorf("admin %d: %w", userID, domain.ErrConflict)
	}
	r.ids[userID] = true
	return nil
}

func (r *fakeAdminRepo) Remove(_ context.Context, userID int64) error {
	if !r.ids[userID] {
		return fmt.Errorf("admin %d: %w", userID, domain.ErrNotFound)
	}
	delete(r.ids, userID)
	return nil
}

func (r *fakeAdminRepo) IsAdmin(_ context.Context, userID int64) (bool, error) {
	return r.ids[userID], nil
}

func (r *fakeAdminRepo) ListUserIDs(_ context.Context) ([]int64, error) {
	ids := make([]int64, 0, len(r.ids))
	for id := range r.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type fakePromptRepo struct {
	repository.PromptRepository
	prompts map[int64]*domain.Prompt
	next    int64
}

func newFakePromptRepo(prompts ...*domain.Prompt) *fakePromptRepo {
	r := &fakePromptRepo{prompts: make(map[int64]*domain.Prompt)}
	for _, p := range prompts {
		clone := *p
		r.prompts[p.ID] = &clone
		if p.ID > r.next {
			r.next = p.ID
		}
	}
	return r
}

func (r *fakePromptRepo) Create(_ context.Context, prompt *domain.Prompt) (int64, error) {
	r.next++
	prompt.ID = r.next
	clone := *prompt
	r.prompts[prompt.ID] = &clone
	return prompt.ID, nil
}

func (r *fakePromptRepo) GetByID(_ context.Context, id int64) (*domain.Prompt, error) {
	p, ok := r.prompts[id]
	if !ok {
		return nil, fmt.Errorf("prompt %d: %w", id, domain.ErrNotFound)
	}
	clone := *p
	return &clone, nil
}

func (r *fakePromptRepo) GetContent(_ context.Context, id int64) (string, error) {
	p, ok := r.prompts[id]
	if !ok {
		return "", fmt.Errorf("prompt %d: %w", id, domain.ErrNotFound)
	}
	return p.Content, nil
}

func (r *fakePromptRepo) Update(_ context.Context, id int64, content string, isPublic bool) error {
	p, ok := r.prompts[id]
	if !ok {
		return fmt.Errorf("prompt %d: %w", id, domain.ErrNotFound)
	}
	p.Content = content
	p.IsPublic = isPublic
	return nil
}

func (r *fakePromptRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.prompts[id]; !ok {
		return fmt.Errorf("prompt %d: %w", id, domain.ErrNotFound)
	}
	delete(r.prompts, id)
	return nil
}

func (r *fakePromptRepo) ListByUser(_ context.Context, userID int64, publicOnly bool, offset, limit int) ([]domain.Prompt, error) {
	var out []domain.Prompt
	for _, id := range r.sortedIDs() {
		p := r.prompts[id]
		if p.UserID != userID {
			continue
		}
		if publicOnly && !p.IsPublic {
			continue
		}
		out = append(out, *p)
	}
	return page(out, offset, limit), nil
}

func (r *fakePromptRepo) ListPublic(_ context.Context, _ repository.PromptOrder, offset, limit int) ([]domain.Prompt, error) {
	var out []domain.Prompt
	for _, id := range r.sortedIDs() {
		if p := r.prompts[id]; p.IsPublic {
			out = append(out, *p)
		}
	}
	return page(out, offset, limit), nil
}

func (r *fakePromptRepo) CountByUser(_ context.Context, userID int64) (int64, error) {
	var n int64
	for _, p := range r.prompts {
		if p.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakePromptRepo) CountPublic(_ context.Context) (int64, error) {
	var n int64
	for _, p := range r.prompts {
		if p.IsPublic {
			n++
		}
	}
	return n, nil
}

func (r *fakePromptRepo) sortedIDs() []int64 {
	ids := make([]int64, 0, len(r.prompts))
	for id := range r.prompts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func page(prompts []domain.Prompt, offset, limit int) []domain.Prompt {
	if offset >= len(prompts) {
		return nil
	}
	end := offset + limit
	if end > len(prompts) {
		end = len(prompts)
	}
	return prompts[offset:end]
}

type likeKey struct {
	promptID int64
	userID   int64
}

type fakeLikeRepo struct {
	repository.LikeRepository
	likes map[likeKey]bool
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[likeKey]bool)}
}

func (r *fakeLikeRepo) Add(_ context.Context, promptID, userID int64) error {
	k := likeKey{promptID, userID}
	if r.likes[k] {
		return fmt.Errorf("like exists: %w", domain.ErrConflict)
	}
	r.likes[k] = true
	return nil
}

func (r *fakeLikeRepo) Remove(_ context.Context, promptID, userID int64) error {
	k := likeKey{promptID, userID}
	if !r.likes[k] {
		return fmt.Errorf("like absent: %w", domain.ErrNotFound)
	}
	delete(r.likes, k)
	return nil
}

func (r *fakeLikeRepo) Exists(_ context.Context, promptID, userID int64) (bool, error) {
	return r.likes[likeKey{promptID, userID}], nil
}

func (r *fakeLikeRepo) LikedSet(_ context.Context, userID int64, promptIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(promptIDs))
	for _, id := range promptIDs {
		if r.likes[likeKey{id, userID}] {
			out[id] = true
		}
	}
	return out, nil
}

func (r *fakeLikeRepo) CountByUser(_ context.Context, userID int64) (int64, error) {
	var n int64
	for k := range r.likes {
		if k.userID == userID {
			n++
		}
	}
	return n, nil
}

type fakeCommentRepo struct {
	repository.CommentRepository
	comments map[int64]*domain.Comment
	next     int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[int64]*domain.Comment)}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) (int64, error) {
	r.next++
	comment.ID = r.next
	clone := *comment
	r.comments[comment.ID] = &clone
	return comment.ID, nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id int64) (*domain.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %d: %w", id, domain.ErrNotFound)
	}
	clone := *c
	return &clone, nil
}

func (r *fakeCommentRepo) ListByPrompt(_ context.Context, promptID int64, offset, limit int) ([]domain.Comment, error) {
	var out []domain.Comment
	for id := r.next; id >= 1; id-- {
		if c, ok := r.comments[id]; ok && c.PromptID == promptID {
			out = append(out, *c)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (r *fakeCommentRepo) UpdateContent(_ context.Context, id int64, content string) error {
	c, ok := r.comments[id]
	if !ok {
		return fmt.Errorf("comment %d: %w", id, domain.ErrNotFound)
	}
	c.Content = content
	return nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.comments[id]; !ok {
		return fmt.Errorf("comment %d: %w", id, domain.ErrNotFound)
	}
	delete(r.comments, id)
	return nil
}

type fakeLabelRepo struct {
	repository.LabelRepository
	labels   map[int64]*domain.Label
	attached map[likeKey]bool // promptID/labelID pairs, reusing the pair key
	next     int64
}

func newFakeLabelRepo(names ...string) *fakeLabelRepo {
	r := &fakeLabelRepo{
		labels:   make(map[int64]*domain.Label),
		attached: make(map[likeKey]bool),
	}
	for _, name := range names {
		r.next++
		r.labels[r.next] = &domain.Label{ID: r.next, Name: name}
	}
	return r
}

func (r *fakeLabelRepo) Create(_ context.Context, name string) (*domain.Label, error) {
	for _, l := range r.labels {
		if l.Name == name {
			return nil, fmt.Errorf("label %q: %w", name, domain.ErrConflict)
		}
	}
	r.next++
	label := &domain.Label{ID: r.next, Name: name}
	r.labels[label.ID] = label
	clone := *label
	return &clone, nil
}

func (r *fakeLabelRepo) Rename(_ context.Context, id int64, name string) (*domain.Label, error) {
	for _, l := range r.labels {
		if l.Name == name && l.ID != id {
			return nil, fmt.Errorf("label %q: %w", name, domain.ErrConflict)
		}
	}
	l, ok := r.labels[id]
	if !ok {
		return nil, fmt.Errorf("label %d: %w", id, domain.ErrNotFound)
	}
	l.Name = name
	clone := *l
	return &clone, nil
}

func (r *fakeLabelRepo) DeleteByName(_ context.Context, name string) error {
	for id, l := range r.labels {
		if l.Name == name {
			delete(r.labels, id)
			for k := range r.attached {
				if k.userID == id { // pair key holds labelID in its second slot
					delete(r.attached, k)
				}
			}
			return nil
		}
	}
	return fmt.Errorf("label %q: %w", name, domain.ErrNotFound)
}

func (r *fakeLabelRepo) GetByName(_ context.Context, name string) (*domain.Label, error) {
	for _, l := range r.labels {
		if l.Name == name {
			clone := *l
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("label %q: %w", name, domain.ErrNotFound)
}

func (r *fakeLabelRepo) Attach(_ context.Context, promptID, labelID int64) error {
	k := likeKey{promptID, labelID}
	if r.attached[k] {
		return fmt.Errorf("label attached: %w", domain.ErrConflict)
	}
	r.attached[k] = true
	return nil
}

func (r *fakeLabelRepo) Detach(_ context.Context, promptID, labelID int64) error {
	k := likeKey{promptID, labelID}
	if !r.attached[k] {
		return fmt.Errorf("label not attached: %w", domain.ErrNotFound)
	}
	delete(r.attached, k)
	return nil
}

func (r *fakeLabelRepo) ListForPrompt(_ context.Context, promptID int64) ([]domain.Label, error) {
	var out []domain.Label
	for id := int64(1); id <= r.next; id++ {
		if r.attached[likeKey{promptID, id}] {
			out = append(out, *r.labels[id])
		}
	}
	return out, nil
}

type fakeAuditRepo struct {
	repository.AuditRepository
	records []domain.AuditRecord
	err     error
}

func (r *fakeAuditRepo) Insert(_ context.Context, record *domain.AuditRecord) error {
	if r.err != nil {
		return r.err
	}
	record.ID = int64(len(r.records) + 1)
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeAuditRepo) ListAfterID(_ context.Context, afterID int64, limit int) ([]domain.AuditRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.AuditRecord
	for _, rec := range r.records {
		if rec.ID <= afterID {
			continue
		}
		out = append(out, rec)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func policyVisibility(admins policy.AdminDirectory) *policy.Visibility {
	return policy.NewVisibility(admins, testSuperAdminID)
}

func policyPrivilege(admins policy.AdminDirectory) *policy.Privilege {
	return policy.NewPrivilege(admins, testSuperAdminID)
}

// test-local password check, so tests do not pay for real bcrypt
func plainVerify(plain, hash string) bool {
	return "hashed:"+plain == hash
}

func actor(id int64) *policy.Actor {
	return &policy.Actor{ID: id, IsActive: true}
}
