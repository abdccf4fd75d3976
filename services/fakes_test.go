package services

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rpupo63/agile-blog-backend/errs"
	"github.com/rpupo63/agile-blog-backend/models"
	"gorm.io/datatypes"
)

// In-memory store fakes. They reproduce the store-side behavior the services
// rely on: not-found errors, the duplicate slug conflict, the listing rule and
// full-set attachment writes, and they record the writes they receive.

type fakePostStore struct {
	mu    sync.Mutex
	posts map[uuid.UUID]*models.Post

	attachmentWrites [][]string
	coverWrites      []*string
	createOmits      [][]string
	updateOmits      [][]string

	failCreateOnce error
	failUpdateOnce error
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: make(map[uuid.UUID]*models.Post)}
}

func (f *fakePostStore) add(post models.Post) *models.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	stored := post
	f.posts[stored.ID] = &stored
	return &stored
}

func copyPost(p *models.Post) *models.Post {
	clone := *p
	clone.Attachments = append(datatypes.JSONSlice[string]{}, p.Attachments...)
	clone.Tags = append([]models.Tag{}, p.Tags...)
	return &clone
}

func (f *fakePostStore) FindByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok {
		return nil, errs.NewNotFoundError("post not found")
	}
	return copyPost(post), nil
}

func (f *fakePostStore) FindBySlug(_ context.Context, slug string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, post := range f.posts {
		if post.Slug == slug {
			return copyPost(post), nil
		}
	}
	return nil, errs.NewNotFoundError("post not found")
}

func (f *fakePostStore) List(_ context.Context, q PostQuery) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Post
	for _, post := range f.posts {
		switch {
		case q.OwnOnly:
			if post.AuthorID != q.Caller {
				continue
			}
		case q.Caller == uuid.Nil:
			if post.Status != models.PostStatusPublished {
				continue
			}
		default:
			if post.Status != models.PostStatusPublished && post.AuthorID != q.Caller {
				continue
			}
		}
		out = append(out, *copyPost(post))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].PublishedAt, out[j].PublishedAt
		if a == nil || b == nil {
			return a != nil
		}
		return a.After(*b)
	})
	return out, nil
}

func (f *fakePostStore) Create(_ context.Context, post *models.Post, omitColumns ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createOmits = append(f.createOmits, omitColumns)
	if f.failCreateOnce != nil {
		err := f.failCreateOnce
		f.failCreateOnce = nil
		return err
	}
	for _, existing := range f.posts {
		if existing.Slug == post.Slug {
			return errs.NewDuplicateSlugError(post.Slug)
		}
	}
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	f.posts[post.ID] = copyPost(post)
	return nil
}

func (f *fakePostStore) Update(_ context.Context, post *models.Post, omitColumns ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updateOmits = append(f.updateOmits, omitColumns)
	if f.failUpdateOnce != nil {
		err := f.failUpdateOnce
		f.failUpdateOnce = nil
		return err
	}
	existing, ok := f.posts[post.ID]
	if !ok {
		return errs.NewNotFoundError("post not found")
	}

	updated := copyPost(post)
	for _, col := range omitColumns {
		if col == "slug" {
			updated.Slug = existing.Slug
		}
		if col == "show_attachments" {
			updated.ShowAttachments = existing.ShowAttachments
		}
	}
	updated.Tags = existing.Tags
	f.posts[post.ID] = updated
	return nil
}

func (f *fakePostStore) ReplaceTags(_ context.Context, post *models.Post, tags []models.Tag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.posts[post.ID]
	if !ok {
		return errs.NewNotFoundError("post not found")
	}
	existing.Tags = append([]models.Tag{}, tags...)
	return nil
}

func (f *fakePostStore) UpdateAttachments(_ context.Context, id uuid.UUID, names []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok {
		return errs.NewNotFoundError("post not found")
	}
	f.attachmentWrites = append(f.attachmentWrites, append([]string{}, names...))
	post.Attachments = datatypes.NewJSONSlice(names)
	return nil
}

func (f *fakePostStore) UpdateCover(_ context.Context, id uuid.UUID, name *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok {
		return errs.NewNotFoundError("post not found")
	}
	f.coverWrites = append(f.coverWrites, name)
	post.Cover = name
	return nil
}

func (f *fakePostStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return errs.NewNotFoundError("post not found")
	}
	delete(f.posts, id)
	return nil
}

type fakeTagStore struct {
	mu   sync.Mutex
	tags map[uuid.UUID]*models.Tag
}

func newFakeTagStore() *fakeTagStore {
	return &fakeTagStore{tags: make(map[uuid.UUID]*models.Tag)}
}

func (f *fakeTagStore) add(tag models.Tag) *models.Tag {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}
	stored := tag
	f.tags[stored.ID] = &stored
	return &stored
}

func (f *fakeTagStore) FindByID(_ context.Context, id uuid.UUID) (*models.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tag, ok := f.tags[id]
	if !ok {
		return nil, errs.NewNotFoundError("tag not found")
	}
	clone := *tag
	return &clone, nil
}

func (f *fakeTagStore) FindBySlug(_ context.Context, slug string) (*models.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tag := range f.tags {
		if tag.Slug == slug {
			clone := *tag
			return &clone, nil
		}
	}
	return nil, errs.NewNotFoundError("tag not found")
}

func (f *fakeTagStore) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Tag
	for _, id := range ids {
		if tag, ok := f.tags[id]; ok {
			out = append(out, *tag)
		}
	}
	return out, nil
}

func (f *fakeTagStore) List(_ context.Context) ([]models.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Tag
	for _, tag := range f.tags {
		out = append(out, *tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeTagStore) Create(_ context.Context, tag *models.Tag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.tags {
		if existing.Slug == tag.Slug {
			return errs.NewDuplicateSlugError(tag.Slug)
		}
	}
	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}
	clone := *tag
	f.tags[tag.ID] = &clone
	return nil
}

func (f *fakeTagStore) Update(_ context.Context, tag *models.Tag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tags[tag.ID]; !ok {
		return errs.NewNotFoundError("tag not found")
	}
	clone := *tag
	f.tags[tag.ID] = &clone
	return nil
}

func (f *fakeTagStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tags[id]; !ok {
		return errs.NewNotFoundError("tag not found")
	}
	delete(f.tags, id)
	return nil
}

type fakeCommentStore struct {
	mu       sync.Mutex
	comments map[uuid.UUID]*models.Comment
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: make(map[uuid.UUID]*models.Comment)}
}

func (f *fakeCommentStore) add(comment models.Comment) *models.Comment {
	f.mu.Lock()
	defer f.mu.Unlock()
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	stored := comment
	f.comments[stored.ID] = &stored
	return &stored
}

func (f *fakeCommentStore) FindByID(_ context.Context, id uuid.UUID) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[id]
	if !ok {
		return nil, errs.NewNotFoundError("comment not found")
	}
	clone := *comment
	return &clone, nil
}

func (f *fakeCommentStore) ListByPost(_ context.Context, postID uuid.UUID) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Comment
	for _, comment := range f.comments {
		if comment.PostID == postID {
			out = append(out, *comment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeCommentStore) FindByPostAndAuthor(_ context.Context, postID, authorID uuid.UUID) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, comment := range f.comments {
		if comment.PostID == postID && comment.AuthorID == authorID {
			clone := *comment
			return &clone, nil
		}
	}
	return nil, errs.NewNotFoundError("comment not found")
}

func (f *fakeCommentStore) Create(_ context.Context, comment *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	clone := *comment
	f.comments[comment.ID] = &clone
	return nil
}

func (f *fakeCommentStore) Update(_ context.Context, comment *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[comment.ID]; !ok {
		return errs.NewNotFoundError("comment not found")
	}
	clone := *comment
	f.comments[comment.ID] = &clone
	return nil
}

func (f *fakeCommentStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[id]; !ok {
		return errs.NewNotFoundError("comment not found")
	}
	delete(f.comments, id)
	return nil
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserStore) add(user models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	stored := user
	f.users[stored.ID] = &stored
	return &stored
}

func (f *fakeUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, errs.NewNotFoundError("user not found")
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, errs.NewNotFoundError("user not found")
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserStore) UpdateProfileAvatar(_ context.Context, id uuid.UUID, name *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return errs.NewNotFoundError("user not found")
	}
	user.ProfileAvatar = name
	return nil
}

type fakeObjectStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    []string
	removes []string
	failPut error
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{objects: make(map[string][]byte)}
}

func (f *fakeObjectStorage) Put(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut != nil {
		return f.failPut
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[name] = data
	f.puts = append(f.puts, name)
	return nil
}

func (f *fakeObjectStorage) Remove(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, name)
	f.removes = append(f.removes, name)
	return nil
}
