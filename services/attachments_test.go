package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/rpupo63/agile-blog-backend/access"
	"github.com/rpupo63/agile-blog-backend/errs"
	"github.com/rpupo63/agile-blog-backend/models"
	"gorm.io/datatypes"
)

var (
	pngBytes  = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	gifBytes  = []byte("GIF89a\x01\x00\x01\x00")
	textBytes = []byte("definitely not an image")
)

func newAttachmentsFixture() (*Attachments, *fakePostStore, *fakeUserStore, *fakeObjectStorage) {
	posts := newFakePostStore()
	users := newFakeUserStore()
	objects := newFakeObjectStorage()
	return NewAttachments(posts, users, objects), posts, users, objects
}

func addAuthoredPost(store *fakePostStore, author access.Requester, names ...string) *models.Post {
	return store.add(models.Post{
		Title:       "Post With Files",
		Slug:        "post-with-files",
		Content:     "content",
		Status:      models.PostStatusDraft,
		AuthorID:    author.ID,
		Attachments: datatypes.NewJSONSlice(names),
	})
}

func TestAddAttachmentsAppendsToExisting(t *testing.T) {
	svc, store, _, objects := newAttachmentsFixture()
	author := access.User(uuid.New())
	post := addAuthoredPost(store, author, "old.png")

	names, err := svc.Add(context.Background(), author, post.ID, []string{"old.png"},
		[]Upload{{Name: "new photo.png", Data: pngBytes}})
	require.NoError(t, err)

	require.Len(t, names, 2)
	assert.Equal(t, "old.png", names[0], "existing files keep their position")
	assert.True(t, strings.HasSuffix(names[1], ".png"))

	// The store received the full set, not a delta
	require.Len(t, store.attachmentWrites, 1)
	assert.Equal(t, names, store.attachmentWrites[0])

	assert.Len(t, objects.puts, 1)
}

func TestAddAttachmentsDropsNamesMissingFromSnapshot(t *testing.T) {
	svc, store, _, objects := newAttachmentsFixture()
	author := access.User(uuid.New())
	post := addAuthoredPost(store, author, "keep.png", "drop.png")

	names, err := svc.Add(context.Background(), author, post.ID, []string{"keep.png"},
		[]Upload{{Name: "fresh.gif", Data: gifBytes}})
	require.NoError(t, err)

	require.Len(t, names, 2)
	assert.Equal(t, "keep.png", names[0])
	assert.NotContains(t, names, "drop.png")

	// The detached file's object is gone from the bucket
	assert.Contains(t, objects.removes, fmt.Sprintf("posts/%s/drop.png", post.ID))
}

func TestAddAttachmentsRejectsOverCount(t *testing.T) {
	svc, store, _, objects := newAttachmentsFixture()
	author := access.User(uuid.New())
	existing := []string{"a.png", "b.png", "c.png", "d.png", "e.png", "f.png"}
	post := addAuthoredPost(store, author, existing...)

	_, err := svc.Add(context.Background(), author, post.ID, existing,
		[]Upload{{Name: "seventh.png", Data: pngBytes}})

	assert.True(t, errs.IsValidationError(err))
	assert.Empty(t, store.attachmentWrites, "a rejected batch writes nothing")
	assert.Empty(t, objects.puts)
}

func TestAddAttachmentsRejectsOversizedFile(t *testing.T) {
	svc, store, _, objects := newAttachmentsFixture()
	author := access.User(uuid.New())
	post := addAuthoredPost(store, author)

	big := append(append([]byte{}, pngBytes...), make([]byte, maxAttachmentSize)...)
	_, err := svc.Add(context.Background(), author, post.ID, nil,
		[]Upload{{Name: "ok.png", Data: pngBytes}, {Name: "huge.png", Data: big}})

	assert.True(t, errs.IsAttachmentRejected(err))
	assert.Empty(t, store.attachmentWrites, "one bad file fails the whole batch before any write")
	assert.Empty(t, objects.puts)
}

func TestAddAttachmentsRejectsUnsupportedType(t *testing.T) {
	svc, store, _, objects := newAttachmentsFixture()
	author := access.User(uuid.New())
	post := addAuthoredPost(store, author)

	_, err := svc.Add(context.Background(), author, post.ID, nil,
		[]Upload{{Name: "notes.txt", Data: textBytes}})

	assert.True(t, errs.IsAttachmentRejected(err))
	assert.Empty(t, store.attachmentWrites)
	assert.Empty(t, objects.puts)
}

func TestAddAttachmentsForbiddenForNonAuthor(t *testing.T) {
	svc, store, _, _ := newAttachmentsFixture()
	post := addAuthoredPost(store, access.User(uuid.New()))

	_, err := svc.Add(context.Background(), access.User(uuid.New()), post.ID, nil,
		[]Upload{{Name: "photo.png", Data: pngBytes}})

	assert.True(t, errs.IsForbidden(err))
}

func TestRemoveAttachmentPreservesOrder(t *testing.T) {
	svc, store, _, objects := newAttachmentsFixture()
	author := access.User(uuid.New())
	post := addAuthoredPost(store, author, "a.png", "b.png", "c.png")

	names, err := svc.Remove(context.Background(), author, post.ID, "b.png")
	require.NoError(t, err)

	assert.Equal(t, []string{"a.png", "c.png"}, names)
	assert.Contains(t, objects.removes, fmt.Sprintf("posts/%s/b.png", post.ID))
}

func TestRemoveLastAttachmentWritesExplicitEmptyList(t *testing.T) {
	svc, store, _, _ := newAttachmentsFixture()
	author := access.User(uuid.New())
	post := addAuthoredPost(store, author, "only.png")

	names, err := svc.Remove(context.Background(), author, post.ID, "only.png")
	require.NoError(t, err)

	assert.Empty(t, names)
	// The write carries an empty list rather than omitting the column
	require.Len(t, store.attachmentWrites, 1)
	assert.Equal(t, []string{}, store.attachmentWrites[0])
}

func TestRemoveUnknownNameIsHarmless(t *testing.T) {
	svc, store, _, objects := newAttachmentsFixture()
	author := access.User(uuid.New())
	post := addAuthoredPost(store, author, "a.png")

	names, err := svc.Remove(context.Background(), author, post.ID, "missing.png")
	require.NoError(t, err)

	assert.Equal(t, []string{"a.png"}, names)
	assert.Empty(t, objects.removes)
}

func TestConcurrentRemovesSerializePerPost(t *testing.T) {
	svc, store, _, _ := newAttachmentsFixture()
	author := access.User(uuid.New())
	post := addAuthoredPost(store, author, "a.png", "b.png", "c.png")

	var wg sync.WaitGroup
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_, err := svc.Remove(context.Background(), author, post.ID, name)
			assert.NoError(t, err)
		}(name)
	}
	wg.Wait()

	reloaded, err := store.FindByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Empty(t, []string(reloaded.Attachments), "each removal saw the previous one's write")
}

func TestLockMapDropsEntriesForMissingPosts(t *testing.T) {
	svc, _, _, _ := newAttachmentsFixture()
	author := access.User(uuid.New())
	gone := uuid.New()

	_, err := svc.Remove(context.Background(), author, gone, "a.png")
	assert.True(t, errs.IsNotFound(err))

	svc.mu.Lock()
	_, held := svc.locks[gone]
	svc.mu.Unlock()
	assert.False(t, held, "a failed lookup leaves no lock entry behind")
}

func TestSetCoverReplacesPrevious(t *testing.T) {
	svc, store, _, objects := newAttachmentsFixture()
	author := access.User(uuid.New())
	old := "old-cover.png"
	post := store.add(models.Post{
		Title:    "Covered Post",
		Slug:     "covered-post",
		Content:  "content",
		Status:   models.PostStatusDraft,
		AuthorID: author.ID,
		Cover:    &old,
	})

	name, err := svc.SetCover(context.Background(), author, post.ID, Upload{Name: "new cover.png", Data: pngBytes})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(name, ".png"))

	reloaded, err := store.FindByID(context.Background(), post.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Cover)
	assert.Equal(t, name, *reloaded.Cover)

	assert.Contains(t, objects.removes, fmt.Sprintf("posts/%s/old-cover.png", post.ID))
}

func TestSetCoverRejectsGif(t *testing.T) {
	svc, store, _, _ := newAttachmentsFixture()
	author := access.User(uuid.New())
	post := addAuthoredPost(store, author)

	// Gif is allowed for attachments but not for covers
	_, err := svc.SetCover(context.Background(), author, post.ID, Upload{Name: "anim.gif", Data: gifBytes})
	assert.True(t, errs.IsAttachmentRejected(err))
}

func TestSetProfileAvatarSelfOnly(t *testing.T) {
	svc, _, users, objects := newAttachmentsFixture()
	user := users.add(models.User{Username: "writer", Email: "writer@example.com"})
	caller := access.User(user.ID)

	name, err := svc.SetProfileAvatar(context.Background(), caller, Upload{Name: "me.png", Data: pngBytes})
	require.NoError(t, err)

	reloaded, err := users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.ProfileAvatar)
	assert.Equal(t, name, *reloaded.ProfileAvatar)

	assert.Contains(t, objects.puts, fmt.Sprintf("users/%s/%s", user.ID, name))

	_, err = svc.SetProfileAvatar(context.Background(), access.Anonymous(), Upload{Name: "me.png", Data: pngBytes})
	assert.True(t, errs.IsUnauthorized(err))
}

func TestUploadFailureCleansUpPartialObjects(t *testing.T) {
	svc, store, _, objects := newAttachmentsFixture()
	author := access.User(uuid.New())
	post := addAuthoredPost(store, author)
	objects.failPut = bytes.ErrTooLarge

	_, err := svc.Add(context.Background(), author, post.ID, nil,
		[]Upload{{Name: "photo.png", Data: pngBytes}})

	assert.Error(t, err)
	assert.Empty(t, store.attachmentWrites)
	assert.Empty(t, objects.objects)
}
