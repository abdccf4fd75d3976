package services

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"path"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rpupo63/agile-blog-backend/access"
	"github.com/rpupo63/agile-blog-backend/errs"
)

const (
	maxAttachmentCount = 6
	maxAttachmentSize  = 8 << 20
	maxCoverSize       = 5 << 20
	maxAvatarSize      = 5 << 20
)

var attachmentMIMEs = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var coverMIMEs = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// Upload is one incoming file, fully buffered. Buffering keeps validation
// ahead of any write: a rejected batch must leave no partial state anywhere.
type Upload struct {
	Name string
	Data []byte
}

// Attachments reconciles a post's attachment set against the store without
// losing previously stored files unless explicitly removed. Every store write
// carries the full desired set, never a delta, and operations on a single
// post are serialized: overlapping calls would work from stale snapshots and
// silently resurrect or drop files.
type Attachments struct {
	posts   PostStore
	users   UserStore
	objects ObjectStorage
	logger  zerolog.Logger

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewAttachments(posts PostStore, users UserStore, objects ObjectStorage) *Attachments {
	return &Attachments{
		posts:   posts,
		users:   users,
		objects: objects,
		logger:  log.With().Str("serviceName", "attachments").Logger(),
		locks:   make(map[uuid.UUID]*sync.Mutex),
	}
}

// lockPost serializes attachment mutations per post ID. The map holds one
// entry per live post at most: entries for posts that no longer resolve are
// dropped by forgetPost on the failed lookup.
func (a *Attachments) lockPost(id uuid.UUID) func() {
	a.mu.Lock()
	lock, ok := a.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[id] = lock
	}
	a.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// forgetPost drops the lock entry for a post that no longer exists. Callers
// racing the eviction fail their own lookup and converge on the same path.
func (a *Attachments) forgetPost(id uuid.UUID) {
	a.mu.Lock()
	delete(a.locks, id)
	a.mu.Unlock()
}

// Add validates and uploads new files, then writes existing ++ new as the
// post's full attachment set. The caller's existing list is authoritative:
// a name omitted from it is permanently dropped, so callers must always pass
// the complete current set. Returns the store's resulting list.
func (a *Attachments) Add(ctx context.Context, caller access.Requester, postID uuid.UUID, existing []string, uploads []Upload) ([]string, error) {
	unlock := a.lockPost(postID)
	defer unlock()

	post, err := a.posts.FindByID(ctx, postID)
	if err != nil {
		if errs.IsNotFound(err) {
			a.forgetPost(postID)
		}
		return nil, err
	}
	if !caller.Authenticated {
		return nil, errs.NewUnauthorizedError("attachment changes require a session")
	}
	if !access.CanMutatePost(caller, post) {
		return nil, errs.NewForbiddenError("only the author may change attachments")
	}

	if len(existing)+len(uploads) > maxAttachmentCount {
		return nil, errs.NewValidationError("attachments",
			fmt.Sprintf("a post may have at most %d attachments", maxAttachmentCount))
	}

	// Validate the whole batch before the first write.
	types := make([]*mimetype.MIME, len(uploads))
	for i, up := range uploads {
		if int64(len(up.Data)) > maxAttachmentSize {
			return nil, errs.NewAttachmentRejectedError(errs.AttachmentRejectedSize,
				fmt.Sprintf("%s exceeds the %dMB attachment limit", up.Name, maxAttachmentSize>>20))
		}
		mt := mimetype.Detect(up.Data)
		if _, ok := attachmentMIMEs[mt.String()]; !ok {
			return nil, errs.NewAttachmentRejectedError(errs.AttachmentRejectedType,
				fmt.Sprintf("%s has unsupported type %s", up.Name, mt.String()))
		}
		types[i] = mt
	}

	stored := make([]string, 0, len(uploads))
	for i, up := range uploads {
		name := normalizeObjectName(up.Name, attachmentMIMEs[types[i].String()])
		key := attachmentKey(postID, name)
		if err := a.objects.Put(ctx, key, bytes.NewReader(up.Data), int64(len(up.Data)), types[i].String()); err != nil {
			a.cleanup(ctx, postID, stored)
			return nil, errs.NewDatabaseError("upload attachment", "post", err)
		}
		stored = append(stored, name)
	}

	full := make([]string, 0, len(existing)+len(stored))
	full = append(full, existing...)
	full = append(full, stored...)

	if err := a.posts.UpdateAttachments(ctx, postID, full); err != nil {
		a.cleanup(ctx, postID, stored)
		return nil, err
	}

	// Files the caller left out of the snapshot are detached now; drop their
	// objects so the bucket does not accumulate orphans.
	for _, name := range diffNames(post.Attachments, existing) {
		a.removeObject(ctx, postID, name)
	}

	return full, nil
}

// Remove detaches one attachment, preserving order and content of the rest.
// Removing the last name still issues an explicit empty-list write; skipping
// the column would leave the stale file attached in the store.
func (a *Attachments) Remove(ctx context.Context, caller access.Requester, postID uuid.UUID, name string) ([]string, error) {
	unlock := a.lockPost(postID)
	defer unlock()

	post, err := a.posts.FindByID(ctx, postID)
	if err != nil {
		if errs.IsNotFound(err) {
			a.forgetPost(postID)
		}
		return nil, err
	}
	if !caller.Authenticated {
		return nil, errs.NewUnauthorizedError("attachment changes require a session")
	}
	if !access.CanMutatePost(caller, post) {
		return nil, errs.NewForbiddenError("only the author may change attachments")
	}

	remaining := make([]string, 0, len(post.Attachments))
	for _, existing := range post.Attachments {
		if existing != name {
			remaining = append(remaining, existing)
		}
	}

	if err := a.posts.UpdateAttachments(ctx, postID, remaining); err != nil {
		return nil, err
	}

	if len(remaining) < len(post.Attachments) {
		a.removeObject(ctx, postID, name)
	}

	return remaining, nil
}

// SetCover replaces the post's cover image (single file, full replacement).
func (a *Attachments) SetCover(ctx context.Context, caller access.Requester, postID uuid.UUID, up Upload) (string, error) {
	unlock := a.lockPost(postID)
	defer unlock()

	post, err := a.posts.FindByID(ctx, postID)
	if err != nil {
		if errs.IsNotFound(err) {
			a.forgetPost(postID)
		}
		return "", err
	}
	if !caller.Authenticated {
		return "", errs.NewUnauthorizedError("cover changes require a session")
	}
	if !access.CanMutatePost(caller, post) {
		return "", errs.NewForbiddenError("only the author may change the cover")
	}

	mt, err := validateSingleImage(up, maxCoverSize)
	if err != nil {
		return "", err
	}

	name := normalizeObjectName(up.Name, coverMIMEs[mt])
	key := attachmentKey(postID, name)
	if err := a.objects.Put(ctx, key, bytes.NewReader(up.Data), int64(len(up.Data)), mt); err != nil {
		return "", errs.NewDatabaseError("upload cover", "post", err)
	}

	if err := a.posts.UpdateCover(ctx, postID, &name); err != nil {
		a.removeObject(ctx, postID, name)
		return "", err
	}

	if post.Cover != nil && *post.Cover != name {
		a.removeObject(ctx, postID, *post.Cover)
	}

	return name, nil
}

// SetProfileAvatar replaces the caller's blog avatar (self-only write).
func (a *Attachments) SetProfileAvatar(ctx context.Context, caller access.Requester, up Upload) (string, error) {
	if !caller.Authenticated {
		return "", errs.NewUnauthorizedError("avatar changes require a session")
	}

	user, err := a.users.FindByID(ctx, caller.ID)
	if err != nil {
		return "", err
	}
	if !access.CanMutateUser(caller, user) {
		return "", errs.NewForbiddenError("only the account owner may change the avatar")
	}

	mt, err := validateSingleImage(up, maxAvatarSize)
	if err != nil {
		return "", err
	}

	name := normalizeObjectName(up.Name, coverMIMEs[mt])
	key := avatarKey(user.ID, name)
	if err := a.objects.Put(ctx, key, bytes.NewReader(up.Data), int64(len(up.Data)), mt); err != nil {
		return "", errs.NewDatabaseError("upload avatar", "user", err)
	}

	if err := a.users.UpdateProfileAvatar(ctx, user.ID, &name); err != nil {
		if rmErr := a.objects.Remove(ctx, key); rmErr != nil {
			a.logger.Error().Err(rmErr).Str("object", key).Msg("failed to remove avatar after store write failed")
		}
		return "", err
	}

	if user.ProfileAvatar != nil && *user.ProfileAvatar != name {
		old := avatarKey(user.ID, *user.ProfileAvatar)
		if rmErr := a.objects.Remove(ctx, old); rmErr != nil {
			a.logger.Error().Err(rmErr).Str("object", old).Msg("failed to remove replaced avatar")
		}
	}

	return name, nil
}

// validateSingleImage enforces the single-image limits (≤5MB, png/jpeg/webp)
func validateSingleImage(up Upload, maxSize int64) (string, error) {
	if int64(len(up.Data)) > maxSize {
		return "", errs.NewAttachmentRejectedError(errs.AttachmentRejectedSize,
			fmt.Sprintf("%s exceeds the %dMB limit", up.Name, maxSize>>20))
	}
	mt := mimetype.Detect(up.Data).String()
	if _, ok := coverMIMEs[mt]; !ok {
		return "", errs.NewAttachmentRejectedError(errs.AttachmentRejectedType,
			fmt.Sprintf("%s has unsupported type %s", up.Name, mt))
	}
	return mt, nil
}

func (a *Attachments) cleanup(ctx context.Context, postID uuid.UUID, names []string) {
	for _, name := range names {
		a.removeObject(ctx, postID, name)
	}
}

func (a *Attachments) removeObject(ctx context.Context, postID uuid.UUID, name string) {
	key := attachmentKey(postID, name)
	if err := a.objects.Remove(ctx, key); err != nil {
		a.logger.Error().Err(err).Str("object", key).Msg("failed to remove detached object")
	}
}

func attachmentKey(postID uuid.UUID, name string) string {
	return fmt.Sprintf("posts/%s/%s", postID, name)
}

func avatarKey(userID uuid.UUID, name string) string {
	return fmt.Sprintf("users/%s/%s", userID, name)
}

// normalizeObjectName rewrites an uploaded filename into a slugged base plus a
// random suffix and a canonical extension, so distinct uploads never collide
// and names stay URL-safe.
func normalizeObjectName(original, ext string) string {
	base := Slugify(strings.TrimSuffix(original, path.Ext(original)))
	if base == "" {
		base = "file"
	}
	if len(base) > 60 {
		base = base[:60]
	}
	suffix := make([]byte, 10)
	for i := range suffix {
		suffix[i] = base36Alphabet[rand.Intn(len(base36Alphabet))]
	}
	return base + "_" + string(suffix) + ext
}

// diffNames returns entries of have that are absent from keep, in order
func diffNames(have []string, keep []string) []string {
	kept := make(map[string]bool, len(keep))
	for _, name := range keep {
		kept[name] = true
	}
	var dropped []string
	for _, name := range have {
		if !kept[name] {
			dropped = append(dropped, name)
		}
	}
	return dropped
}
