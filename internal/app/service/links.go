package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/atinyakov/vh7/internal/cache"
	"github.com/atinyakov/vh7/internal/retention"
	"github.com/atinyakov/vh7/internal/shortlink"
	"github.com/atinyakov/vh7/internal/storage"
	"github.com/atinyakov/vh7/internal/uploads"
)

// LinkStrategy selects how new short links are named.
type LinkStrategy string

const (
	// StrategyID encodes the database id with the configured alphabet.
	StrategyID LinkStrategy = "id"
	// StrategyWords joins random dictionary words.
	StrategyWords LinkStrategy = "words"
)

const (
	DefaultMaxAttempts = 10
	maxFilenameLength  = 255
	maxPasteLanguage   = 64
)

// FileStore keeps the bytes of uploads.
type FileStore interface {
	Save(name string, data []byte) error
	Open(name string) (afero.File, error)
	Remove(name string) error
	Exists(name string) (bool, error)
}

// LinkOptions configures a LinkService.
type LinkOptions struct {
	Strategy      LinkStrategy
	Alphabet      string
	WordCount     int
	WordSeparator string
	MaxAttempts   int
	Retention     retention.Policy
}

// Owner is who a new short link belongs to. A nil User is anonymous.
type Owner struct {
	User     *storage.User
	BucketID *int64
}

// UploadInput is a file received from a client.
type UploadInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// LinkService creates, resolves and expires short links.
type LinkService struct {
	storage   storage.Storage
	files     FileStore
	cache     cache.LinkCache
	languages *Languages
	logger    *zap.Logger

	strategy    LinkStrategy
	encoder     *shortlink.Encoder
	words       *shortlink.WordGenerator
	maxAttempts int
	policy      retention.Policy

	now         func() time.Time
	newFilename func() string
}

func NewLinkService(opts LinkOptions, store storage.Storage, files FileStore, linkCache cache.LinkCache, languages *Languages, logger *zap.Logger) (*LinkService, error) {
	if err := opts.Retention.Validate(); err != nil {
		return nil, fmt.Errorf("retention policy: %w", err)
	}

	alphabet := opts.Alphabet
	if alphabet == "" {
		alphabet = shortlink.DefaultAlphabet
	}
	encoder, err := shortlink.NewEncoder(alphabet)
	if err != nil {
		return nil, err
	}

	s := &LinkService{
		storage:     store,
		files:       files,
		cache:       linkCache,
		languages:   languages,
		logger:      logger,
		strategy:    opts.Strategy,
		encoder:     encoder,
		maxAttempts: opts.MaxAttempts,
		policy:      opts.Retention,
		now:         func() time.Time { return time.Now().UTC() },
		newFilename: uuid.NewString,
	}

	if s.maxAttempts <= 0 {
		s.maxAttempts = DefaultMaxAttempts
	}
	if s.cache == nil {
		s.cache = cache.Noop{}
	}

	switch s.strategy {
	case "", StrategyID:
		s.strategy = StrategyID
	case StrategyWords:
		separator := opts.WordSeparator
		if separator == "" {
			separator = "."
		}
		s.words = shortlink.NewWordGenerator(opts.WordCount, separator)
	default:
		return nil, fmt.Errorf("unknown link strategy %q", opts.Strategy)
	}

	return s, nil
}

func (s *LinkService) PingContext(ctx context.Context) error {
	return s.storage.PingContext(ctx)
}

// Shorten returns the short link of rawURL, creating it when the owner has
// none yet. created reports whether a new link was stored.
func (s *LinkService) Shorten(ctx context.Context, rawURL string, owner Owner) (*storage.ShortLink, bool, error) {
	normalized, err := normalizeURL(rawURL)
	if err != nil {
		return nil, false, err
	}

	userID, bucketID, err := s.resolveOwner(ctx, owner)
	if err != nil {
		return nil, false, err
	}

	return s.create(ctx, &storage.ShortLink{
		Kind:     storage.KindURL,
		Hash:     hashOf([]byte(normalized)),
		UserID:   userID,
		BucketID: bucketID,
		URL:      &storage.URL{URL: normalized},
	})
}

// Paste stores a code snippet.
func (s *LinkService) Paste(ctx context.Context, code, language string, owner Owner) (*storage.ShortLink, bool, error) {
	code = strings.TrimSpace(code)
	language = strings.ToLower(strings.TrimSpace(language))

	var problems []string
	if code == "" {
		problems = append(problems, "Code must not be empty")
	}
	if !utf8.ValidString(code) {
		problems = append(problems, "Code must be valid UTF-8")
	}
	if len(language) > maxPasteLanguage || !s.languages.Supported(language) {
		problems = append(problems, fmt.Sprintf("Language %q is not supported", language))
	}
	if len(problems) > 0 {
		return nil, false, invalidInput(problems...)
	}

	userID, bucketID, err := s.resolveOwner(ctx, owner)
	if err != nil {
		return nil, false, err
	}

	return s.create(ctx, &storage.ShortLink{
		Kind:     storage.KindPaste,
		Hash:     hashOf([]byte(code)),
		UserID:   userID,
		BucketID: bucketID,
		Paste:    &storage.Paste{Language: language, Code: code},
	})
}

// Upload stores a file. An identical file of the same owner reuses its short
// link, saving the bytes again when the old copy is gone.
func (s *LinkService) Upload(ctx context.Context, in UploadInput, owner Owner) (*storage.ShortLink, bool, error) {
	userID, bucketID, err := s.resolveOwner(ctx, owner)
	if err != nil {
		return nil, false, err
	}

	hash := hashOf(in.Data)
	size := int64(len(in.Data))

	existing, err := s.storage.FindDuplicate(ctx, storage.KindUpload, hash, userID)
	switch {
	case err == nil:
		return s.reuseUpload(ctx, existing, in.Data)
	case !errors.Is(err, storage.ErrNotFound):
		return nil, false, err
	}

	days, err := s.retentionDays(size)
	if err != nil {
		return nil, false, err
	}

	stored := s.newFilename()
	if err := s.files.Save(stored, in.Data); err != nil {
		return nil, false, fmt.Errorf("save upload: %w", err)
	}

	expires := s.policy.Expiry(s.now(), days)
	candidate := &storage.ShortLink{
		Kind:      storage.KindUpload,
		Hash:      hash,
		UserID:    userID,
		BucketID:  bucketID,
		ExpiresAt: &expires,
		Upload: &storage.Upload{
			OriginalFilename: cleanFilename(in.Filename),
			Mimetype:         detectMimetype(in.ContentType, in.Data),
			Filename:         stored,
			Size:             size,
		},
	}

	created, err := s.insert(ctx, candidate)
	if err == nil {
		s.logger.Info("file uploaded",
			zap.String("link", created.Link),
			zap.String("size", humanize.Bytes(uint64(size))),
			zap.Int("retention_days", days),
		)
		return created, true, nil
	}

	s.removeFile(stored)

	if errors.Is(err, storage.ErrConflict) {
		winner, findErr := s.storage.FindDuplicate(ctx, storage.KindUpload, hash, userID)
		if findErr != nil {
			return nil, false, findErr
		}
		return s.reuseUpload(ctx, winner, in.Data)
	}

	return nil, false, err
}

// reuseUpload returns an existing upload, restoring its file when the stored
// copy was removed or has expired.
func (s *LinkService) reuseUpload(ctx context.Context, sl *storage.ShortLink, data []byte) (*storage.ShortLink, bool, error) {
	available, err := s.uploadAvailable(sl)
	if err != nil {
		return nil, false, err
	}
	if available {
		return sl, false, nil
	}

	size := int64(len(data))
	days, err := s.retentionDays(size)
	if err != nil {
		return nil, false, err
	}

	stored := s.newFilename()
	if err := s.files.Save(stored, data); err != nil {
		return nil, false, fmt.Errorf("save upload: %w", err)
	}

	expires := s.policy.Expiry(s.now(), days)
	if err := s.storage.RestoreUpload(ctx, sl.ID, stored, size, expires); err != nil {
		s.removeFile(stored)
		return nil, false, err
	}

	if old := sl.Upload.Filename; old != "" {
		s.removeFile(old)
	}
	s.cache.Delete(ctx, sl.Link)

	restored := sl.Clone()
	restored.Upload.Filename = stored
	restored.Upload.Size = size
	restored.ExpiresAt = &expires

	s.logger.Info("upload restored", zap.String("link", sl.Link), zap.Int("retention_days", days))

	return restored, false, nil
}

func (s *LinkService) uploadAvailable(sl *storage.ShortLink) (bool, error) {
	if sl.Upload == nil || sl.Upload.Tombstoned() || sl.Expired(s.now()) {
		return false, nil
	}

	exists, err := s.files.Exists(sl.Upload.Filename)
	if err != nil {
		return false, fmt.Errorf("check upload: %w", err)
	}
	return exists, nil
}

func (s *LinkService) retentionDays(size int64) (int, error) {
	days := s.policy.Days(retention.MegaBytes(size))
	if days == retention.Rejected {
		limit := uint64(s.policy.MaxSize * 1e6)
		return 0, tooLarge(fmt.Sprintf("Uploaded file is too large (%s, the limit is %s)",
			humanize.Bytes(uint64(size)), humanize.Bytes(limit)))
	}
	return days, nil
}

// Resolve returns the live short link named link.
func (s *LinkService) Resolve(ctx context.Context, link string) (*storage.ShortLink, error) {
	sl, cached := s.cache.Get(ctx, link)
	if !cached {
		var err error
		sl, err = s.lookup(ctx, link)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFound("Short link not found")
		}
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, sl)
	}

	if sl.Expired(s.now()) {
		return nil, notFound("The given short link has expired")
	}

	return sl, nil
}

// lookup finds a link by its id when it is the encoding of one and by the
// stored string otherwise. Links named under another strategy or alphabet
// fall through to the string lookup.
func (s *LinkService) lookup(ctx context.Context, link string) (*storage.ShortLink, error) {
	if s.strategy == StrategyID {
		if n, err := s.encoder.Decode(link); err == nil && n <= math.MaxInt64 {
			sl, err := s.storage.FindByID(ctx, int64(n))
			if err == nil && sl.Link == link {
				return sl, nil
			}
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return nil, err
			}
		}
	}
	return s.storage.FindByLink(ctx, link)
}

// Open returns an upload together with its file. The caller closes the file.
func (s *LinkService) Open(ctx context.Context, link string) (*storage.ShortLink, afero.File, error) {
	sl, err := s.Resolve(ctx, link)
	if err != nil {
		return nil, nil, err
	}

	if sl.Upload == nil {
		return nil, nil, notFound("The given short link is not a file")
	}
	if sl.Upload.Tombstoned() {
		return nil, nil, notFound("The given short link has expired")
	}

	f, err := s.files.Open(sl.Upload.Filename)
	if uploads.IsNotExist(err) {
		s.logger.Warn("stored file is missing", zap.String("link", link), zap.String("filename", sl.Upload.Filename))
		return nil, nil, notFound("The given short link has expired")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open upload: %w", err)
	}

	return sl, f, nil
}

func (s *LinkService) UserLinks(ctx context.Context, userID int64) ([]storage.ShortLink, error) {
	return s.storage.FindByUserID(ctx, userID)
}

func (s *LinkService) Stats(ctx context.Context) (*storage.Stats, error) {
	return s.storage.Stats(ctx)
}

// Cleanup removes the files of expired uploads and tombstones their records.
// A file that is already gone counts as removed. Records restored by a new
// upload after they were listed are skipped.
func (s *LinkService) Cleanup(ctx context.Context) (int, error) {
	expired, err := s.storage.FindExpiredUploads(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("find expired uploads: %w", err)
	}

	var (
		removed int
		freed   uint64
		errs    []error
	)

	for _, sl := range expired {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		if err := s.files.Remove(sl.Upload.Filename); err != nil {
			if !uploads.IsNotExist(err) {
				s.logger.Error("failed to remove expired upload", zap.String("link", sl.Link), zap.Error(err))
				errs = append(errs, err)
				continue
			}
			s.logger.Warn("expired upload was already missing", zap.String("link", sl.Link), zap.String("filename", sl.Upload.Filename))
		}

		err := s.storage.ClearUploadFilename(ctx, sl.ID, sl.Upload.Filename)
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Info("expired upload was restored during cleanup", zap.String("link", sl.Link))
			continue
		}
		if err != nil {
			s.logger.Error("failed to tombstone expired upload", zap.String("link", sl.Link), zap.Error(err))
			errs = append(errs, err)
			continue
		}

		s.cache.Delete(ctx, sl.Link)
		removed++
		freed += uint64(sl.Upload.Size)
	}

	s.logger.Info("cleanup finished",
		zap.Int("expired", len(expired)),
		zap.Int("removed", removed),
		zap.String("freed", humanize.Bytes(freed)),
	)

	return removed, errors.Join(errs...)
}

// create returns the owner's existing link for the content or stores a new
// one. A concurrent insert of the same content returns the winner.
func (s *LinkService) create(ctx context.Context, candidate *storage.ShortLink) (*storage.ShortLink, bool, error) {
	existing, err := s.storage.FindDuplicate(ctx, candidate.Kind, candidate.Hash, candidate.UserID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, false, err
	}

	created, err := s.insert(ctx, candidate)
	if errors.Is(err, storage.ErrConflict) {
		winner, findErr := s.storage.FindDuplicate(ctx, candidate.Kind, candidate.Hash, candidate.UserID)
		if findErr != nil {
			return nil, false, findErr
		}
		return winner, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return created, true, nil
}

// insert names and stores a new short link.
func (s *LinkService) insert(ctx context.Context, candidate *storage.ShortLink) (*storage.ShortLink, error) {
	if s.strategy == StrategyID {
		return s.storage.CreateShortLink(ctx, candidate, func(id int64) string {
			return s.encoder.Encode(uint64(id))
		})
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		link, err := s.words.Generate()
		if err != nil {
			return nil, err
		}

		exists, err := s.storage.LinkExists(ctx, link)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		candidate.Link = link
		created, err := s.storage.CreateShortLink(ctx, candidate, nil)
		if errors.Is(err, storage.ErrLinkTaken) {
			continue
		}
		return created, err
	}

	s.logger.Error("no free short link found", zap.Int("attempts", s.maxAttempts))

	return nil, shortlink.ErrLinkSpaceExhausted
}

// resolveOwner checks that a requested bucket belongs to the owner.
func (s *LinkService) resolveOwner(ctx context.Context, owner Owner) (*int64, *int64, error) {
	var userID *int64
	if owner.User != nil {
		id := owner.User.ID
		userID = &id
	}

	if owner.BucketID == nil {
		return userID, nil, nil
	}
	if userID == nil {
		return nil, nil, invalidInput("Buckets can only be used when logged in")
	}

	bucket, err := s.storage.FindBucket(ctx, *owner.BucketID)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && bucket.UserID != *userID) {
		return nil, nil, invalidInput("Bucket not found")
	}
	if err != nil {
		return nil, nil, err
	}

	return userID, &bucket.ID, nil
}

func (s *LinkService) removeFile(name string) {
	if err := s.files.Remove(name); err != nil && !uploads.IsNotExist(err) {
		s.logger.Warn("failed to remove stored file", zap.String("filename", name), zap.Error(err))
	}
}

func hashOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func cleanFilename(name string) string {
	name = strings.TrimSpace(filepath.Base(strings.ReplaceAll(name, `\`, "/")))
	if name == "" || name == "." || name == "/" {
		return "file"
	}

	if len(name) > maxFilenameLength {
		ext := filepath.Ext(name)
		if len(ext) > 16 {
			ext = ""
		}
		cut := maxFilenameLength - len(ext)
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = name[:cut] + ext
	}

	return name
}

func detectMimetype(contentType string, data []byte) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		return mimetype.Detect(data).String()
	}
	return contentType
}
