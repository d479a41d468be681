package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

type dedupKey struct {
	kind  Kind
	hash  string
	owner int64
}

// MemoryStorage keeps everything in process memory. It enforces the same
// uniqueness rules as the SQL schema.
type MemoryStorage struct {
	mu sync.RWMutex

	links  map[int64]*ShortLink
	byLink map[string]int64
	byHash map[dedupKey]int64
	nextID int64

	users      map[int64]*User
	nextUserID int64

	buckets      map[int64]*Bucket
	nextBucketID int64

	now func() time.Time
}

func CreateMemoryStorage() (*MemoryStorage, error) {
	return &MemoryStorage{
		links:   make(map[int64]*ShortLink),
		byLink:  make(map[string]int64),
		byHash:  make(map[dedupKey]int64),
		users:   make(map[int64]*User),
		buckets: make(map[int64]*Bucket),
		now:     time.Now,
	}, nil
}

func (m *MemoryStorage) CreateShortLink(_ context.Context, sl *ShortLink, assign LinkAssigner) (*ShortLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := dedupKey{kind: sl.Kind, hash: sl.Hash, owner: sl.OwnerKey()}
	if _, exists := m.byHash[key]; exists {
		return nil, ErrConflict
	}

	m.nextID++
	id := m.nextID
	record := sl.Clone()
	record.ID = id
	if assign != nil {
		record.Link = assign(id)
	}
	if _, exists := m.byLink[record.Link]; exists {
		return nil, ErrLinkTaken
	}

	now := m.now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	m.links[id] = record
	m.byLink[record.Link] = id
	m.byHash[key] = id

	return record.Clone(), nil
}

func (m *MemoryStorage) FindDuplicate(_ context.Context, kind Kind, hash string, userID *int64) (*ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, exists := m.byHash[dedupKey{kind: kind, hash: hash, owner: ownerKey(userID)}]
	if !exists {
		return nil, ErrNotFound
	}
	return m.links[id].Clone(), nil
}

func (m *MemoryStorage) FindByID(_ context.Context, id int64) (*ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if sl, exists := m.links[id]; exists {
		return sl.Clone(), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryStorage) FindByLink(_ context.Context, link string) (*ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if id, exists := m.byLink[link]; exists {
		return m.links[id].Clone(), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryStorage) LinkExists(_ context.Context, link string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.byLink[link]
	return exists, nil
}

func (m *MemoryStorage) FindByUserID(_ context.Context, userID int64) ([]ShortLink, error) {
	return m.filter(func(sl *ShortLink) bool {
		return sl.UserID != nil && *sl.UserID == userID
	}), nil
}

func (m *MemoryStorage) FindByBucket(_ context.Context, bucketID int64) ([]ShortLink, error) {
	return m.filter(func(sl *ShortLink) bool {
		return sl.BucketID != nil && *sl.BucketID == bucketID
	}), nil
}

// filter returns matching links, newest first.
func (m *MemoryStorage) filter(match func(*ShortLink) bool) []ShortLink {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []ShortLink
	for _, sl := range m.links {
		if match(sl) {
			result = append(result, *sl.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result
}

func (m *MemoryStorage) RestoreUpload(_ context.Context, id int64, filename string, size int64, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sl, exists := m.links[id]
	if !exists || sl.Upload == nil {
		return ErrNotFound
	}

	expires := expiresAt.UTC()
	sl.Upload.Filename = filename
	sl.Upload.Size = size
	sl.ExpiresAt = &expires
	sl.UpdatedAt = m.now().UTC()

	return nil
}

func (m *MemoryStorage) FindExpiredUploads(_ context.Context, now time.Time) ([]ShortLink, error) {
	expired := m.filter(func(sl *ShortLink) bool {
		return sl.Upload != nil && !sl.Upload.Tombstoned() && sl.Expired(now)
	})

	sort.Slice(expired, func(i, j int) bool { return expired[i].ID < expired[j].ID })

	return expired, nil
}

func (m *MemoryStorage) ClearUploadFilename(_ context.Context, id int64, filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sl, exists := m.links[id]
	if !exists || sl.Upload == nil || sl.Upload.Tombstoned() || sl.Upload.Filename != filename {
		return ErrNotFound
	}

	sl.Upload.Filename = ""
	sl.UpdatedAt = m.now().UTC()

	return nil
}

func (m *MemoryStorage) Stats(_ context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stats Stats
	for _, sl := range m.links {
		switch sl.Kind {
		case KindURL:
			stats.ShortenedLinks++
		case KindPaste:
			stats.PastedCode++
		case KindUpload:
			stats.UploadedFiles++
		}
	}
	stats.Total = len(m.links)

	return &stats, nil
}

func (m *MemoryStorage) CreateUser(_ context.Context, u *User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == u.Email {
			return nil, ErrEmailTaken
		}
	}

	user := *u
	user.ID = m.nextUserID + 1
	now := m.now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	m.nextUserID = user.ID
	m.users[user.ID] = &user

	result := user
	return &result, nil
}

func (m *MemoryStorage) FindUserByID(_ context.Context, id int64) (*User, error) {
	return m.findUser(func(u *User) bool { return u.ID == id })
}

func (m *MemoryStorage) FindUserByEmail(_ context.Context, email string) (*User, error) {
	return m.findUser(func(u *User) bool { return u.Email == email })
}

func (m *MemoryStorage) FindUserByAPIKey(_ context.Context, key string) (*User, error) {
	if key == "" {
		return nil, ErrNotFound
	}
	return m.findUser(func(u *User) bool { return u.APIKey == key })
}

func (m *MemoryStorage) findUser(match func(*User) bool) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if match(u) {
			result := *u
			return &result, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStorage) UpdateUser(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.users[u.ID]
	if !exists {
		return ErrNotFound
	}

	for _, other := range m.users {
		if other.ID != u.ID && other.Email == u.Email {
			return ErrEmailTaken
		}
	}

	updated := *u
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = m.now().UTC()
	m.users[u.ID] = &updated

	return nil
}

func (m *MemoryStorage) CreateBucket(_ context.Context, b *Bucket) (*Bucket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket := *b
	bucket.ID = m.nextBucketID + 1
	bucket.CreatedAt = m.now().UTC()

	m.nextBucketID = bucket.ID
	m.buckets[bucket.ID] = &bucket

	result := bucket
	return &result, nil
}

func (m *MemoryStorage) FindBucket(_ context.Context, id int64) (*Bucket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if b, exists := m.buckets[id]; exists {
		result := *b
		return &result, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryStorage) FindBucketsByUser(_ context.Context, userID int64) ([]Bucket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []Bucket
	for _, b := range m.buckets {
		if b.UserID == userID {
			result = append(result, *b)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (m *MemoryStorage) PingContext(_ context.Context) error {
	return nil
}
