package models

import (
	"strings"
	"time"

	"github.com/atinyakov/vh7/internal/storage"
)

// ShortLink is the public view of a short link. Exactly one of URL, Paste
// and Upload is set.
type ShortLink struct {
	Link     string     `json:"link"`
	Kind     string     `json:"kind"`
	ShortURL string     `json:"short_url"`
	Created  time.Time  `json:"created"`
	Updated  time.Time  `json:"updated"`
	Expires  *time.Time `json:"expires,omitempty"`
	URL      *URL       `json:"url,omitempty"`
	Paste    *Paste     `json:"paste,omitempty"`
	Upload   *Upload    `json:"upload,omitempty"`
}

type URL struct {
	URL string `json:"url"`
}

type Paste struct {
	Language string `json:"language"`
	Code     string `json:"code"`
	Hash     string `json:"hash"`
}

type Upload struct {
	OriginalFilename string     `json:"original_filename"`
	Mimetype         string     `json:"mimetype"`
	Hash             string     `json:"hash"`
	Size             int64      `json:"size"`
	Expires          *time.Time `json:"expires,omitempty"`
	// Available is false once the file was removed by the cleanup.
	Available bool `json:"available"`
}

// NewShortLink converts a stored link. baseURL prefixes the short URL.
func NewShortLink(sl *storage.ShortLink, baseURL string) ShortLink {
	out := ShortLink{
		Link:     sl.Link,
		Kind:     string(sl.Kind),
		ShortURL: strings.TrimRight(baseURL, "/") + "/" + sl.Link,
		Created:  sl.CreatedAt,
		Updated:  sl.UpdatedAt,
		Expires:  sl.ExpiresAt,
	}

	switch {
	case sl.URL != nil:
		out.URL = &URL{URL: sl.URL.URL}
	case sl.Paste != nil:
		out.Paste = &Paste{Language: sl.Paste.Language, Code: sl.Paste.Code, Hash: sl.Hash}
	case sl.Upload != nil:
		out.Upload = &Upload{
			OriginalFilename: sl.Upload.OriginalFilename,
			Mimetype:         sl.Upload.Mimetype,
			Hash:             sl.Hash,
			Size:             sl.Upload.Size,
			Expires:          sl.ExpiresAt,
			Available:        !sl.Upload.Tombstoned(),
		}
	}

	return out
}

// NewShortLinks converts a list of stored links. The result is never nil.
func NewShortLinks(links []storage.ShortLink, baseURL string) []ShortLink {
	out := make([]ShortLink, 0, len(links))
	for i := range links {
		out = append(out, NewShortLink(&links[i], baseURL))
	}
	return out
}
