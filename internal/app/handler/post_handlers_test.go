package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/atinyakov/vh7/internal/app/service"
	"github.com/atinyakov/vh7/internal/middleware"
	"github.com/atinyakov/vh7/internal/mocks"
	"github.com/atinyakov/vh7/internal/storage"
)

var testTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestPostHandler(t *testing.T) (*PostHandler, *mocks.MockLinkServiceIface) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockLinkServiceIface(ctrl)

	return NewPost("http://localhost:8080", 1<<20, mockService, zap.NewNop()), mockService
}

func urlLink(link, target string) *storage.ShortLink {
	return &storage.ShortLink{
		ID: 1, Link: link, Kind: storage.KindURL, CreatedAt: testTime, UpdatedAt: testTime,
		URL: &storage.URL{URL: target},
	}
}

func TestShorten(t *testing.T) {
	user := &storage.User{ID: 5}
	bucket := int64(9)

	tests := []struct {
		name         string
		body         string
		user         *storage.User
		mock         func(m *mocks.MockLinkServiceIface)
		expectedCode int
		expectedBody string
	}{
		{
			name: "new link",
			body: `{"url":"https://example.com"}`,
			mock: func(m *mocks.MockLinkServiceIface) {
				m.EXPECT().
					Shorten(gomock.Any(), "https://example.com", service.Owner{}).
					Return(urlLink("abc", "https://example.com/"), true, nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: `{"link":"abc","kind":"url","short_url":"http://localhost:8080/abc",
				"created":"2024-01-02T03:04:05Z","updated":"2024-01-02T03:04:05Z",
				"url":{"url":"https://example.com/"}}`,
		},
		{
			name: "existing link of a user bucket",
			body: `{"url":"https://example.com","bucket_id":9}`,
			user: user,
			mock: func(m *mocks.MockLinkServiceIface) {
				m.EXPECT().
					Shorten(gomock.Any(), "https://example.com", service.Owner{User: user, BucketID: &bucket}).
					Return(urlLink("abc", "https://example.com/"), false, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "invalid url",
			body: `{"url":"ftp://x"}`,
			mock: func(m *mocks.MockLinkServiceIface) {
				m.EXPECT().
					Shorten(gomock.Any(), "ftp://x", gomock.Any()).
					Return(nil, false, &service.Error{Kind: service.ErrInvalidInput, Messages: []string{"URL must use http or https"}})
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"errors":["URL must use http or https"]}`,
		},
		{
			name:         "unknown field",
			body:         `{"link":"https://example.com"}`,
			mock:         func(m *mocks.MockLinkServiceIface) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"errors":["Request body contains unknown field \"link\""]}`,
		},
		{
			name:         "empty body",
			body:         ``,
			mock:         func(m *mocks.MockLinkServiceIface) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"errors":["Request body must not be empty"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mockService := newTestPostHandler(t)
			tt.mock(mockService)

			req := httptest.NewRequest(http.MethodPost, "/shorten", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.user != nil {
				req = middleware.InjectUser(req, tt.user)
			}

			rr := httptest.NewRecorder()
			h.Shorten(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			}
		})
	}
}

func TestShorten_WrongContentType(t *testing.T) {
	h, _ := newTestPostHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/shorten", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")

	rr := httptest.NewRecorder()
	h.Shorten(rr, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
}

func TestPaste(t *testing.T) {
	h, mockService := newTestPostHandler(t)

	mockService.EXPECT().
		Paste(gomock.Any(), "fmt.Println()", "go", service.Owner{}).
		Return(&storage.ShortLink{
			Link: "p1", Kind: storage.KindPaste, Hash: "h", CreatedAt: testTime, UpdatedAt: testTime,
			Paste: &storage.Paste{Language: "go", Code: "fmt.Println()"},
		}, true, nil)

	req := httptest.NewRequest(http.MethodPost, "/paste", strings.NewReader(`{"code":"fmt.Println()","language":"go"}`))
	rr := httptest.NewRecorder()
	h.Paste(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"paste":{"language":"go","code":"fmt.Println()","hash":"h"}`)
}

func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return &body, w.FormDataContentType()
}

func TestUpload(t *testing.T) {
	t.Run("stores the file", func(t *testing.T) {
		h, mockService := newTestPostHandler(t)
		bucket := int64(4)

		mockService.EXPECT().
			Upload(gomock.Any(), service.UploadInput{
				Filename:    "notes.txt",
				ContentType: "application/octet-stream",
				Data:        []byte("hello"),
			}, service.Owner{BucketID: &bucket}).
			Return(&storage.ShortLink{
				Link: "f", Kind: storage.KindUpload, Hash: "h",
				Upload: &storage.Upload{OriginalFilename: "notes.txt", Mimetype: "text/plain", Filename: "stored", Size: 5},
			}, true, nil)

		body, contentType := multipartBody(t, "notes.txt", []byte("hello"), map[string]string{"bucket_id": "4"})
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)

		rr := httptest.NewRecorder()
		h.Upload(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"available":true`)
	})

	t.Run("missing file", func(t *testing.T) {
		h, _ := newTestPostHandler(t)

		body, contentType := multipartBody(t, "", nil, map[string]string{"other": "x"})
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)

		rr := httptest.NewRecorder()
		h.Upload(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"errors":["A file is required"]}`, rr.Body.String())
	})

	t.Run("bad bucket id", func(t *testing.T) {
		h, _ := newTestPostHandler(t)

		body, contentType := multipartBody(t, "a", []byte("a"), map[string]string{"bucket_id": "x"})
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)

		rr := httptest.NewRecorder()
		h.Upload(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("body over the limit", func(t *testing.T) {
		h := NewPost("http://localhost:8080", 10, mocks.NewMockLinkServiceIface(gomock.NewController(t)), zap.NewNop())

		body, contentType := multipartBody(t, "big", bytes.Repeat([]byte("x"), 2<<20), nil)
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)

		rr := httptest.NewRecorder()
		h.Upload(rr, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	})

	t.Run("service rejects the size", func(t *testing.T) {
		h, mockService := newTestPostHandler(t)

		mockService.EXPECT().
			Upload(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, false, &service.Error{Kind: service.ErrTooLarge, Messages: []string{"Uploaded file is too large"}})

		body, contentType := multipartBody(t, "a", []byte("a"), nil)
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)

		rr := httptest.NewRecorder()
		h.Upload(rr, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	})
}
