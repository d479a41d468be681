// Package models defines the request and response data structures used
// for communication between clients and the VH7 service.
package models

// ShortenRequest represents a request to shorten a URL.
type ShortenRequest struct {
	// URL is the address to be shortened.
	URL string `json:"url"`
	// BucketID optionally files the link into one of the caller's buckets.
	BucketID *int64 `json:"bucket_id,omitempty"`
}

// PasteRequest represents a request to store a code snippet.
type PasteRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	BucketID *int64 `json:"bucket_id,omitempty"`
}

// UploadRequest carries a file over gRPC. Data is base64 in JSON.
type UploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
	BucketID    *int64 `json:"bucket_id,omitempty"`
}

// InfoRequest looks up a short link.
type InfoRequest struct {
	Link string `json:"link"`
}

// UserLinksRequest lists the links of the authenticated caller.
type UserLinksRequest struct{}

// LinksResponse is a list of short links.
type LinksResponse struct {
	Links []ShortLink `json:"links"`
}

// CleanupRequest starts an expiry cleanup run.
type CleanupRequest struct{}

// CleanupResponse reports how many expired uploads were removed.
type CleanupResponse struct {
	Removed int `json:"removed"`
}

// RegisterRequest creates an account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest exchanges credentials for an access token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries an access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TokenRequest carries an email confirmation token.
type TokenRequest struct {
	Token string `json:"token"`
}

// ForgotPasswordRequest asks for a password reset email.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest sets a new password with a reset token.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// UserUpdateRequest changes the profile. Omitted fields are kept.
type UserUpdateRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// APIKeyResponse returns a freshly generated API key.
type APIKeyResponse struct {
	APIKey string `json:"api_key"`
}

// BucketRequest creates a bucket.
type BucketRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

// ErrorResponse lists what went wrong with a request.
type ErrorResponse struct {
	Errors []string `json:"errors"`
}
