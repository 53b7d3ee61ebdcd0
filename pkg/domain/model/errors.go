package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations
var (
	ErrSessionNotFound  = goerr.New("session not found")
	ErrNotAuthenticated = goerr.New("not authenticated")
	ErrAuthUnreachable  = goerr.New("auth endpoint unreachable")
	ErrIdentityRequired = goerr.New("identity is required")
	ErrNoSiteSelected   = goerr.New("no site selected")
	ErrStaleResponse    = goerr.New("response discarded for stale selection")
	ErrStreamRejected   = goerr.New("stream connection rejected")
)

// Tags for backend call failures
var (
	ErrTagTransport = goerr.NewTag("transport")
	ErrTagStatus    = goerr.NewTag("http_status")
	ErrTagDecode    = goerr.NewTag("decode")
)
