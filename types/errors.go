package types

import "errors"

var (
	// ErrInvalidInput covers wrong file types, oversized uploads and
	// malformed chat requests. Reported to the caller as-is.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoExtractableText means a PDF produced zero chunks. The upload is
	// aborted and no index is published.
	ErrNoExtractableText = errors.New("no extractable text in document")

	// ErrDocumentNotFound means a chat referenced a filename that was
	// never uploaded in this process.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrUpstream wraps embedding or generation service failures,
	// including timeouts. End users get a generic message; the wrapped
	// cause is logged.
	ErrUpstream = errors.New("upstream AI service failure")
)
