package scan

import "errors"

// Store failure classes. Each is wrapped around the underlying cause so
// callers can match with errors.Is on either.
var (
	ErrDirectoryCreation = errors.New("creating scan directory")
	ErrWrite             = errors.New("writing scan metadata")
	ErrRead              = errors.New("reading scan metadata")
	ErrEncoding          = errors.New("encoding scan metadata")
	ErrDecoding          = errors.New("decoding scan metadata")
	ErrExport            = errors.New("exporting scan model")
)
