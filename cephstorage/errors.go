package cephstorage

import "errors"

// ErrFileExists indicates creation of an on-disk artifact would
// overwrite an existing file.
var ErrFileExists = errors.New("already exists")

// ErrMissingAdminKeyring indicates creation of a per-store keyring was
// requested but the admin keyring is absent and no explicit secret was
// supplied. CreateKeyfile logs that authentication is disabled and
// returns this error without writing a keyfile.
var ErrMissingAdminKeyring = errors.New("admin keyring not found, authentication is disabled")

// KeyringShapeError reports that a keyring or secret file does not
// match its expected shape.
type KeyringShapeError struct {
	Path string
	Type string
}

func (e *KeyringShapeError) Error() string {
	return "not a proper " + e.Type + " authentication file: " + e.Path
}
