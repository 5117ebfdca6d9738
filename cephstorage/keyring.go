package cephstorage

import (
	"os"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/proxmox/pve-storage-sub000/cephconf"
	"github.com/proxmox/pve-storage-sub000/shared/logger"
)

const (
	keyringFileMode = os.FileMode(0o400)
	configFileMode  = os.FileMode(0o600)
)

var (
	identityLine = regexp.MustCompile(`^\s*\[[^\]]+\]\s*$`)
	keyLine      = regexp.MustCompile(`^\s*key\s*=\s*(\S+)\s*$`)
)

func extensionFor(storeType string) string {
	if storeType == TypeCephFS {
		return "secret"
	}

	return "keyring"
}

// ValidateKeyfile checks that the file at path has the expected shape
// for storeType: an rbd keyring needs at least one [identity] block
// whose key line ends in "=="; a cephfs secret needs its last
// non-empty line to end in "==".
func ValidateKeyfile(fs FileSystem, path, storeType string) error {
	data, err := fs.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return &KeyringShapeError{Path: path, Type: storeType}
	}

	if storeType == TypeCephFS {
		lines := strings.Split(string(data), "\n")
		for i := len(lines) - 1; i >= 0; i-- {
			line := strings.TrimSpace(lines[i])
			if line == "" {
				continue
			}

			if strings.HasSuffix(line, "==") {
				return nil
			}

			break
		}

		return &KeyringShapeError{Path: path, Type: storeType}
	}

	sawIdentity := false
	for _, line := range strings.Split(string(data), "\n") {
		if identityLine.MatchString(line) {
			sawIdentity = true
			continue
		}

		if !sawIdentity {
			continue
		}

		m := keyLine.FindStringSubmatch(line)
		if m != nil && strings.HasSuffix(m[1], "==") {
			return nil
		}
	}

	return &KeyringShapeError{Path: path, Type: storeType}
}

// CreateKeyfile creates a keyring or secret file at destPath. When
// secret is non-nil it is written directly; otherwise the admin
// keyring is consulted (copied whole for rbd, or its client.admin key
// extracted for cephfs). Every write lands via a uuid-suffixed temp
// file renamed into place, so a reader never observes a half-written
// keyring.
func CreateKeyfile(fs FileSystem, destPath, adminKeyringPath string, storeType string, secret *string) error {
	if fs.PathExists(destPath) && secret == nil {
		return errors.Wrapf(ErrFileExists, "create %s", destPath)
	}

	if err := ensureParentDir(fs, destPath); err != nil {
		return errors.Wrapf(err, "create parent directory for %s", destPath)
	}

	var payload []byte

	switch {
	case secret != nil:
		payload = []byte(*secret + "\n")
	case storeType == TypeCephFS:
		data, err := fs.ReadFile(adminKeyringPath)
		if err != nil {
			logger.Warn("authentication is disabled", logger.Ctx{"reason": err.Error()})
			return ErrMissingAdminKeyring
		}

		cfg, diags := cephconf.Parse(string(data))
		for _, d := range diags {
			logger.Warn("admin keyring parse diagnostic", logger.Ctx{"line": d.Line, "reason": d.Reason})
		}

		key, ok := cfg.Get("client.admin", "key")
		if !ok {
			return &KeyringShapeError{Path: adminKeyringPath, Type: storeType}
		}

		payload = []byte(key + "\n")
	default:
		data, err := fs.ReadFile(adminKeyringPath)
		if err != nil {
			logger.Warn("authentication is disabled", logger.Ctx{"reason": err.Error()})
			return ErrMissingAdminKeyring
		}

		payload = data
	}

	if err := atomicWrite(fs, destPath, payload, keyringFileMode); err != nil {
		_ = fs.Remove(destPath)
		return errors.Wrapf(err, "write %s", destPath)
	}

	return nil
}

// RemoveKeyfile idempotently unlinks path, warning on any I/O error
// other than the file already being absent.
func RemoveKeyfile(fs FileSystem, path string) {
	if err := fs.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed removing keyfile", logger.Ctx{"path": path, "err": err.Error()})
	}
}

// CreateConfiguration writes a minimal per-store ceph.conf (rbd only)
// containing a single [global] section pointing keyring at
// keyringPath. If destPath already exists, it warns and does nothing.
func CreateConfiguration(fs FileSystem, destPath, keyringPath string) error {
	if fs.PathExists(destPath) {
		logger.Warn("store configuration already exists, leaving in place", logger.Ctx{"path": destPath})
		return nil
	}

	cfg := cephconf.NewConfig()
	cfg.Set("global", "keyring", keyringPath)

	if err := atomicWrite(fs, destPath, []byte(cephconf.Write(cfg)), configFileMode); err != nil {
		_ = fs.Remove(destPath)
		return errors.Wrapf(err, "write %s", destPath)
	}

	return nil
}

// RemoveConfiguration idempotently unlinks path, warning on any I/O
// error other than the file already being absent.
func RemoveConfiguration(fs FileSystem, path string) {
	if err := fs.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed removing store configuration", logger.Ctx{"path": path, "err": err.Error()})
	}
}

func atomicWrite(fs FileSystem, destPath string, data []byte, mode os.FileMode) error {
	tmpPath := destPath + "." + uuid.NewString() + ".tmp"

	if err := fs.WriteFile(tmpPath, data, mode); err != nil {
		return err
	}

	if err := fs.Rename(tmpPath, destPath); err != nil {
		_ = fs.Remove(tmpPath)
		return err
	}

	return nil
}
