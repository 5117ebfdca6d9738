package cephstorage

import (
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/proxmox/pve-storage-sub000/cephconf"
	"github.com/proxmox/pve-storage-sub000/shared/logger"
)

// Layout resolves the on-disk roots a connection is assembled from:
// the shared cluster config directory and the private directory. The
// admin keyring and the per-store keyring/config files all live under
// PrivDir.
type Layout struct {
	SharedConfDir string
	PrivDir       string
}

func (l Layout) adminConfPath() string {
	return filepath.Join(l.SharedConfDir, "ceph.conf")
}

func (l Layout) adminKeyringPath() string {
	return filepath.Join(l.PrivDir, "ceph.client.admin.keyring")
}

func (l Layout) keyringPath(storeID, storeType string) string {
	return filepath.Join(l.PrivDir, "ceph", storeID+"."+extensionFor(storeType))
}

func (l Layout) storeConfPath(storeID string) string {
	return filepath.Join(l.PrivDir, "ceph", storeID+".conf")
}

// ConnectOptions assembles a ConnectionOptions record for storeID from
// desc, the on-disk layout, and a set of caller-supplied extras that
// override every computed value.
func ConnectOptions(fs FileSystem, layout Layout, desc StorageDescriptor, storeID string, extras map[string]string) (ConnectionOptions, error) {
	opts := ConnectionOptions{
		UserID: "admin",
		Extras: extras,
	}

	if desc.Username != "" {
		opts.UserID = desc.Username
	}

	managed := desc.MonHost == ""
	storeConfPath := layout.storeConfPath(storeID)

	if managed {
		opts.CephConf = layout.adminConfPath()

		if fs.PathExists(storeConfPath) {
			logger.Warn("ignoring custom ceph config, monhost not set", logger.Ctx{"path": storeConfPath})
		}
	} else {
		if fs.PathExists(storeConfPath) {
			opts.CephConf = storeConfPath
		} else {
			keyringPath := layout.keyringPath(storeID, desc.Type)

			if err := CreateConfiguration(fs, storeConfPath, keyringPath); err != nil {
				return ConnectionOptions{}, errors.Wrapf(err, "create minimal configuration for %q", storeID)
			}

			opts.CephConf = storeConfPath
		}

		opts.MonHost = cephconf.HostList(desc.MonHost, ",")
	}

	keyringPath := layout.keyringPath(storeID, desc.Type)
	if fs.PathExists(keyringPath) {
		if err := ValidateKeyfile(fs, keyringPath, desc.Type); err != nil {
			return ConnectionOptions{}, err
		}

		opts.Keyring = keyringPath
		opts.AuthSupported = AuthSupportedCephx
	} else {
		opts.AuthSupported = AuthSupportedNone
	}

	return opts, nil
}
