// Package cephstorage assembles Ceph connection options from a storage
// descriptor plus the on-disk keyring and configuration files it
// manages, applying the managed-vs-external cluster policy.
package cephstorage

// StorageDescriptor is the caller-supplied record identifying which
// Ceph-backed store a connection is being assembled for.
type StorageDescriptor struct {
	// Type selects the keyring/secret extension and validation shape:
	// "rbd" or "cephfs".
	Type string

	// MonHost is a delimited monitor endpoint list. Its absence marks
	// the store as managed (ceph.conf comes from the shared cluster
	// config rather than a per-store file).
	MonHost string

	// Username is the Ceph client identity; defaults to "admin".
	Username string
}

const (
	TypeRBD    = "rbd"
	TypeCephFS = "cephfs"
)

// ConnectionOptions is the short-lived, per-request result of
// ConnectOptions. Extras passed by the caller are merged in verbatim
// and win over every computed value.
type ConnectionOptions struct {
	CephConf      string
	Keyring       string
	AuthSupported string
	UserID        string
	MonHost       string

	Extras map[string]string
}

const (
	AuthSupportedCephx = "cephx"
	AuthSupportedNone  = "none"
)

// AsMap renders the options (computed fields plus extras, with extras
// winning on conflict) as a plain string map, the shape callers pass
// through to whatever command line or API consumes it.
func (o ConnectionOptions) AsMap() map[string]string {
	out := make(map[string]string, 5+len(o.Extras))

	if o.CephConf != "" {
		out["ceph_conf"] = o.CephConf
	}

	if o.Keyring != "" {
		out["keyring"] = o.Keyring
	}

	if o.AuthSupported != "" {
		out["auth_supported"] = o.AuthSupported
	}

	if o.UserID != "" {
		out["userid"] = o.UserID
	}

	if o.MonHost != "" {
		out["mon_host"] = o.MonHost
	}

	for k, v := range o.Extras {
		out[k] = v
	}

	return out
}
