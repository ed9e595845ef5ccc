package client

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	identityFile = "identity"
	lastScanFile = "last_breach_scan"
	cacheFile    = "breach_cache.json"
)

// DeviceState persists the client's non-secret local state: the
// anonymous identity, the breach-lookup cache file, and the last-scan
// timestamp. The session key is never written here or anywhere else.
type DeviceState struct {
	dir string
}

// NewDeviceState roots the state in dir, creating it if needed.
func NewDeviceState(dir string) (*DeviceState, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &DeviceState{dir: dir}, nil
}

// AnonymousID loads the device's anonymous identity, creating and
// persisting a fresh one on first use.
func (d *DeviceState) AnonymousID() (string, error) {
	path := filepath.Join(d.dir, identityFile)
	data, err := os.ReadFile(path)
	if err == nil {
		id := strings.TrimSpace(string(data))
		if uuid.Validate(id) == nil {
			return id, nil
		}
	} else if !os.IsNotExist(err) {
		return "", err
	}

	id := uuid.NewString()
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", err
	}
	return id, nil
}

// CachePath is where the breach caches live, namespaced apart from the
// identity and scan timestamp.
func (d *DeviceState) CachePath() string {
	return filepath.Join(d.dir, cacheFile)
}

// LastScan returns the persisted last-breach-scan time, if any.
func (d *DeviceState) LastScan() (time.Time, bool) {
	data, err := os.ReadFile(filepath.Join(d.dir, lastScanFile))
	if err != nil {
		return time.Time{}, false
	}
	millis, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(millis), true
}

// RecordScan persists the last-breach-scan time.
func (d *DeviceState) RecordScan(t time.Time) error {
	data := strconv.FormatInt(t.UnixMilli(), 10) + "\n"
	return os.WriteFile(filepath.Join(d.dir, lastScanFile), []byte(data), 0o600)
}
