// Package scan orchestrates multi-credential breach scans: batching,
// inter-batch delays for rate-limit compliance, progress reporting, and
// result classification.
package scan

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/vaultigo/vaultigo/internal/breach"
)

const (
	// BatchSize is how many credentials are checked between delays.
	BatchSize = 5
	// BatchDelay is the pause between batches. The directory service
	// rate-limits aggressively; this constant is a deliberate static
	// policy rather than an adaptive one.
	BatchDelay = 6 * time.Second
)

// State is the coordinator's lifecycle position.
type State int

const (
	// StateIdle means no scan is loaded or running.
	StateIdle State = iota
	// StateLoading means credentials are being fetched and decrypted.
	StateLoading
	// StateScanning means a scan is in progress.
	StateScanning
	// StateComplete means a finished Result is available.
	StateComplete
)

// Credential is one decrypted credential selected for scanning.
type Credential struct {
	ID       string
	Website  string
	Username string
	Password string
}

// CompromisedPassword records a credential whose password appears in a
// known breach corpus.
type CompromisedPassword struct {
	ID           string
	Website      string
	Username     string
	Occurrences  int
	CachedResult bool
}

// CompromisedEmail records a credential whose username is an email
// found in the breach directory.
type CompromisedEmail struct {
	ID           string
	Website      string
	Email        string
	Breaches     []breach.Breach
	CachedResult bool
}

// SafeCredential records a credential with no confirmed breach. Unknown
// is set when a lookup failed: the credential was not confirmed safe,
// only not confirmed breached.
type SafeCredential struct {
	ID       string
	Website  string
	Username string
	Unknown  bool
}

// Result is the ephemeral aggregate of one scan. A credential appears
// either in SafeCredentials or in at least one compromised list, and
// may appear in both compromised lists at once.
type Result struct {
	TotalChecked         int
	CompromisedPasswords []CompromisedPassword
	CompromisedEmails    []CompromisedEmail
	SafeCredentials      []SafeCredential
	CheckedAt            time.Time
}

// Checker is the subset of the breach oracle the coordinator drives.
type Checker interface {
	CheckPassword(ctx context.Context, password string) breach.PasswordResult
	CheckEmail(ctx context.Context, email string) breach.EmailResult
}

// Loader fetches and decrypts the credentials available for scanning.
type Loader func(ctx context.Context) ([]Credential, error)

// Recorder persists the last-scan timestamp, separately from the
// lookup caches, so "last scanned at T" survives across sessions.
type Recorder func(t time.Time) error

// ErrNoSelection is returned when a scan is started with no
// credentials selected.
var ErrNoSelection = errors.New("no credentials selected")

// Coordinator runs breach scans over a set of credentials. It is
// single-flight: one scan at a time, driven by its caller.
type Coordinator struct {
	Checker Checker
	Load    Loader
	Record  Recorder
	// OnProgress, when set, is invoked after every credential with the
	// processed and total counts so UI progress stays smooth.
	OnProgress func(done, total int)

	mu          sync.Mutex
	state       State
	credentials []Credential
	result      *Result

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewCoordinator builds an idle coordinator.
func NewCoordinator(checker Checker, load Loader, record Recorder) *Coordinator {
	return &Coordinator{
		Checker: checker,
		Load:    load,
		Record:  record,
		sleep:   sleepCtx,
		now:     time.Now,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LoadCredentials fetches the scannable credentials and moves the
// coordinator through Loading. The loaded set stays available for
// selection until Reset.
func (c *Coordinator) LoadCredentials(ctx context.Context) ([]Credential, error) {
	c.mu.Lock()
	if c.state == StateScanning {
		c.mu.Unlock()
		return nil, errors.New("scan already in progress")
	}
	c.state = StateLoading
	c.mu.Unlock()

	creds, err := c.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateIdle
		return nil, err
	}
	c.credentials = creds
	return creds, nil
}

// Credentials returns the last loaded credential set.
func (c *Coordinator) Credentials() []Credential {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.credentials
}

// Result returns the completed scan result, or nil before completion.
func (c *Coordinator) Result() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Reset returns a Complete coordinator to Idle ("scan again").
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateScanning {
		return
	}
	c.state = StateIdle
	c.result = nil
}

// Scan checks the selected credentials in fixed-size batches, pausing
// BatchDelay between batches (never after the final batch). Each
// credential is checked against both the password and, when the
// username looks like an email, the email sub-protocol. Cancelling ctx
// abandons the scan and discards partial results.
func (c *Coordinator) Scan(ctx context.Context, selected []Credential) (*Result, error) {
	if len(selected) == 0 {
		return nil, ErrNoSelection
	}

	c.mu.Lock()
	if c.state == StateScanning {
		c.mu.Unlock()
		return nil, errors.New("scan already in progress")
	}
	c.state = StateScanning
	c.result = nil
	c.mu.Unlock()

	result := &Result{}
	total := len(selected)

	for i := 0; i < total; i += BatchSize {
		end := i + BatchSize
		if end > total {
			end = total
		}

		for _, cred := range selected[i:end] {
			if err := ctx.Err(); err != nil {
				return nil, c.abandon(err)
			}
			c.classify(ctx, cred, result)
			result.TotalChecked++
			if c.OnProgress != nil {
				c.OnProgress(result.TotalChecked, total)
			}
		}

		if end < total {
			if err := c.sleep(ctx, BatchDelay); err != nil {
				return nil, c.abandon(err)
			}
		}
	}

	result.CheckedAt = c.now()

	c.mu.Lock()
	c.state = StateComplete
	c.result = result
	c.mu.Unlock()

	if c.Record != nil {
		if err := c.Record(result.CheckedAt); err != nil {
			return result, err
		}
	}
	return result, nil
}

// abandon drops partial state after a cancelled scan.
func (c *Coordinator) abandon(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateIdle
	c.result = nil
	return err
}

// classify runs both checks for one credential and files it into the
// result lists. A failed lookup defaults to not-breached but is marked
// Unknown so the UI can distinguish it from confirmed safe.
func (c *Coordinator) classify(ctx context.Context, cred Credential, result *Result) {
	passwordResult := c.Checker.CheckPassword(ctx, cred.Password)

	var emailResult breach.EmailResult
	if strings.Contains(cred.Username, "@") {
		emailResult = c.Checker.CheckEmail(ctx, cred.Username)
	}

	if passwordResult.Breached {
		result.CompromisedPasswords = append(result.CompromisedPasswords, CompromisedPassword{
			ID:           cred.ID,
			Website:      cred.Website,
			Username:     cred.Username,
			Occurrences:  passwordResult.Count,
			CachedResult: passwordResult.CachedResult,
		})
	}

	if emailResult.Breached {
		result.CompromisedEmails = append(result.CompromisedEmails, CompromisedEmail{
			ID:           cred.ID,
			Website:      cred.Website,
			Email:        cred.Username,
			Breaches:     emailResult.Breaches,
			CachedResult: emailResult.CachedResult,
		})
	}

	if !passwordResult.Breached && !emailResult.Breached {
		result.SafeCredentials = append(result.SafeCredentials, SafeCredential{
			ID:       cred.ID,
			Website:  cred.Website,
			Username: cred.Username,
			Unknown:  passwordResult.Err != nil || emailResult.Err != nil,
		})
	}
}
