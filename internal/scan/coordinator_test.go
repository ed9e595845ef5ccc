package scan

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/vaultigo/vaultigo/internal/breach"
)

// fakeChecker classifies by fixed password/email sets instead of hitting
// the network.
type fakeChecker struct {
	breachedPasswords map[string]int
	breachedEmails    map[string][]breach.Breach
	failPasswords     map[string]bool
	checked           []string
}

func (f *fakeChecker) CheckPassword(_ context.Context, password string) breach.PasswordResult {
	f.checked = append(f.checked, password)
	if f.failPasswords[password] {
		return breach.PasswordResult{Err: errors.New("lookup failed")}
	}
	if count, ok := f.breachedPasswords[password]; ok {
		return breach.PasswordResult{Breached: true, Count: count}
	}
	return breach.PasswordResult{}
}

func (f *fakeChecker) CheckEmail(_ context.Context, email string) breach.EmailResult {
	if breaches, ok := f.breachedEmails[email]; ok {
		return breach.EmailResult{Breached: true, Breaches: breaches}
	}
	return breach.EmailResult{}
}

func makeCredentials(n int) []Credential {
	creds := make([]Credential, n)
	for i := range creds {
		creds[i] = Credential{
			ID:       fmt.Sprintf("id-%d", i),
			Website:  fmt.Sprintf("site-%d.com", i),
			Username: fmt.Sprintf("user%d", i),
			Password: fmt.Sprintf("password-%d", i),
		}
	}
	return creds
}

func TestScan_BatchDelays(t *testing.T) {
	tests := []struct {
		credentials int
		delays      int
	}{
		{1, 0},
		{5, 0},
		{6, 1},
		{7, 1},
		{10, 1},
		{11, 2},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d credentials", tt.credentials), func(t *testing.T) {
			c := NewCoordinator(&fakeChecker{}, nil, nil)

			var slept []time.Duration
			c.sleep = func(_ context.Context, d time.Duration) error {
				slept = append(slept, d)
				return nil
			}

			result, err := c.Scan(context.Background(), makeCredentials(tt.credentials))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(slept) != tt.delays {
				t.Errorf("delays = %d; want %d", len(slept), tt.delays)
			}
			for _, d := range slept {
				if d != BatchDelay {
					t.Errorf("delay = %v; want %v", d, BatchDelay)
				}
			}
			if result.TotalChecked != tt.credentials {
				t.Errorf("TotalChecked = %d; want %d", result.TotalChecked, tt.credentials)
			}
		})
	}
}

func TestScan_Classification(t *testing.T) {
	checker := &fakeChecker{
		breachedPasswords: map[string]int{"hunter2": 17},
		breachedEmails: map[string][]breach.Breach{
			"leaked@b.com": {{Name: "Adobe"}},
		},
	}
	c := NewCoordinator(checker, nil, nil)
	c.sleep = func(context.Context, time.Duration) error { return nil }

	creds := []Credential{
		{ID: "1", Website: "a.com", Username: "safe@b.com", Password: "fine"},
		{ID: "2", Website: "b.com", Username: "bob", Password: "hunter2"},
		{ID: "3", Website: "c.com", Username: "leaked@b.com", Password: "ok"},
		{ID: "4", Website: "d.com", Username: "leaked@b.com", Password: "hunter2"},
	}

	result, err := c.Scan(context.Background(), creds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.CompromisedPasswords) != 2 {
		t.Errorf("compromised passwords = %d; want 2", len(result.CompromisedPasswords))
	}
	if len(result.CompromisedEmails) != 2 {
		t.Errorf("compromised emails = %d; want 2", len(result.CompromisedEmails))
	}
	if len(result.SafeCredentials) != 1 || result.SafeCredentials[0].ID != "1" {
		t.Errorf("safe = %+v; want only credential 1", result.SafeCredentials)
	}
	if result.CompromisedPasswords[0].Occurrences != 17 {
		t.Errorf("occurrences = %d; want 17", result.CompromisedPasswords[0].Occurrences)
	}

	// Credential 4 is in both compromised lists; every credential appears
	// in safe or at least one compromised list.
	seen := make(map[string]bool)
	for _, p := range result.CompromisedPasswords {
		seen[p.ID] = true
	}
	for _, e := range result.CompromisedEmails {
		seen[e.ID] = true
	}
	for _, s := range result.SafeCredentials {
		if seen[s.ID] {
			t.Errorf("credential %s is both safe and compromised", s.ID)
		}
		seen[s.ID] = true
	}
	if len(seen) != len(creds) {
		t.Errorf("classified %d distinct credentials; want %d", len(seen), len(creds))
	}
}

func TestScan_FailedLookupIsUnknown(t *testing.T) {
	checker := &fakeChecker{failPasswords: map[string]bool{"flaky": true}}
	c := NewCoordinator(checker, nil, nil)
	c.sleep = func(context.Context, time.Duration) error { return nil }

	result, err := c.Scan(context.Background(), []Credential{
		{ID: "1", Username: "bob", Password: "flaky"},
		{ID: "2", Username: "alice", Password: "fine"},
	})
	if err != nil {
		t.Fatalf("a failed lookup must not abort the scan: %v", err)
	}
	if result.TotalChecked != 2 {
		t.Errorf("TotalChecked = %d; want 2", result.TotalChecked)
	}
	if len(result.SafeCredentials) != 2 {
		t.Fatalf("safe = %d; want 2", len(result.SafeCredentials))
	}
	if !result.SafeCredentials[0].Unknown {
		t.Errorf("credential with failed lookup should be marked unknown")
	}
	if result.SafeCredentials[1].Unknown {
		t.Errorf("credential with clean lookup should not be marked unknown")
	}
}

func TestScan_Progress(t *testing.T) {
	c := NewCoordinator(&fakeChecker{}, nil, nil)
	c.sleep = func(context.Context, time.Duration) error { return nil }

	var calls [][2]int
	c.OnProgress = func(done, total int) {
		calls = append(calls, [2]int{done, total})
	}

	if _, err := c.Scan(context.Background(), makeCredentials(7)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(calls) != 7 {
		t.Fatalf("progress calls = %d; want 7", len(calls))
	}
	for i, call := range calls {
		if call[0] != i+1 || call[1] != 7 {
			t.Errorf("call %d = %v; want [%d 7]", i, call, i+1)
		}
	}
}

func TestScan_EmptySelection(t *testing.T) {
	c := NewCoordinator(&fakeChecker{}, nil, nil)
	if _, err := c.Scan(context.Background(), nil); !errors.Is(err, ErrNoSelection) {
		t.Errorf("err = %v; want ErrNoSelection", err)
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v; want idle", c.State())
	}
}

func TestScan_CancellationDiscardsPartialResults(t *testing.T) {
	c := NewCoordinator(&fakeChecker{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	c.sleep = func(context.Context, time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := c.Scan(ctx, makeCredentials(7))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v; want context.Canceled", err)
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v; an abandoned scan returns to idle", c.State())
	}
	if c.Result() != nil {
		t.Errorf("partial results must be discarded on cancellation")
	}
}

func TestScan_Lifecycle(t *testing.T) {
	loaded := makeCredentials(3)
	load := func(context.Context) ([]Credential, error) { return loaded, nil }

	var recorded time.Time
	record := func(at time.Time) error {
		recorded = at
		return nil
	}

	c := NewCoordinator(&fakeChecker{}, load, record)
	c.sleep = func(context.Context, time.Duration) error { return nil }
	checkedAt := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return checkedAt }

	if c.State() != StateIdle {
		t.Fatalf("initial state = %v; want idle", c.State())
	}

	creds, err := c.LoadCredentials(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(creds) != 3 || c.State() != StateLoading {
		t.Errorf("after load: %d credentials, state %v", len(creds), c.State())
	}

	result, err := c.Scan(context.Background(), creds)
	if err != nil {
		t.Fatal(err)
	}
	if c.State() != StateComplete {
		t.Errorf("state = %v; want complete", c.State())
	}
	if !result.CheckedAt.Equal(checkedAt) {
		t.Errorf("CheckedAt = %v; want %v", result.CheckedAt, checkedAt)
	}
	if !recorded.Equal(checkedAt) {
		t.Errorf("recorded last-scan = %v; want %v", recorded, checkedAt)
	}
	if c.Result() != result {
		t.Errorf("Result() should return the completed scan")
	}

	c.Reset()
	if c.State() != StateIdle || c.Result() != nil {
		t.Errorf("reset should return to idle with no result")
	}
}

func TestScan_LoadError(t *testing.T) {
	load := func(context.Context) ([]Credential, error) {
		return nil, errors.New("decrypt failed")
	}
	c := NewCoordinator(&fakeChecker{}, load, nil)

	if _, err := c.LoadCredentials(context.Background()); err == nil {
		t.Fatalf("expected load error")
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v; failed load returns to idle", c.State())
	}
}
