// Package breach checks credentials against known-breach corpora. The
// password check uses the k-anonymity range protocol: only the first
// five hex characters of SHA-1(password) ever leave the device. The
// email check goes through a same-origin proxy so the directory
// service's API key never reaches the client.
package breach

import (
	"bufio"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultRangeURL is the pwned-passwords range endpoint.
	DefaultRangeURL = "https://api.pwnedpasswords.com/range/"
	userAgent       = "vaultigo/0.1"
	// hashPrefixLen is the number of hex characters disclosed to the
	// range endpoint.
	hashPrefixLen = 5
)

// Breach describes one known breach an email appeared in.
type Breach struct {
	Name        string   `json:"name"`
	Domain      string   `json:"domain"`
	BreachDate  string   `json:"breachDate"`
	DataClasses []string `json:"dataClasses"`
}

// PasswordResult is the outcome of one password lookup. When Err is
// set the lookup could not be completed and Breached defaults to false:
// the caller must check Err to tell "confirmed safe" from "unknown".
type PasswordResult struct {
	Breached     bool
	Count        int
	CachedResult bool
	Err          error
}

// EmailResult is the outcome of one email lookup. Same error contract
// as PasswordResult.
type EmailResult struct {
	Breached     bool
	Breaches     []Breach
	CachedResult bool
	Err          error
}

// hibpBreach is the upstream directory's wire shape, passed through the
// proxy untouched.
type hibpBreach struct {
	Name        string   `json:"Name"`
	Domain      string   `json:"Domain"`
	BreachDate  string   `json:"BreachDate"`
	DataClasses []string `json:"DataClasses"`
}

// Oracle performs breach lookups with a local time-expiring cache in
// front of each sub-protocol. Range queries go out on a bare client:
// the identity header must never reach the third-party endpoint.
type Oracle struct {
	rangeClient *http.Client
	emailClient *http.Client
	rangeURL    string
	emailURL    string
	cache       *Cache
}

// NewOracle builds an oracle. client carries any identity headers the
// email proxy requires; rangeURL defaults to DefaultRangeURL when
// empty; emailURL is the proxy's email lookup endpoint.
func NewOracle(client *http.Client, rangeURL, emailURL string, cache *Cache) *Oracle {
	if rangeURL == "" {
		rangeURL = DefaultRangeURL
	}
	return &Oracle{
		rangeClient: &http.Client{Timeout: 15 * time.Second},
		emailClient: client,
		rangeURL:    rangeURL,
		emailURL:    emailURL,
		cache:       cache,
	}
}

// CheckPassword looks the password up via k-anonymity. The full
// password and full hash never leave the device. Transport or service
// failures produce a non-breached result with Err set so a batch scan
// can continue; such results are never cached.
func (o *Oracle) CheckPassword(ctx context.Context, password string) PasswordResult {
	if password == "" {
		return PasswordResult{}
	}

	sum := sha1.Sum([]byte(password))
	hashHex := strings.ToUpper(hex.EncodeToString(sum[:]))

	if e, ok := o.cache.GetPassword(hashHex); ok {
		return PasswordResult{Breached: e.Breached, Count: e.Count, CachedResult: true}
	}

	prefix := hashHex[:hashPrefixLen]
	suffix := hashHex[hashPrefixLen:]

	count, err := o.queryRange(ctx, prefix, suffix)
	if err != nil {
		return PasswordResult{Err: err}
	}

	// A cache-persist failure loses only the memo; the lookup itself
	// succeeded and the result stays authoritative.
	_ = o.cache.PutPassword(hashHex, count > 0, count)
	return PasswordResult{Breached: count > 0, Count: count}
}

// queryRange fetches the candidate-suffix list for prefix and scans it
// for an exact suffix match, returning the breach occurrence count.
func (o *Oracle) queryRange(ctx context.Context, prefix, suffix string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.rangeURL+prefix, nil)
	if err != nil {
		return 0, fmt.Errorf("range request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := o.rangeClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("range query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("range query: unexpected status %s", resp.Status)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		idx := strings.IndexByte(line, ':')
		if idx == -1 {
			continue
		}
		if !strings.EqualFold(line[:idx], suffix) {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(line[idx+1:]))
		if err != nil {
			return 0, fmt.Errorf("range parse count: %w", err)
		}
		return count, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("range read response: %w", err)
	}
	return 0, nil
}

// CheckEmail looks the email up in the breach directory through the
// proxy. A "not found" answer is a valid, cacheable zero-breach result;
// transport and service errors are returned uncached with Err set.
func (o *Oracle) CheckEmail(ctx context.Context, email string) EmailResult {
	if !strings.Contains(email, "@") {
		return EmailResult{}
	}

	if e, ok := o.cache.GetEmail(email); ok {
		return EmailResult{Breached: e.Breached, Breaches: e.Breaches, CachedResult: true}
	}

	breaches, err := o.queryEmail(ctx, email)
	if err != nil {
		return EmailResult{Err: err}
	}

	// Same policy as the password path: losing the memo never turns a
	// confirmed answer into an unknown one.
	_ = o.cache.PutEmail(email, breaches)
	return EmailResult{Breached: len(breaches) > 0, Breaches: breaches}
}

func (o *Oracle) queryEmail(ctx context.Context, email string) ([]Breach, error) {
	u := o.emailURL + "?email=" + url.QueryEscape(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("email request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := o.emailClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("email query: %w", err)
	}
	defer resp.Body.Close()

	// Not found means the email appears in no known breach.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("email query: unexpected status %s", resp.Status)
	}

	var raw []hibpBreach
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("email decode response: %w", err)
	}
	breaches := make([]Breach, 0, len(raw))
	for _, b := range raw {
		breaches = append(breaches, Breach{
			Name:        b.Name,
			Domain:      b.Domain,
			BreachDate:  b.BreachDate,
			DataClasses: b.DataClasses,
		})
	}
	return breaches, nil
}
