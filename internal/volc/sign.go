// Package volc builds, signs and sends requests to Volcengine OpenAPI endpoints.
package volc

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	signAlgorithm  = "HMAC-SHA256"
	signTerminator = "request"
	xDateFormat    = "20060102T150405Z"
	shortDate      = "20060102"

	headerDate          = "X-Date"
	headerContentSHA256 = "X-Content-Sha256"
	headerSecurityToken = "X-Security-Token"
)

// Credentials is an immutable Volcengine access key pair.
type Credentials struct {
	AccessKey    string
	SecretKey    string
	SessionToken string
}

// Authorizer attaches authentication to an outbound request. body is the
// exact payload that will be sent.
type Authorizer interface {
	Authorize(req *http.Request, body []byte) error
}

// Signer signs requests with the Volcengine HMAC-SHA256 scheme.
type Signer struct {
	Credentials Credentials
	Service     string
	Region      string

	// Now defaults to time.Now; tests pin it.
	Now func() time.Time
}

// Authorize signs req at the current time.
func (s *Signer) Authorize(req *http.Request, body []byte) error {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return s.Sign(req, body, now())
}

// Sign sets X-Date, X-Content-Sha256, the optional X-Security-Token and the
// Authorization header on req. The signature covers the method, path, query,
// signed headers and body, so identical inputs always produce the same value.
func (s *Signer) Sign(req *http.Request, body []byte, at time.Time) error {
	if s.Credentials.AccessKey == "" || s.Credentials.SecretKey == "" {
		return errors.New("signing requires an access key and secret key")
	}
	if s.Service == "" || s.Region == "" {
		return errors.New("signing requires a service and region")
	}

	at = at.UTC()
	xDate := at.Format(xDateFormat)
	date := at.Format(shortDate)
	payloadHash := hashHex(body)

	req.Header.Set(headerDate, xDate)
	req.Header.Set(headerContentSHA256, payloadHash)
	if s.Credentials.SessionToken != "" {
		req.Header.Set(headerSecurityToken, s.Credentials.SessionToken)
	}

	signedHeaders, canonicalHeaders := canonicalHeaders(req)
	canonical := strings.Join([]string{
		req.Method,
		canonicalPath(req.URL),
		canonicalQuery(req.URL.Query()),
		canonicalHeaders,
		signedHeaders,
		payloadHash,
	}, "\n")

	scope := strings.Join([]string{date, s.Region, s.Service, signTerminator}, "/")
	stringToSign := strings.Join([]string{signAlgorithm, xDate, scope, hashHex([]byte(canonical))}, "\n")

	key := hmacSHA256([]byte(s.Credentials.SecretKey), date)
	key = hmacSHA256(key, s.Region)
	key = hmacSHA256(key, s.Service)
	key = hmacSHA256(key, signTerminator)
	signature := hex.EncodeToString(hmacSHA256(key, stringToSign))

	req.Header.Set("Authorization", fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		signAlgorithm, s.Credentials.AccessKey, scope, signedHeaders, signature))
	return nil
}

// BearerAuth authorizes with a static API key.
type BearerAuth struct {
	Token string
}

// Authorize sets the Authorization header.
func (b BearerAuth) Authorize(req *http.Request, _ []byte) error {
	if b.Token == "" {
		return errors.New("bearer token is empty")
	}
	req.Header.Set("Authorization", "Bearer "+b.Token)
	return nil
}

// canonicalHeaders returns the signed header list and the canonical header block.
func canonicalHeaders(req *http.Request) (string, string) {
	host := req.Host
	if host == "" {
		host = req.URL.Host
	}
	values := map[string]string{
		"host":             host,
		"x-date":           req.Header.Get(headerDate),
		"x-content-sha256": req.Header.Get(headerContentSHA256),
	}
	if ct := req.Header.Get("Content-Type"); ct != "" {
		values["content-type"] = ct
	}
	if tok := req.Header.Get(headerSecurityToken); tok != "" {
		values["x-security-token"] = tok
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(strings.TrimSpace(values[name]))
		b.WriteByte('\n')
	}
	return strings.Join(names, ";"), b.String()
}

func canonicalPath(u *url.URL) string {
	p := u.EscapedPath()
	if p == "" {
		return "/"
	}
	return p
}

// canonicalQuery sorts by key then value and escapes spaces as %20.
func canonicalQuery(q url.Values) string {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		vals := append([]string(nil), q[k]...)
		sort.Strings(vals)
		for _, v := range vals {
			parts = append(parts, escape(k)+"="+escape(v))
		}
	}
	return strings.Join(parts, "&")
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func hashHex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}
