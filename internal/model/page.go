package model

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Page represents a fetched collection page.
type Page struct {
	// URL is the full URL the page was requested from.
	URL string `json:"url"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// ContentType is the value of the Content-Type response header.
	ContentType string `json:"content_type"`

	// Body is the response body decoded to UTF-8.
	Body string `json:"-"`

	// Hash is the hex SHA3-256 of the raw response body.
	// History uses it to tell whether the page changed between runs.
	Hash string `json:"hash"`
}

// ComputeHash calculates and sets the SHA3-256 hash of raw.
func (p *Page) ComputeHash(raw []byte) {
	if len(raw) == 0 {
		p.Hash = ""
		return
	}

	sum := sha3.Sum256(raw)
	p.Hash = hex.EncodeToString(sum[:])
}

// Contains reports whether the page body contains marker.
func (p *Page) Contains(marker string) bool {
	return strings.Contains(p.Body, marker)
}
