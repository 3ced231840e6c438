package models

import "time"

// Credential is a stored password record. The raw password is never kept;
// DerivedKey is the KDF output for Salt under KDFAlgorithm/KDFIterations.
type Credential struct {
	ID            string
	UserName      string
	Salt          []byte
	DerivedKey    []byte
	KDFAlgorithm  string
	KDFIterations int
	CreatedAt     time.Time
}

// Clone returns a deep copy so callers cannot mutate stored byte slices.
func (c *Credential) Clone() *Credential {
	cp := *c
	cp.Salt = append([]byte(nil), c.Salt...)
	cp.DerivedKey = append([]byte(nil), c.DerivedKey...)
	return &cp
}
