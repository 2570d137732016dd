package core

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"hash"
	"io"
	"strings"
)

// GetHashImpl gets an implementation of hash.Hash for the given hash type string
func GetHashImpl(hashType string) (hash.Hash, error) {
	switch strings.ToLower(hashType) {
	case "sha1":
		return sha1.New(), nil
	case "sha256":
		return sha256.New(), nil
	case "sha512":
		return sha512.New(), nil
	case "md5":
		return md5.New(), nil
	}
	return nil, errors.New("hash implementation not found")
}

// Hashes holds the digests recorded for every pinned artifact file
type Hashes struct {
	SHA1   string
	SHA512 string
}

// HashReader copies src into dst while computing its SHA-1 and SHA-512 digests, in lowercase hex
func HashReader(dst io.Writer, src io.Reader) (Hashes, int64, error) {
	sha1Hasher := sha1.New()
	sha512Hasher := sha512.New()
	n, err := io.Copy(io.MultiWriter(dst, sha1Hasher, sha512Hasher), src)
	if err != nil {
		return Hashes{}, n, err
	}
	return Hashes{
		SHA1:   hex.EncodeToString(sha1Hasher.Sum(nil)),
		SHA512: hex.EncodeToString(sha512Hasher.Sum(nil)),
	}, n, nil
}
