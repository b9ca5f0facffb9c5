package stdlib

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"strings"

	"github.com/danielb987/SuperCalculator/pkg/types"
)

const defaultHashAlgorithm = "SHA256"

// registerHash registers hash and hmac.
func registerHash(r *Registry) {
	r.Register("hash", 1, 2, hashChecksum)
	r.Register("hmac", 2, 3, hashHMAC)
}

// hashChecksum computes hash(data [, algorithm]) as lowercase hex.
func hashChecksum(args []types.Value) (types.Value, error) {
	algorithm := types.NewString(defaultHashAlgorithm)
	if len(args) == 2 {
		algorithm = args[1]
	}
	newHash, ok := hashFactory(algorithm)
	if !ok {
		return types.Null, types.NewIllegalParameterError("hash", 2, algorithm)
	}

	h := newHash()
	h.Write([]byte(types.ToString(args[0])))
	return types.NewString(hex.EncodeToString(h.Sum(nil))), nil
}

// hashHMAC computes hmac(data, key [, algorithm]) as lowercase hex.
func hashHMAC(args []types.Value) (types.Value, error) {
	algorithm := types.NewString(defaultHashAlgorithm)
	if len(args) == 3 {
		algorithm = args[2]
	}
	newHash, ok := hashFactory(algorithm)
	if !ok {
		return types.Null, types.NewIllegalParameterError("hmac", 3, algorithm)
	}

	mac := hmac.New(newHash, []byte(types.ToString(args[1])))
	mac.Write([]byte(types.ToString(args[0])))
	return types.NewString(hex.EncodeToString(mac.Sum(nil))), nil
}

// hashFactory resolves an algorithm name, ignoring case and dashes, so that
// "sha-256" and "SHA256" are the same.
func hashFactory(algorithm types.Value) (func() hash.Hash, bool) {
	if !types.IsString(algorithm) {
		return nil, false
	}
	switch strings.ReplaceAll(strings.ToUpper(algorithm.AsString()), "-", "") {
	case "SHA256":
		return sha256.New, true
	case "SHA384":
		return sha512.New384, true
	case "SHA512":
		return sha512.New, true
	case "MD5":
		return md5.New, true
	case "SHA1":
		return sha1.New, true
	default:
		return nil, false
	}
}
