// Package cidutil derives stable content identifiers for files handled by
// the API. Identifiers are IPFS-compatible CIDv1 strings (raw codec,
// sha2-256 multihash) so the same bytes always map to the same identifier
// regardless of host or process.
package cidutil

import (
	"os"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Sum returns a CIDv1 string using the "raw" multicodec and a sha2-256
// multihash of data.
func Sum(data []byte) string {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		// multihash.Sum only errors for invalid inputs; with SHA2_256 and -1
		// length this is unreachable.
		return ""
	}
	return cid.NewCidV1(cid.Raw, sum).String()
}

// PathID identifies a file by its absolute path rather than its contents.
// The same file name under two project trees must not collide, so the
// identifier hashes the full path string.
func PathID(abspath string) string {
	return Sum([]byte(abspath))
}

// FileSum returns the content identifier of the file at path.
func FileSum(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Sum(data), nil
}
