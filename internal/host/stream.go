// Package host implements the file/descriptor framing the checker core
// itself never interprets (spec.md §6.1). The core receives concrete byte
// slices; this package is what produces them from paths, and strips the
// optional 3-byte version prefix some producers wrap each stream with
// before the core ever sees a Version instruction.
package host

import (
	"fmt"
	"os"
)

// VersionPrefixLen is the size of the optional leading version tag some
// encodings wrap each stream with.
const VersionPrefixLen = 3

// LoadStream reads the named file in full. If stripPrefix is true, the
// leading VersionPrefixLen bytes are removed before the bytes are handed
// to the core — the host's job, per spec.md §6.1, not the core's.
func LoadStream(path string, stripPrefix bool) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("host: reading %s: %w", path, err)
	}
	if stripPrefix {
		if len(data) < VersionPrefixLen {
			return nil, fmt.Errorf("host: %s is shorter than the %d-byte version prefix", path, VersionPrefixLen)
		}
		data = data[VersionPrefixLen:]
	}
	return data, nil
}

// Streams bundles the three byte vectors Verify consumes.
type Streams struct {
	Gamma []byte
	Claim []byte
	Proof []byte
}

// LoadStreams reads the theory, claims, and proof script from the given
// paths, applying the same prefix-stripping policy to all three (a single
// producer is consistent about whether it emits the version prefix at
// all — spec.md §6.1).
func LoadStreams(gammaPath, claimPath, proofPath string, stripPrefix bool) (Streams, error) {
	gamma, err := LoadStream(gammaPath, stripPrefix)
	if err != nil {
		return Streams{}, err
	}
	claim, err := LoadStream(claimPath, stripPrefix)
	if err != nil {
		return Streams{}, err
	}
	proof, err := LoadStream(proofPath, stripPrefix)
	if err != nil {
		return Streams{}, err
	}
	return Streams{Gamma: gamma, Claim: claim, Proof: proof}, nil
}
