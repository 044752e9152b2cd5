package kernel

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// SemverLatest returns the greatest identifier in ids under semantic version
// ordering, ignoring identifiers that do not parse. Kernel selection never
// uses it; it only exists to point out where lexical order disagrees.
func SemverLatest(ids []string) (string, bool) {
	var (
		best    string
		bestVer *semver.Version
	)
	for _, id := range ids {
		v, err := semver.NewVersion(strings.TrimPrefix(id, "v"))
		if err != nil {
			continue
		}
		if bestVer == nil || v.GreaterThan(bestVer) {
			best, bestVer = id, v
		}
	}
	return best, bestVer != nil
}

// OrderingMismatch reports the semantically newest identifier when it
// differs from the lexical pick.
func OrderingMismatch(lexical string, ids []string) (string, bool) {
	semverPick, ok := SemverLatest(ids)
	if !ok || semverPick == lexical {
		return "", false
	}
	return semverPick, true
}
