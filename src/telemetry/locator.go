package telemetry

import (
	"os"
	"path/filepath"
	"regexp"
)

// fileTimeToken matches the YYYYMMDD-HHMMSS token the driver embeds in
// exported log filenames, e.g. Hardware.20250829-120401.CSV. The token sorts
// lexicographically in chronological order.
var fileTimeToken = regexp.MustCompile(`\d{8}-\d{6}`)

// FindLatestFile returns the newest file in dir matching the glob pattern.
// Files are ordered by the timestamp token in their names; if any match
// lacks the token the whole set falls back to modification-time ordering
// (not mixed per file). Returns ok=false when nothing matches.
func FindLatestFile(dir, pattern string) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		// Only malformed patterns error here; patterns are compile-time constants.
		Errorf("bad file pattern %q: %v", pattern, err)
		return "", false
	}
	if len(matches) == 0 {
		return "", false
	}

	best, ok := latestByNameToken(matches)
	if ok {
		return best, true
	}
	Warnf("no timestamp token in some of %d files matching %q; falling back to modification time", len(matches), pattern)
	return latestByModTime(matches)
}

// latestByNameToken picks the file with the lexicographically maximal
// timestamp token. ok=false when any file lacks the token.
func latestByNameToken(paths []string) (string, bool) {
	best, bestTok := "", ""
	for _, p := range paths {
		tok := fileTimeToken.FindString(filepath.Base(p))
		if tok == "" {
			return "", false
		}
		if tok > bestTok {
			best, bestTok = p, tok
		}
	}
	return best, true
}

func latestByModTime(paths []string) (string, bool) {
	best := ""
	var bestMod int64
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			Warnf("stat %s: %v", p, err)
			continue
		}
		if m := fi.ModTime().UnixNano(); best == "" || m > bestMod {
			best, bestMod = p, m
		}
	}
	return best, best != ""
}
