package modcache

import "github.com/bmatcuk/doublestar/v4"

// FilterExtractedFiles keeps only the paths in files matching one of
// keepPatterns (doublestar glob syntax, e.g. "**/*.dll", "linux/**"), so a
// multi-platform mod archive's metadata parse doesn't trip over a sibling
// platform's binaries. A nil or empty keepPatterns keeps everything.
func FilterExtractedFiles(files []string, keepPatterns []string) ([]string, error) {
	if len(keepPatterns) == 0 {
		return files, nil
	}

	var out []string
	for _, f := range files {
		for _, pattern := range keepPatterns {
			matched, err := doublestar.Match(pattern, f)
			if err != nil {
				return nil, err
			}
			if matched {
				out = append(out, f)
				break
			}
		}
	}
	return out, nil
}
