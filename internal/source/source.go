package source

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/pairdeck/pairdeck/internal/deck"
	"github.com/pairdeck/pairdeck/internal/fingerprint"
	"github.com/pairdeck/pairdeck/internal/gitsource"
	"github.com/pairdeck/pairdeck/internal/parser"
)

// Stats summarizes one reconciliation run.
type Stats struct {
	Parsed int
	Added  int
	Errors int
}

// IsGit reports whether the source location looks like a git repository
// rather than a local path.
func IsGit(location string) bool {
	return strings.HasSuffix(location, ".git") ||
		strings.HasPrefix(location, "git@") ||
		strings.HasPrefix(location, "https://") ||
		strings.HasPrefix(location, "http://")
}

// Reconcile walks every configured source, parses the pair files it
// finds, and adds entries not already present in the deck. Git sources
// are cloned or pulled into cacheDir first. Pairs already in the deck
// are matched by content fingerprint, so re-running a sync never
// duplicates them.
func Reconcile(d *deck.Deck, sources []string, cacheDir string) Stats {
	var total Stats

	known := make(map[string]bool)
	for _, p := range d.Snapshot().Pairs {
		known[fingerprint.Sum(parser.Entry{Key: p.Key, Value: p.Value})] = true
	}

	for _, src := range sources {
		slog.Info("Syncing source", "location", src)

		dir := src
		if IsGit(src) {
			localPath, err := gitURLToLocalPath(cacheDir, src)
			if err != nil {
				slog.Error("Error determining local path for git repo", "url", src, "error", err)
				total.Errors++
				continue
			}
			if err := gitsource.Sync(src, localPath); err != nil {
				slog.Error("Error syncing git repo", "url", src, "error", err)
				total.Errors++
				continue
			}
			dir = localPath
		}

		stats := reconcileDir(d, dir, known)
		total.Parsed += stats.Parsed
		total.Added += stats.Added
		total.Errors += stats.Errors
	}

	slog.Info("Sync process complete", "parsed", total.Parsed, "added", total.Added, "errors", total.Errors)
	return total
}

// reconcileDir walks one directory and feeds new entries into the deck.
func reconcileDir(d *deck.Deck, dir string, known map[string]bool) Stats {
	var stats Stats

	walkErr := filepath.WalkDir(dir, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() || !isPairFile(de.Name()) {
			return nil
		}
		entries, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			slog.Warn("Failed to parse pair file", "path", path, "error", parseErr)
			stats.Errors++
			return nil
		}
		for _, e := range entries {
			stats.Parsed++
			fp := fingerprint.Sum(e)
			if known[fp] {
				continue
			}
			if _, addErr := d.AddPair(e.Key, e.Value); addErr != nil {
				slog.Warn("Skipping invalid entry", "path", path, "error", addErr)
				stats.Errors++
				continue
			}
			known[fp] = true
			stats.Added++
		}
		return nil
	})

	if walkErr != nil {
		slog.Error("Error walking directory", "path", dir, "error", walkErr)
		stats.Errors++
	}
	return stats
}

func isPairFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".txt", ".json":
		return true
	}
	return false
}

func gitURLToLocalPath(baseDir, repoURL string) (string, error) {
	parsedURL, err := url.Parse(repoURL)
	if err != nil || (parsedURL.Scheme != "https" && parsedURL.Scheme != "http") {
		if strings.Contains(repoURL, "@") {
			parts := strings.Split(repoURL, ":")
			if len(parts) == 2 {
				hostAndUser := strings.Split(parts[0], "@")
				if len(hostAndUser) == 2 {
					host := hostAndUser[1]
					repoPath := strings.TrimSuffix(parts[1], ".git")
					return filepath.Join(baseDir, host, repoPath), nil
				}
			}
		}
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}

	sanitizedPath := strings.TrimSuffix(parsedURL.Path, ".git")
	return filepath.Join(baseDir, parsedURL.Host, sanitizedPath), nil
}
