// Package patch inserts snippets into source files by plain text surgery.
//
// There is no parser for the target language at install time, so the insertion point
// is the closing brace at the very end of the file. Hand-edited files which have anything
// but whitespace after the last brace are rejected.
package patch

import (
	_ "embed" // for trusted proxy stub
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/reddec/sail-ssl-proxy/internal"
	"github.com/reddec/sail-ssl-proxy/internal/fault"
)

// TrustProxiesFile is location of the middleware relative to the project root.
const TrustProxiesFile = "app/Http/Middleware/TrustProxies.php"

//go:embed trust-ssl-proxy.php.stub
var TrustProxiesSnippet string // nolint:gochecknoglobals

var ErrAnchorNotFound = errors.New("closing brace at the end of file not found")

// closing brace followed only by whitespace up to the end of content; can match at most once
var anchor = regexp.MustCompile(`\}\s*\z`) // nolint:gochecknoglobals

// Insert puts snippet right before the final closing brace of content.
func Insert(content, snippet string) (string, error) {
	loc := anchor.FindStringIndex(content)
	if loc == nil {
		return "", ErrAnchorNotFound
	}
	return content[:loc[0]] + snippet + content[loc[0]:], nil
}

// Patch inserts snippet into file before its final closing brace. File already containing the snippet is left as is.
func Patch(path string, snippet string) error {
	name := filepath.Base(path)
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		err = os.ErrNotExist
	}
	if err != nil {
		return fault.New(fault.NotFound, path, err).WithMessage("The " + name + " file doesn't exist")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fault.New(fault.NotFound, path, err).WithMessage("Unable to read " + name)
	}
	content := string(data)

	if strings.TrimSpace(snippet) != "" && strings.Contains(content, strings.TrimSpace(snippet)) {
		return nil
	}

	updated, err := Insert(content, snippet)
	if err != nil {
		return fault.New(fault.Parse, path, err).WithMessage("Unable to find where to update " + name)
	}

	if err := internal.WriteFileLocked(path, []byte(updated), info.Mode().Perm()); err != nil {
		return fault.New(fault.Write, path, err).WithMessage("Unable to write to " + name)
	}
	return nil
}

// Patcher applies fixed snippet to files.
type Patcher struct {
	Snippet string
}

func (p Patcher) Patch(path string) error {
	return Patch(path, p.Snippet)
}
