// Package exclusion loads the list of payees whose transactions are never
// exported.
package exclusion

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"fjacquet/betterment-ynab/internal/logging"
	"fjacquet/betterment-ynab/internal/parsererror"
)

// DefaultFile is the list file looked up when none is configured.
const DefaultFile = "convert_ignore.txt"

// Set is a set of payee names matched exactly and case-sensitively.
type Set map[string]struct{}

// NewSet builds a Set from names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports whether payee is excluded.
func (s Set) Contains(payee string) bool {
	_, ok := s[payee]
	return ok
}

// Len returns the number of excluded payees.
func (s Set) Len() int {
	return len(s)
}

// Names returns the excluded payees sorted.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Read parses an exclusion list. The first line is a header and is skipped;
// every other non-blank line is one payee, with its line ending removed.
func Read(r io.Reader) (Set, error) {
	set := Set{}
	reader := bufio.NewReader(r)
	first := true
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			if !first {
				name := strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
				if name != "" {
					set[name] = struct{}{}
				}
			}
			first = false
		}
		if errors.Is(err, io.EOF) {
			return set, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// Load reads the exclusion list at path. A missing file yields an empty set
// and a warning; any other failure is an IOError.
func Load(path string, logger logging.Logger) (Set, error) {
	file, err := os.Open(path) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Exclusion list not found, no payees will be excluded",
				logging.Field{Key: logging.FieldFile, Value: path})
			return Set{}, nil
		}
		return nil, &parsererror.IOError{Path: path, Op: "open", Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			logger.WithError(cerr).Warn("Failed to close exclusion list")
		}
	}()

	set, err := Read(file)
	if err != nil {
		return nil, &parsererror.IOError{Path: path, Op: "read", Err: err}
	}

	logger.Debug("Loaded exclusion list",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: set.Len()},
		logging.Field{Key: logging.FieldExcluded, Value: set.Names()})
	return set, nil
}
