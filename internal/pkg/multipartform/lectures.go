// Package multipartform decodes the flat multipart field naming the course
// creation form uses for its variable-length lecture list: metadata fields
// named lectures[i][title] / lectures[i][description] and one file part
// lecture_i per entry. The client declares the indexes; entries are
// returned sorted ascending by index no matter in which order the parts
// arrived on the wire.
package multipartform

import (
	"fmt"
	"mime/multipart"
	"regexp"
	"sort"
	"strconv"
)

// LectureEntry is one decoded lecture tuple from the form
type LectureEntry struct {
	Index       int
	Title       string
	Description string
	File        *multipart.FileHeader
}

var (
	lectureFieldPattern = regexp.MustCompile(`^lectures\[(\d+)\]\[(title|description)\]$`)
	lectureFilePattern  = regexp.MustCompile(`^lecture_(\d+)$`)
)

// ParseLectures extracts the indexed lecture entries from a parsed
// multipart form. An empty form section yields an empty slice. Indexes may
// be sparse; ordering follows the declared index, not field arrival order.
func ParseLectures(form *multipart.Form) ([]LectureEntry, error) {
	if form == nil {
		return []LectureEntry{}, nil
	}

	entries := make(map[int]*LectureEntry)

	entry := func(index int) *LectureEntry {
		e, ok := entries[index]
		if !ok {
			e = &LectureEntry{Index: index}
			entries[index] = e
		}
		return e
	}

	for name, values := range form.Value {
		match := lectureFieldPattern.FindStringSubmatch(name)
		if match == nil || len(values) == 0 {
			continue
		}

		index, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, fmt.Errorf("invalid lecture index in field %q: %w", name, err)
		}

		switch match[2] {
		case "title":
			entry(index).Title = values[0]
		case "description":
			entry(index).Description = values[0]
		}
	}

	for name, files := range form.File {
		match := lectureFilePattern.FindStringSubmatch(name)
		if match == nil || len(files) == 0 {
			continue
		}

		index, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, fmt.Errorf("invalid lecture index in file part %q: %w", name, err)
		}

		entry(index).File = files[0]
	}

	result := make([]LectureEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Index < result[j].Index
	})

	return result, nil
}
