// Package library keeps the list of source images being viewed and the
// thumbnails loaded for them.
package library

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"vincit.fi/image-viewer/api"
	"vincit.fi/image-viewer/api/apitype"
	"vincit.fi/image-viewer/common/logger"
	"vincit.fi/image-viewer/common/util"
)

type Library struct {
	mux        sync.Mutex
	files      []string
	known      *util.Set[string]
	thumbnails map[string]api.Paintable
}

func New() *Library {
	return &Library{
		known:      util.NewSet[string](),
		thumbnails: map[string]api.Paintable{},
	}
}

// AddPaths adds image files and the images inside directories. Directories
// are walked into only when recursive is set. Unsupported files are skipped.
// Returns the number of files added.
func (s *Library) AddPaths(paths []string, recursive bool) (int, error) {
	var errs []error
	var found []string
	for _, path := range paths {
		files, err := listImages(path, recursive)
		if err != nil {
			logger.Warn.Printf("Skipping '%s': %s", path, err)
			errs = append(errs, err)
		}
		found = append(found, files...)
	}

	s.mux.Lock()
	defer s.mux.Unlock()
	added := 0
	for _, file := range found {
		if s.known.Add(file) {
			s.files = append(s.files, file)
			added++
		}
	}
	logger.Debug.Printf("Added %d images", added)
	return added, errors.Join(errs...)
}

func listImages(path string, recursive bool) ([]string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, apitype.NewIoError("resolve", path, err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, apitype.NewIoError("stat", absPath, err)
	}
	if !info.IsDir() {
		if !apitype.IsSupported(absPath) {
			logger.Debug.Printf("Unsupported file '%s'", absPath)
			return nil, nil
		}
		return []string{absPath}, nil
	}

	logger.Debug.Printf("Scanning directory '%s'", absPath)
	var images []string
	err = filepath.WalkDir(absPath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path != absPath && (!recursive || strings.HasPrefix(entry.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if apitype.IsSupported(path) {
			images = append(images, path)
		}
		return nil
	})
	if err != nil {
		return images, apitype.NewIoError("scan", absPath, err)
	}
	sort.Strings(images)
	logger.Debug.Printf("Found %d images", len(images))
	return images, nil
}

// ReadPaths reads one path per line. Empty lines are ignored.
func ReadPaths(reader io.Reader) ([]string, error) {
	var paths []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			paths = append(paths, line)
		}
	}
	return paths, scanner.Err()
}

// Files returns the absolute paths in the order they were added.
func (s *Library) Files() []string {
	s.mux.Lock()
	defer s.mux.Unlock()
	files := make([]string, len(s.files))
	copy(files, s.files)
	return files
}

func (s *Library) Len() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	return len(s.files)
}

func (s *Library) Contains(path string) bool {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.known.Contains(path)
}

// SetThumbnail stores the thumbnail of path. A replaced thumbnail is
// destroyed.
func (s *Library) SetThumbnail(path string, paintable api.Paintable) {
	s.mux.Lock()
	old := s.thumbnails[path]
	s.thumbnails[path] = paintable
	s.mux.Unlock()

	if old != nil && old != paintable {
		old.Destroy()
	}
}

func (s *Library) Thumbnail(path string) (api.Paintable, bool) {
	s.mux.Lock()
	defer s.mux.Unlock()
	paintable, ok := s.thumbnails[path]
	return paintable, ok
}

// DropThumbnail destroys the thumbnail of path but keeps the file listed.
func (s *Library) DropThumbnail(path string) {
	s.mux.Lock()
	old := s.thumbnails[path]
	delete(s.thumbnails, path)
	s.mux.Unlock()

	if old != nil {
		old.Destroy()
	}
}

func (s *Library) Remove(path string) {
	s.mux.Lock()
	if s.known.Contains(path) {
		s.known.Remove(path)
		for i, file := range s.files {
			if file == path {
				s.files = append(s.files[:i], s.files[i+1:]...)
				break
			}
		}
	}
	s.mux.Unlock()

	s.DropThumbnail(path)
}

func (s *Library) Close() {
	logger.Info.Print("Shutting down library")
	s.mux.Lock()
	thumbnails := s.thumbnails
	s.thumbnails = map[string]api.Paintable{}
	s.mux.Unlock()

	for _, paintable := range thumbnails {
		paintable.Destroy()
	}
}
