// internal/storage/file_storage.go
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileStorage persists project data as JSON files under a base directory.
// Writes are atomic (temp file + rename) and serialized per path; reads go
// through a small TTL cache so hot documents (the block list, structure
// overlays) do not hit disk on every request.
type FileStorage struct {
	BaseDir string

	fileLocks sync.Map // path -> *sync.RWMutex

	cache        map[string]*cacheEntry
	cacheMutex   sync.RWMutex
	cacheExpiry  time.Duration
	maxCacheSize int
}

type cacheEntry struct {
	data      []byte
	timestamp time.Time
}

// NewFileStorage creates the base directory if needed and starts the
// background cache sweeper.
func NewFileStorage(baseDir string) (*FileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	fs := &FileStorage{
		BaseDir:      baseDir,
		cache:        make(map[string]*cacheEntry),
		cacheExpiry:  5 * time.Minute,
		maxCacheSize: 100,
	}

	fs.startCacheCleanup()

	return fs, nil
}

func (fs *FileStorage) getFileLock(fullPath string) *sync.RWMutex {
	value, _ := fs.fileLocks.LoadOrStore(fullPath, &sync.RWMutex{})
	return value.(*sync.RWMutex)
}

// SaveTextFile writes content atomically under BaseDir/dirPath/filename.
func (fs *FileStorage) SaveTextFile(dirPath, filename string, content []byte) error {
	fullDirPath := filepath.Join(fs.BaseDir, dirPath)
	fullPath := filepath.Join(fullDirPath, filename)

	lock := fs.getFileLock(fullPath)
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(fullDirPath, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tempPath := fullPath + ".tmp"

	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tempPath, fullPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("write file: %w", err)
	}

	fs.invalidateCache(fullPath)

	return nil
}

// SaveJSONFile marshals data with indentation and writes it atomically.
func (fs *FileStorage) SaveJSONFile(dirPath, filename string, data interface{}) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	return fs.SaveTextFile(dirPath, filename, content)
}

// LoadTextFile reads a file, serving from cache when the entry is fresh.
func (fs *FileStorage) LoadTextFile(dirPath, filename string) ([]byte, error) {
	fullPath := filepath.Join(fs.BaseDir, dirPath, filename)

	if data, ok := fs.cachedData(fullPath); ok {
		return data, nil
	}

	lock := fs.getFileLock(fullPath)
	lock.RLock()
	defer lock.RUnlock()

	// Another reader may have filled the cache while we waited for the lock.
	if data, ok := fs.cachedData(fullPath); ok {
		return data, nil
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	fs.updateCache(fullPath, content)

	return content, nil
}

// LoadJSONFile reads and unmarshals a JSON file into v.
func (fs *FileStorage) LoadJSONFile(dirPath, filename string, v interface{}) error {
	content, err := fs.LoadTextFile(dirPath, filename)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(content, v); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}

	return nil
}

// FileExists reports whether the file is present on disk.
func (fs *FileStorage) FileExists(dirPath, filename string) bool {
	fullPath := filepath.Join(fs.BaseDir, dirPath, filename)
	_, err := os.Stat(fullPath)
	return err == nil
}

// DirExists reports whether the directory is present on disk.
func (fs *FileStorage) DirExists(dirPath string) bool {
	fullPath := filepath.Join(fs.BaseDir, dirPath)
	info, err := os.Stat(fullPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// DeleteFile removes a file and drops its cache entry.
func (fs *FileStorage) DeleteFile(dirPath, filename string) error {
	fullPath := filepath.Join(fs.BaseDir, dirPath, filename)

	lock := fs.getFileLock(fullPath)
	lock.Lock()
	defer lock.Unlock()

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", fullPath)
	}

	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	fs.invalidateCache(fullPath)

	return nil
}

// DeleteDir removes a directory tree and every cache entry under it.
func (fs *FileStorage) DeleteDir(dirPath string) error {
	fullPath := filepath.Join(fs.BaseDir, dirPath)

	lock := fs.getFileLock(fullPath)
	lock.Lock()
	defer lock.Unlock()

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("directory does not exist: %s", fullPath)
	}

	if err := os.RemoveAll(fullPath); err != nil {
		return fmt.Errorf("delete directory: %w", err)
	}

	fs.removeCacheEntriesWithPrefix(fullPath)

	return nil
}

// ListDirs returns the names of immediate subdirectories of dirPath.
func (fs *FileStorage) ListDirs(dirPath string) ([]string, error) {
	fullPath := filepath.Join(fs.BaseDir, dirPath)
	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}

	return dirs, nil
}

func (fs *FileStorage) cachedData(path string) ([]byte, bool) {
	fs.cacheMutex.RLock()
	defer fs.cacheMutex.RUnlock()

	entry, exists := fs.cache[path]
	if !exists || time.Since(entry.timestamp) >= fs.cacheExpiry {
		return nil, false
	}
	return entry.data, true
}

func (fs *FileStorage) updateCache(path string, data []byte) {
	fs.cacheMutex.Lock()
	defer fs.cacheMutex.Unlock()

	fs.cache[path] = &cacheEntry{
		data:      data,
		timestamp: time.Now(),
	}

	if len(fs.cache) > fs.maxCacheSize {
		var oldestKey string
		var oldestTime time.Time
		for key, entry := range fs.cache {
			if oldestKey == "" || entry.timestamp.Before(oldestTime) {
				oldestKey = key
				oldestTime = entry.timestamp
			}
		}
		if oldestKey != "" {
			delete(fs.cache, oldestKey)
		}
	}
}

func (fs *FileStorage) invalidateCache(path string) {
	fs.cacheMutex.Lock()
	defer fs.cacheMutex.Unlock()

	delete(fs.cache, path)
}

func (fs *FileStorage) removeCacheEntriesWithPrefix(prefix string) {
	fs.cacheMutex.Lock()
	defer fs.cacheMutex.Unlock()

	for key := range fs.cache {
		if strings.HasPrefix(key, prefix) {
			delete(fs.cache, key)
		}
	}
}

func (fs *FileStorage) startCacheCleanup() {
	go func() {
		ticker := time.NewTicker(2 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			fs.cleanupExpiredCache()
		}
	}()
}

func (fs *FileStorage) cleanupExpiredCache() {
	fs.cacheMutex.Lock()
	defer fs.cacheMutex.Unlock()

	now := time.Now()
	for path, entry := range fs.cache {
		if now.Sub(entry.timestamp) > fs.cacheExpiry {
			delete(fs.cache, path)
		}
	}
}
