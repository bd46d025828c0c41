package capture

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const maxNameLen = 120

// Capture writes pages under one directory.
type Capture struct {
	dir string

	mu       sync.Mutex
	manifest map[string]Entry
}

// Entry describes one captured page in manifest.json.
type Entry struct {
	Op         string `json:"op"`
	Query      string `json:"query"`
	File       string `json:"file"`
	Bytes      int    `json:"bytes"`
	CapturedAt string `json:"captured_at"`
}

// New creates the dump directory if needed. A leading "~/" is expanded to
// the home directory.
func New(dir string) (*Capture, error) {
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating dump directory: %w", err)
	}

	return &Capture{dir: dir, manifest: make(map[string]Entry)}, nil
}

func (c *Capture) Dir() string {
	return c.dir
}

// Record writes body to <dir>/<op>_<query>.html and updates manifest.json.
// Fetching the same query again overwrites the earlier capture.
func (c *Capture) Record(op, query string, body []byte) error {
	name := fileName(op, query)
	if err := os.WriteFile(filepath.Join(c.dir, name), body, 0644); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.manifest[name] = Entry{
		Op:         op,
		Query:      query,
		File:       name,
		Bytes:      len(body),
		CapturedAt: time.Now().UTC().Format(time.RFC3339),
	}
	return c.saveManifest()
}

// Entries returns the pages captured by this process, keyed by file name.
func (c *Capture) Entries() map[string]Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]Entry, len(c.manifest))
	for k, v := range c.manifest {
		out[k] = v
	}
	return out
}

func (c *Capture) saveManifest() error {
	data, err := json.MarshalIndent(c.manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.dir, "manifest.json"), data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// fileName maps an operation and query to a safe, stable file name.
// Names longer than maxNameLen are cut and suffixed with a hash of the
// full op and query so distinct queries never share a file.
func fileName(op, query string) string {
	sum := fnv.New32a()
	sum.Write([]byte(op + "\x00" + query))

	if i := strings.LastIndex(query, "/"); i >= 0 {
		query = query[i+1:]
	}
	query = strings.TrimSuffix(query, ".aspx")
	query = strings.Replace(query, ".aspx?", "_", 1)

	var b strings.Builder
	b.WriteString(strings.ToLower(op))
	b.WriteByte('_')
	for _, r := range query {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	name := b.String()
	if len(name) > maxNameLen {
		name = fmt.Sprintf("%s_%08x", name[:maxNameLen-9], sum.Sum32())
	}
	return name + ".html"
}
