package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"skarn/internal/diag"
	"skarn/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// Digest — фиксированный 256-битный хеш (совместим с source.File.Hash).
type Digest [32]byte

// DiskCache хранит диагностики проверенных файлов по хешу содержимого.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload stores one file's check outcome for fast re-runs.
// Spans are kept as offsets only: the FileID is minted anew by whatever
// FileSet replays the entry.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path string
	Hash Digest

	Diags []DiagPayload
}

// DiagPayload is one flattened diagnostic.
type DiagPayload struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Notes    []NotePayload
	Fixes    []FixPayload
}

type NotePayload struct {
	Start   uint32
	End     uint32
	Message string
}

type FixPayload struct {
	Title string
	Edits []EditPayload
}

type EditPayload struct {
	Start   uint32
	End     uint32
	NewText string
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Для удобства читаемости/очистки — подкаталог "files".
	return filepath.Join(c.dir, "files", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	defer func() {
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	if err := os.Rename(tmpName, p); err != nil {
		return err
	}
	tmpName = ""
	return nil
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		_ = f.Close()
	}()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим целиком
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// cacheKey derives the cache slot for a file: the content hash combined
// with the schema version and every option that shapes the stored bag.
func cacheKey(file *source.File, opts Options) Digest {
	maxDiag, err := safecast.Conv[uint32](opts.MaxDiagnostics)
	if err != nil {
		panic(fmt.Errorf("maxDiagnostics overflow: %w", err))
	}

	h := sha256.New()
	_, _ = h.Write(file.Hash[:])

	var meta [8]byte
	binary.LittleEndian.PutUint16(meta[0:2], diskCacheSchemaVersion)
	binary.LittleEndian.PutUint32(meta[2:6], maxDiag)
	if opts.IgnoreWarnings {
		meta[6] = 1
	}
	if opts.WarningsAsErrors {
		meta[7] = 1
	}
	_, _ = h.Write(meta[:])
	_, _ = h.Write([]byte(opts.Stage))

	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// replayFromCache probes the cache and rebuilds a Result for file.
// Timing runs never replay: их смысл — измерить настоящий конвейер.
func replayFromCache(cache *DiskCache, fileSet *source.FileSet, file *source.File, opts Options) (*Result, bool) {
	if cache == nil || opts.EnableTimings {
		return nil, false
	}
	var payload DiskPayload
	ok, err := cache.Get(cacheKey(file, opts), &payload)
	if err != nil || !ok {
		return nil, false
	}
	bag, ok := payloadToBag(&payload, file, opts.MaxDiagnostics)
	if !ok {
		return nil, false
	}
	return &Result{
		FileSet: fileSet,
		FileID:  file.ID,
		Bag:     bag,
		Cached:  true,
	}, true
}

// storeInCache is best effort: ошибка записи не валит проверку.
func storeInCache(cache *DiskCache, file *source.File, opts Options, bag *diag.Bag) {
	if cache == nil || opts.EnableTimings {
		return
	}
	_ = cache.Put(cacheKey(file, opts), bagToPayload(file, bag))
}

// bagToPayload flattens a finished bag into offset-only form.
func bagToPayload(file *source.File, bag *diag.Bag) *DiskPayload {
	payload := &DiskPayload{
		Schema: diskCacheSchemaVersion,
		Path:   file.Path,
		Hash:   Digest(file.Hash),
	}
	if bag == nil {
		return payload
	}

	items := bag.Items()
	payload.Diags = make([]DiagPayload, len(items))
	for i := range items {
		d := &items[i]
		entry := DiagPayload{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, note := range d.Notes {
			entry.Notes = append(entry.Notes, NotePayload{
				Start:   note.Span.Start,
				End:     note.Span.End,
				Message: note.Msg,
			})
		}
		for _, fix := range d.Fixes {
			fp := FixPayload{Title: fix.Title}
			for _, edit := range fix.Edits {
				fp.Edits = append(fp.Edits, EditPayload{
					Start:   edit.Span.Start,
					End:     edit.Span.End,
					NewText: edit.NewText,
				})
			}
			entry.Fixes = append(entry.Fixes, fp)
		}
		payload.Diags[i] = entry
	}
	return payload
}

// payloadToBag rebuilds a bag with spans remapped onto file's FileID.
// Returns false when the payload belongs to another schema or content.
func payloadToBag(payload *DiskPayload, file *source.File, maxDiagnostics int) (*diag.Bag, bool) {
	if payload == nil || payload.Schema != diskCacheSchemaVersion {
		return nil, false
	}
	if payload.Hash != Digest(file.Hash) {
		return nil, false
	}

	bag := diag.NewBag(max(maxDiagnostics, len(payload.Diags)))
	for i := range payload.Diags {
		p := &payload.Diags[i]
		d := diag.Diagnostic{
			Severity: diag.Severity(p.Severity),
			Code:     diag.Code(p.Code),
			Message:  p.Message,
			Primary:  source.Span{File: file.ID, Start: p.Start, End: p.End},
		}
		for _, note := range p.Notes {
			d.Notes = append(d.Notes, diag.Note{
				Span: source.Span{File: file.ID, Start: note.Start, End: note.End},
				Msg:  note.Message,
			})
		}
		for _, fix := range p.Fixes {
			f := diag.Fix{Title: fix.Title}
			for _, edit := range fix.Edits {
				f.Edits = append(f.Edits, diag.FixEdit{
					Span:    source.Span{File: file.ID, Start: edit.Start, End: edit.End},
					NewText: edit.NewText,
				})
			}
			d.Fixes = append(d.Fixes, f)
		}
		bag.Add(d)
	}
	return bag, true
}
