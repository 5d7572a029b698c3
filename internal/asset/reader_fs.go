package asset

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// RawIR is the reader's IR for any asset whose factory wants the
// undecoded file bytes (textures, audio containers): a byte-for-byte
// copy of what was on disk.
type RawIR struct {
	Bytes []byte
}

func (r RawIR) MemoryUsage() int { return len(r.Bytes) }

// assetExtensions maps a Type to the file extensions its headers are
// enumerated from under the reader's root.
var assetExtensions = map[Type][]string{
	TypeTexture:   {".png", ".bmp", ".tif", ".tiff"},
	TypeAudioWAV:  {".wav"},
	TypeAudioOGG:  {".ogg"},
	TypeAudioFLAC: {".flac"},
	TypeAudioMIDI: {".mid", ".midi"},
}

// FilesystemReader is the default reader worker: it serves
// ToReaderMessage requests against a directory tree on disk, bounding
// concurrent file reads with a weighted semaphore and supervising them
// with an errgroup so one failing read never wedges the worker.
type FilesystemReader struct {
	root    string
	binding *ReaderBinding
	sem     *semaphore.Weighted
}

// NewFilesystemReader binds to the hub's reader channel pair and serves
// reads rooted at dir. maxConcurrentReads bounds how many files are
// open at once.
func NewFilesystemReader(hub *Hub, dir string, maxConcurrentReads int64) *FilesystemReader {
	return &FilesystemReader{
		root:    dir,
		binding: hub.ReaderBinding(),
		sem:     semaphore.NewWeighted(maxConcurrentReads),
	}
}

// Run serves requests until ctx is cancelled. Intended to run on its
// own goroutine, one per Hub.
func (r *FilesystemReader) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-r.binding.ToReader:
			r.handle(ctx, msg)
		}
	}
}

func (r *FilesystemReader) handle(ctx context.Context, msg ToReaderMessage) {
	if msg.Enumerate {
		headers, err := r.enumerate()
		r.binding.FromReader <- FromReaderMessage{Enumerate: true, TaskID: msg.TaskID, Headers: headers, Err: err}
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	var ir RawIR
	g.Go(func() error {
		if err := r.sem.Acquire(gctx, 1); err != nil {
			return err
		}
		defer r.sem.Release(1)
		data, err := os.ReadFile(r.pathFor(msg.Asset))
		if err != nil {
			return err
		}
		ir = RawIR{Bytes: data}
		return nil
	})
	err := g.Wait()
	r.binding.FromReader <- FromReaderMessage{TaskID: msg.TaskID, Asset: msg.Asset, IR: ir, Err: err}
}

func (r *FilesystemReader) pathFor(id ID) string {
	return filepath.Join(r.root, string(id))
}

// enumerate walks the root directory on the calling goroutine and
// builds one Header per file with a recognized extension, in sorted
// path order. The walk does not use the read semaphore; files with
// other extensions are skipped.
func (r *FilesystemReader) enumerate() ([]Header, error) {
	var paths []string
	err := filepath.WalkDir(r.root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	headers := make([]Header, 0, len(paths))
	for _, path := range paths {
		rel, err := filepath.Rel(r.root, path)
		if err != nil {
			continue
		}
		t, ok := typeForExt(filepath.Ext(path))
		if !ok {
			continue
		}
		headers = append(headers, Header{ID: ID(rel), Type: t})
	}
	return headers, nil
}

func typeForExt(ext string) (Type, bool) {
	ext = strings.ToLower(ext)
	for t, exts := range assetExtensions {
		for _, e := range exts {
			if e == ext {
				return t, true
			}
		}
	}
	return 0, false
}
