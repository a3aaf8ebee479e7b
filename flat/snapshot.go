package flat

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/gofrs/flock"

	"github.com/fwojciec/wikirag"
)

// Snapshot layout: <dir>/vectors.bin holds a 16-byte header (magic, version,
// dimension, count, all little-endian), the float32 vector block, and an
// xxhash64 checksum of the block. <dir>/metadata.json holds the passage
// array, row-aligned with the vectors.
const (
	vectorsFile  = "vectors.bin"
	metadataFile = "metadata.json"

	snapshotMagic   = "WRIX"
	snapshotVersion = 1
	headerSize      = 16
	checksumSize    = 8
)

// Save persists the index atomically: both files are written and synced into
// <dir>.tmp, the live directory is moved aside to <dir>.old, and the
// temporary directory is renamed into place. A crash at any point leaves
// either the old or the new snapshot complete on disk.
func (ix *Index) Save() error {
	if ix.dir == "" {
		return wikirag.Errorf(wikirag.EINVALID, "index has no snapshot directory")
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	lock, err := ix.acquireLock()
	if err != nil {
		return err
	}
	defer lock.Unlock()

	tmp := ix.dir + ".tmp"
	if err := os.RemoveAll(tmp); err != nil {
		return err
	}
	if err := os.MkdirAll(tmp, 0755); err != nil {
		return err
	}

	if err := writeFileSync(filepath.Join(tmp, vectorsFile), ix.encodeVectors()); err != nil {
		return err
	}
	meta, err := ix.encodeMetadata()
	if err != nil {
		return err
	}
	if err := writeFileSync(filepath.Join(tmp, metadataFile), meta); err != nil {
		return err
	}

	old := ix.dir + ".old"
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	if _, err := os.Stat(ix.dir); err == nil {
		if err := os.Rename(ix.dir, old); err != nil {
			return err
		}
	}
	if err := os.Rename(tmp, ix.dir); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// Load replaces the in-memory state with the persisted snapshot. Returns
// ENOTFOUND when no snapshot exists and ECORRUPT when verification fails;
// on error the in-memory state is unchanged.
func (ix *Index) Load() error {
	if ix.dir == "" {
		return wikirag.Errorf(wikirag.EINVALID, "index has no snapshot directory")
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	lock, err := ix.acquireLock()
	if err != nil {
		return err
	}
	defer lock.Unlock()

	// A crash between the two Save renames leaves only <dir>.old behind;
	// restore it before reading.
	if _, err := os.Stat(ix.dir); os.IsNotExist(err) {
		if _, err := os.Stat(ix.dir + ".old"); err == nil {
			if err := os.Rename(ix.dir+".old", ix.dir); err != nil {
				return err
			}
		}
	}

	vectors, err := readVectors(filepath.Join(ix.dir, vectorsFile), ix.dim)
	if err != nil {
		return err
	}
	passages, err := readMetadata(filepath.Join(ix.dir, metadataFile))
	if err != nil {
		return err
	}
	if len(vectors) != len(passages) {
		return wikirag.Errorf(wikirag.ECORRUPT, "snapshot holds %d vectors but %d metadata entries", len(vectors), len(passages))
	}

	ix.vectors = vectors
	ix.passages = passages
	return nil
}

// acquireLock serializes snapshot access across processes with a file lock
// next to the snapshot directory.
func (ix *Index) acquireLock() (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(ix.dir), 0755); err != nil {
		return nil, err
	}
	lock := flock.New(ix.dir + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, err
	}
	return lock, nil
}

func (ix *Index) encodeVectors() []byte {
	block := make([]byte, len(ix.vectors)*ix.dim*4)
	off := 0
	for _, vec := range ix.vectors {
		for _, v := range vec {
			binary.LittleEndian.PutUint32(block[off:], math.Float32bits(v))
			off += 4
		}
	}

	out := make([]byte, 0, headerSize+len(block)+checksumSize)
	out = append(out, snapshotMagic...)
	out = binary.LittleEndian.AppendUint32(out, snapshotVersion)
	out = binary.LittleEndian.AppendUint32(out, uint32(ix.dim))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(ix.vectors)))
	out = append(out, block...)
	out = binary.LittleEndian.AppendUint64(out, xxhash.Sum64(block))
	return out
}

func (ix *Index) encodeMetadata() ([]byte, error) {
	passages := ix.passages
	if passages == nil {
		passages = []wikirag.Passage{}
	}
	return json.MarshalIndent(passages, "", "  ")
}

func readVectors(path string, wantDim int) ([][]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, wikirag.Errorf(wikirag.ENOTFOUND, "index snapshot not found")
		}
		return nil, err
	}
	if len(data) < headerSize+checksumSize {
		return nil, wikirag.Errorf(wikirag.ECORRUPT, "vector file truncated at %d bytes", len(data))
	}
	if string(data[:4]) != snapshotMagic {
		return nil, wikirag.Errorf(wikirag.ECORRUPT, "bad vector file magic %q", data[:4])
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != snapshotVersion {
		return nil, wikirag.Errorf(wikirag.ECORRUPT, "unsupported snapshot version %d", v)
	}
	dim := int(binary.LittleEndian.Uint32(data[8:12]))
	count := int(binary.LittleEndian.Uint32(data[12:16]))
	if dim != wantDim {
		return nil, wikirag.Errorf(wikirag.ECORRUPT, "snapshot dimension %d does not match configured %d", dim, wantDim)
	}

	block := data[headerSize : len(data)-checksumSize]
	if len(block) != count*dim*4 {
		return nil, wikirag.Errorf(wikirag.ECORRUPT, "vector block holds %d bytes, want %d", len(block), count*dim*4)
	}
	if sum := binary.LittleEndian.Uint64(data[len(data)-checksumSize:]); xxhash.Sum64(block) != sum {
		return nil, wikirag.Errorf(wikirag.ECORRUPT, "vector block checksum mismatch")
	}

	vectors := make([][]float32, count)
	off := 0
	for i := range vectors {
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(block[off:]))
			off += 4
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func readMetadata(path string) ([]wikirag.Passage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, wikirag.Errorf(wikirag.ECORRUPT, "metadata sidecar missing")
		}
		return nil, err
	}
	var passages []wikirag.Passage
	if err := json.Unmarshal(data, &passages); err != nil {
		return nil, wikirag.Errorf(wikirag.ECORRUPT, "metadata sidecar unreadable: %v", err)
	}
	return passages, nil
}

// writeFileSync writes data and flushes it to stable storage before closing.
func writeFileSync(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
