package manifest

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/julianstephens/go-utils/helpers"
	"github.com/julianstephens/go-utils/jsonutil"

	"github.com/julianstephens/redolog/internal/redolog"
)

const FileName = "MANIFEST.json"

// Manifest is the persisted configuration of one redolog database directory.
type Manifest struct {
	Version       int    `json:"version"`
	WalFileName   string `json:"wal_file_name"`
	StoreDriver   string `json:"store_driver"`
	StoreFileName string `json:"store_file_name,omitempty"`
	LogMaxSize    *int   `json:"log_max_size,omitempty"`
	LogMaxBackups *int   `json:"log_max_backups,omitempty"`
}

// Default returns a Manifest with default settings.
func Default() *Manifest {
	return &Manifest{
		Version:       redolog.ManifestVersion,
		WalFileName:   redolog.DefaultWalFileName,
		StoreDriver:   redolog.StoreDriverSqlite,
		StoreFileName: redolog.DefaultStoreFileName,
		LogMaxSize:    nil,
		LogMaxBackups: nil,
	}
}

// Create writes a manifest file with default settings into dir.
func Create(dir string) (*Manifest, error) {
	manifestPath := path.Join(dir, FileName)

	if exists := helpers.Exists(manifestPath); exists {
		return nil, &ManifestError{
			Kind: ManifestErrorKindAlreadyExists,
			Err:  fmt.Errorf("manifest already exists at %s", manifestPath),
		}
	}

	m := Default()
	data, err := jsonutil.Marshal(m)
	if err != nil {
		return nil, &ManifestError{Kind: ManifestErrorKindEncode, Err: err}
	}

	if err := writeFile(manifestPath, data); err != nil {
		return nil, err
	}
	return m, nil
}

// Open reads the manifest from dir.
func Open(dir string) (*Manifest, error) {
	manifestPath := path.Join(dir, FileName)

	if exists := helpers.Exists(manifestPath); !exists {
		return nil, &ManifestError{Kind: ManifestErrorKindNotFound, Err: fs.ErrNotExist}
	}

	m := &Manifest{}
	if err := jsonutil.ReadFileStrict(manifestPath, m); err != nil {
		return nil, &ManifestError{Kind: ManifestErrorKindDecode, Err: err}
	}

	if m.Version > redolog.ManifestVersion {
		return nil, &ManifestError{
			Kind: ManifestErrorKindUnsupportedVersion,
			Err:  fmt.Errorf("manifest version %d is not supported", m.Version),
		}
	}

	return m, nil
}

// Save writes the manifest back into dir.
func (m *Manifest) Save(dir string) error {
	manifestPath := path.Join(dir, FileName)

	if exists := helpers.Exists(manifestPath); !exists {
		return &ManifestError{Kind: ManifestErrorKindNotFound, Err: fs.ErrNotExist}
	}

	data, err := jsonutil.Marshal(m)
	if err != nil {
		return &ManifestError{Kind: ManifestErrorKindEncode, Err: err}
	}

	return writeFile(manifestPath, data)
}

// WalPath returns the log file path for this manifest.
func (m *Manifest) WalPath(dir string) string {
	return path.Join(dir, m.WalFileName)
}

// StorePath returns the apply-target path for this manifest.
func (m *Manifest) StorePath(dir string) string {
	return path.Join(dir, m.StoreFileName)
}

func writeFile(filePath string, data []byte) error {
	if err := helpers.AtomicFileWrite(filePath, data); err != nil {
		return &ManifestError{Kind: ManifestErrorKindWrite, Err: err}
	}
	f, err := os.Open(filepath.Dir(filePath)) //nolint:gosec
	if err != nil {
		return &ManifestError{Kind: ManifestErrorKindWrite, Err: err}
	}
	defer func() { _ = f.Close() }()

	if err := f.Sync(); err != nil {
		return &ManifestError{Kind: ManifestErrorKindWrite, Err: err}
	}
	return nil
}
