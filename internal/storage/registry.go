package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

const (
	RegistryFile   = "registry.db"
	schemaVersion  = "1"
	dirPermSecure  = 0700
	filePermSecure = 0600
	openTimeout    = 2 * time.Second
)

// Bucket names
var (
	ConfigBucket = []byte("config") // schema version, creation time
	VaultsBucket = []byte("vaults") // absolute vault path -> VaultRecord JSON
)

// Config keys
var (
	ConfigVersion = []byte("version")
	ConfigCreated = []byte("created")
)

var ErrNotRegistered = errors.New("vault not registered")

// Registry provides BBolt-based storage of vault records
type Registry struct {
	db *bolt.DB
}

// Open opens or creates the registry database inside stateDir
func Open(stateDir string) (*Registry, error) {
	if err := os.MkdirAll(stateDir, dirPermSecure); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	db, err := bolt.Open(filepath.Join(stateDir, RegistryFile), filePermSecure, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open registry: %w", err)
	}

	r := &Registry{db: db}
	if err := r.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// Close closes the database
func (r *Registry) Close() error {
	return r.db.Close()
}

// Path returns the database file location
func (r *Registry) Path() string {
	return r.db.Path()
}

// initialize creates the bucket structure if missing
func (r *Registry) initialize() error {
	return r.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{ConfigBucket, VaultsBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if config.Get(ConfigVersion) != nil {
			return nil
		}
		if err := config.Put(ConfigVersion, []byte(schemaVersion)); err != nil {
			return err
		}
		created, _ := time.Now().MarshalBinary()
		return config.Put(ConfigCreated, created)
	})
}

// Register records a vault, keeping the ID of an existing record
func (r *Registry) Register(path, format string, iterations int) (*VaultRecord, error) {
	key, err := recordKey(path)
	if err != nil {
		return nil, err
	}

	var record *VaultRecord
	err = r.db.Update(func(tx *bolt.Tx) error {
		vaults := tx.Bucket(VaultsBucket)

		existing, err := getRecord(vaults, key)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.Format = format
			existing.Iterations = iterations
			existing.LastOpened = time.Now()
			record = existing
			return putRecord(vaults, key, record)
		}

		record = newRecord(string(key), uuid.NewString(), format, iterations)
		return putRecord(vaults, key, record)
	})
	return record, err
}

// Lookup returns the record of a vault or ErrNotRegistered
func (r *Registry) Lookup(path string) (*VaultRecord, error) {
	key, err := recordKey(path)
	if err != nil {
		return nil, err
	}

	var record *VaultRecord
	err = r.db.View(func(tx *bolt.Tx) error {
		vaults := tx.Bucket(VaultsBucket)
		if vaults == nil {
			return fmt.Errorf("vaults bucket not found")
		}
		record, err = getRecord(vaults, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, key)
	}
	return record, nil
}

// Touch updates the last opened timestamp of a registered vault
func (r *Registry) Touch(path string) error {
	key, err := recordKey(path)
	if err != nil {
		return err
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		vaults := tx.Bucket(VaultsBucket)
		record, err := getRecord(vaults, key)
		if err != nil {
			return err
		}
		if record == nil {
			return fmt.Errorf("%w: %s", ErrNotRegistered, key)
		}
		record.LastOpened = time.Now()
		return putRecord(vaults, key, record)
	})
}

// Forget removes a vault record
func (r *Registry) Forget(path string) error {
	key, err := recordKey(path)
	if err != nil {
		return err
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(VaultsBucket).Delete(key)
	})
}

// List returns all records sorted by path
func (r *Registry) List() ([]VaultRecord, error) {
	var records []VaultRecord
	err := r.db.View(func(tx *bolt.Tx) error {
		vaults := tx.Bucket(VaultsBucket)
		if vaults == nil {
			return nil
		}
		return vaults.ForEach(func(k, v []byte) error {
			var record VaultRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return err
			}
			records = append(records, record)
			return nil
		})
	})
	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records, err
}

// Compact creates a compacted copy of the database, removing unused space.
// This is useful after forgetting vaults.
func (r *Registry) Compact() error {
	srcPath := r.db.Path()
	tmpPath := srcPath + ".compact"

	dst, err := bolt.Open(tmpPath, filePermSecure, nil)
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	if err := bolt.Compact(dst, r.db, 0); err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}

	if err := r.db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	// Atomic replace
	backupPath := srcPath + ".backup"
	if err := os.Rename(srcPath, backupPath); err != nil {
		return fmt.Errorf("failed to backup original: %w", err)
	}
	if err := os.Rename(tmpPath, srcPath); err != nil {
		os.Rename(backupPath, srcPath) // rollback
		return fmt.Errorf("failed to replace database: %w", err)
	}
	os.Remove(backupPath)

	r.db, err = bolt.Open(srcPath, filePermSecure, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}

	return nil
}

func recordKey(path string) ([]byte, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	return []byte(absPath), nil
}

func getRecord(vaults *bolt.Bucket, key []byte) (*VaultRecord, error) {
	data := vaults.Get(key)
	if data == nil {
		return nil, nil
	}
	record := &VaultRecord{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("corrupt registry record for %s: %w", key, err)
	}
	return record, nil
}

func putRecord(vaults *bolt.Bucket, key []byte, record *VaultRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return vaults.Put(key, data)
}
