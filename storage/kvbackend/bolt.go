package kvbackend

import (
	"context"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudblocks/tfgen/storage"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// Bolt stores key-value pairs in a bolt database file.
//
// Keys are split on the last slash: the part before it names the bolt bucket
// and the part after it the key within the bucket.
type Bolt struct {
	db *bolt.DB
}

// DefaultBoltFile returns the default database location, ~/.tfgen/cache.db.
func DefaultBoltFile() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", errors.Wrap(err, "get user")
	}
	return filepath.Join(u.HomeDir, ".tfgen", "cache.db"), nil
}

// OpenBolt opens the database at the given path. The file and its directory
// are created if they do not exist.
func OpenBolt(file string) (*Bolt, error) {
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, errors.Wrapf(err, "create dir %s", dir)
	}
	db, err := bolt.Open(file, 0600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", file)
	}
	return &Bolt{db: db}, nil
}

// Close releases the database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}

// Put creates or updates a value.
func (b *Bolt) Put(ctx context.Context, key string, value []byte) error {
	bucket, k, err := splitKey(key)
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		buc, err := tx.CreateBucketIfNotExists(bucket)
		if err != nil {
			return errors.Wrap(err, "create bucket")
		}
		return buc.Put(k, value)
	})
}

// Get returns a copy of a value.
func (b *Bolt) Get(ctx context.Context, key string) ([]byte, error) {
	bucket, k, err := splitKey(key)
	if err != nil {
		return nil, err
	}
	var out []byte
	err = b.db.View(func(tx *bolt.Tx) error {
		v := lookup(tx, bucket, k)
		if v == nil {
			return storage.ErrNotFound
		}
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

// Delete deletes a key.
func (b *Bolt) Delete(ctx context.Context, key string) error {
	bucket, k, err := splitKey(key)
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		if lookup(tx, bucket, k) == nil {
			return storage.ErrNotFound
		}
		return errors.Wrap(tx.Bucket(bucket).Delete(k), "delete key")
	})
}

// Scan returns all values in the bucket named by prefix. The prefix must be a
// full bucket name without a trailing slash.
func (b *Bolt) Scan(ctx context.Context, prefix string) (map[string][]byte, error) {
	if strings.HasSuffix(prefix, "/") {
		return nil, errors.New("prefix must not end with a slash")
	}
	out := make(map[string][]byte)
	err := b.db.View(func(tx *bolt.Tx) error {
		buc := tx.Bucket([]byte(prefix))
		if buc == nil {
			return nil
		}
		return buc.ForEach(func(k, v []byte) error {
			out[prefix+"/"+string(k)] = append([]byte(nil), v...)
			return nil
		})
	})
	return out, err
}

func lookup(tx *bolt.Tx, bucket, key []byte) []byte {
	buc := tx.Bucket(bucket)
	if buc == nil {
		return nil
	}
	v := buc.Get(key)
	if len(v) == 0 {
		return nil
	}
	return v
}

// splitKey splits a key on its last slash:
//
//   templates/aws/abc
//   ->
//   bucket: templates/aws
//   key:    abc
func splitKey(key string) (bucket, k []byte, err error) {
	if strings.HasPrefix(key, "/") || strings.HasSuffix(key, "/") {
		return nil, nil, errors.Errorf("key %q must not start or end with a slash", key)
	}
	i := strings.LastIndex(key, "/")
	if i == -1 {
		return nil, nil, errors.Errorf("key %q does not contain a slash", key)
	}
	return []byte(key[:i]), []byte(key[i+1:]), nil
}
