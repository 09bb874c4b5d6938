package store

import (
	"context"
	_ "crypto/sha256" // registers the digest algorithm
	"fmt"

	"github.com/opencontainers/go-digest"
	bolt "go.etcd.io/bbolt"

	. "src.deck.sh/pkg/store/storedefs"
)

func init() {
	initDB["initialize asset table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketAssets))
		return err
	}
}

// UploadAsset stores a blob under its sha256 digest, which is also the
// returned reference.
func (s *DBStore) UploadAsset(ctx context.Context, data []byte) (string, error) {
	ref := digest.FromBytes(data)
	err := s.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketAssets))
		if b.Get([]byte(ref)) != nil {
			return nil
		}
		return b.Put([]byte(ref), data)
	})
	return ref.String(), err
}

// Asset returns the blob with the given reference, verifying its content.
func (s *DBStore) Asset(ctx context.Context, ref string) ([]byte, error) {
	d, err := parseRef(ref)
	if err != nil {
		return nil, err
	}
	var data []byte
	err = s.view(ctx, func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketAssets)).Get([]byte(d))
		if v == nil {
			return fmt.Errorf("asset %s: %w", d, ErrNotFound)
		}
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, verify(d, data)
}

// A reference that is not a valid digest can't name any asset.
func parseRef(ref string) (digest.Digest, error) {
	d, err := digest.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("asset %q: %w: %v", ref, ErrNotFound, err)
	}
	return d, nil
}

func verify(d digest.Digest, data []byte) error {
	v := d.Verifier()
	v.Write(data)
	if !v.Verified() {
		return fmt.Errorf("asset %s: content does not match digest", d)
	}
	return nil
}
