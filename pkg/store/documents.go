package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	bolt "go.etcd.io/bbolt"

	"src.deck.sh/pkg/model"
	. "src.deck.sh/pkg/store/storedefs"
)

func init() {
	initDB["initialize document table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketDocuments))
		return err
	}
	initDB["initialize document info table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketInfo))
		return err
	}
}

// LoadDocument loads and validates a document.
func (s *DBStore) LoadDocument(ctx context.Context, id string) (*model.Presentation, error) {
	var data []byte
	err := s.view(ctx, func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketDocuments)).Get([]byte(id))
		if v == nil {
			return fmt.Errorf("document %q: %w", id, ErrNotFound)
		}
		// v is only valid during the transaction.
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	doc, err := model.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", id, err)
	}
	return doc, nil
}

// SaveDocument stores a document and updates its entry in the document list.
func (s *DBStore) SaveDocument(ctx context.Context, doc *model.Presentation) error {
	data, err := model.Encode(doc)
	if err != nil {
		return err
	}
	info, err := json.Marshal(infoOf(doc, s.now()))
	if err != nil {
		return err
	}
	return s.update(ctx, func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(bucketDocuments)).Put([]byte(doc.ID), data); err != nil {
			return err
		}
		return tx.Bucket([]byte(bucketInfo)).Put([]byte(doc.ID), info)
	})
}

// ListDocuments lists all documents, most recently updated first.
func (s *DBStore) ListDocuments(ctx context.Context) ([]DocumentInfo, error) {
	var infos []DocumentInfo
	err := s.view(ctx, func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketInfo)).ForEach(func(k, v []byte) error {
			var info DocumentInfo
			if err := json.Unmarshal(v, &info); err != nil {
				return fmt.Errorf("info of %q: %w", k, err)
			}
			infos = append(infos, info)
			return nil
		})
	})
	sortInfos(infos)
	return infos, err
}

// DeleteDocument deletes a document. It returns an error wrapping ErrNotFound
// if there is no such document.
func (s *DBStore) DeleteDocument(ctx context.Context, id string) error {
	return s.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketDocuments))
		if b.Get([]byte(id)) == nil {
			return fmt.Errorf("document %q: %w", id, ErrNotFound)
		}
		if err := b.Delete([]byte(id)); err != nil {
			return err
		}
		return tx.Bucket([]byte(bucketInfo)).Delete([]byte(id))
	})
}

func sortInfos(infos []DocumentInfo) {
	sort.SliceStable(infos, func(i, j int) bool {
		if !infos[i].Updated.Equal(infos[j].Updated) {
			return infos[i].Updated.After(infos[j].Updated)
		}
		return infos[i].ID < infos[j].ID
	})
}
