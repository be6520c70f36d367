// Package store persists the command history in a bbolt database.
package store

import (
	"encoding/binary"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketCmd = "cmd"

// Cmd is a stored command with its sequence number.
type Cmd struct {
	Text string `json:"text"`
	Seq  int    `json:"seq"`
}

// Store is a command history database.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCmd))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddCmd appends a command and returns its sequence number.
func (s *Store) AddCmd(text string) (int, error) {
	var seq uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))
		var err error
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), []byte(text))
	})
	return int(seq), err
}

// Cmds returns every stored command, oldest first.
func (s *Store) Cmds() ([]Cmd, error) {
	var cmds []Cmd
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketCmd)).ForEach(func(k, v []byte) error {
			cmds = append(cmds, Cmd{Text: string(v), Seq: int(unmarshalSeq(k))})
			return nil
		})
	})
	return cmds, err
}

// Last returns up to n of the newest commands, oldest first. A non-positive n
// returns everything.
func (s *Store) Last(n int) ([]Cmd, error) {
	if n <= 0 {
		return s.Cmds()
	}

	var cmds []Cmd
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketCmd)).Cursor()
		for k, v := c.Last(); k != nil && len(cmds) < n; k, v = c.Prev() {
			cmds = append(cmds, Cmd{Text: string(v), Seq: int(unmarshalSeq(k))})
		}
		return nil
	})

	for i, j := 0, len(cmds)-1; i < j; i, j = i+1, j-1 {
		cmds[i], cmds[j] = cmds[j], cmds[i]
	}
	return cmds, err
}

// Clear deletes every stored command. Sequence numbers keep increasing.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))
		seq := b.Sequence()
		if err := tx.DeleteBucket([]byte(bucketCmd)); err != nil {
			return err
		}
		b, err := tx.CreateBucket([]byte(bucketCmd))
		if err != nil {
			return err
		}
		return b.SetSequence(seq)
	})
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
