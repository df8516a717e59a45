/*
Package redisstore implements a tree.NodeStore on top of a Redis
database, keeping every node as a JSON-encoded string under a prefixed
key.
*/
package redisstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/redis.v5"

	"github.com/arborml/id3/tree"
)

/*
NodeEncodeDecoder is an interface for objects
that allow encoding stored nodes into slices of
bytes and decoding them back to stored nodes.
*/
type NodeEncodeDecoder interface {
	Encode(*tree.StoredNode) ([]byte, error)
	Decode([]byte) (*tree.StoredNode, error)
}

type redisStore struct {
	rc      *redis.Client
	prefix  string
	nencdec NodeEncodeDecoder
}

//New builds a tree.NodeStore backed by a redis DB
func New(rc *redis.Client, prefix string, nencdec NodeEncodeDecoder) tree.NodeStore {
	return &redisStore{rc, prefix, nencdec}
}

func (rs *redisStore) Create(ctx context.Context, n *tree.StoredNode) error {
	var ok bool
	for !ok {
		if err := ctx.Err(); err != nil {
			return err
		}
		n.ID = uuid.NewString()
		data, err := rs.nencdec.Encode(n)
		if err != nil {
			return fmt.Errorf("creating node: %w", err)
		}
		ok, err = rs.rc.SetNX(rs.keyFor(n.ID), data, 0).Result()
		if err != nil {
			return fmt.Errorf("creating node in redis: %w", err)
		}
	}
	return nil
}

func (rs *redisStore) Get(ctx context.Context, id string) (*tree.StoredNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := rs.rc.Get(rs.keyFor(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving node %q: %w", id, err)
	}
	n, err := rs.nencdec.Decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("retrieving node %q: %w", id, err)
	}
	return n, nil
}

func (rs *redisStore) Store(ctx context.Context, n *tree.StoredNode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	redisID := rs.keyFor(n.ID)
	data, err := rs.nencdec.Encode(n)
	if err != nil {
		return fmt.Errorf("storing node %q: %w", redisID, err)
	}
	if err = rs.rc.Set(redisID, data, 0).Err(); err != nil {
		return fmt.Errorf("storing node %q in redis: %w", redisID, err)
	}
	return nil
}

func (rs *redisStore) Delete(ctx context.Context, n *tree.StoredNode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	redisID := rs.keyFor(n.ID)
	if err := rs.rc.Del(redisID).Err(); err != nil {
		return fmt.Errorf("deleting node %q from redis: %w", redisID, err)
	}
	return nil
}

func (rs *redisStore) Close(ctx context.Context) error {
	return nil
}

func (rs *redisStore) keyFor(id string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, id)
}
