package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gopkg.in/redis.v5"

	"github.com/arborml/id3/metadata"
	"github.com/arborml/id3/table"
	"github.com/arborml/id3/table/csv"
	"github.com/arborml/id3/table/sqltable"
	"github.com/arborml/id3/tree"
	treejson "github.com/arborml/id3/tree/json"
	"github.com/arborml/id3/tree/redisstore"
)

func isSQLSource(input string) bool {
	return strings.HasPrefix(input, "postgresql://") ||
		strings.HasPrefix(input, "postgres://") ||
		strings.HasSuffix(input, ".db")
}

/*
readTable reads the table at input: a SQLite3 (.db) file or a PostgreSQL
URL are queried with query, or a select of every row of the configured
table when query is empty; anything else is read as a CSV file, stdin
when input is empty. Column types come from the metadata.
*/
func (rc *rootCmdConfig) readTable(ctx context.Context, input, query string, stdin io.Reader, md *metadata.Metadata) (*table.Table, error) {
	if isSQLSource(input) {
		if query == "" {
			query = fmt.Sprintf("SELECT * FROM %s", rc.global.SQLTable)
		}
		rc.logger.Debug("reading table from database", "input", input, "query", query)
		db, err := sqltable.Open(input)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		title := md.Title
		if title == "" {
			title = rc.global.SQLTable
		}
		return sqltable.Reader{ParserFor: md.ParserFor}.Read(ctx, db, title, query)
	}
	r := csv.Reader{Comma: rc.global.Comma(), ParserFor: md.ParserFor}
	if input == "" {
		rc.logger.Debug("reading table from STDIN")
		return r.Read(stdin, "stdin")
	}
	rc.logger.Debug("reading table from file", "input", input)
	t, err := r.ReadFile(input)
	if err != nil {
		return nil, err
	}
	if md.Title != "" {
		return table.New(md.Title, t.Columns()...)
	}
	return t, nil
}

func (rc *rootCmdConfig) redisClient() (*redis.Client, error) {
	if rc.global.RedisAddr == "" {
		return nil, fmt.Errorf("no redis_addr configured")
	}
	return redis.NewClient(&redis.Options{
		Addr:     rc.global.RedisAddr,
		Password: rc.global.RedisPassword,
		DB:       rc.global.RedisDB,
	}), nil
}

// nodeStore returns the Redis node store and a function to release it.
func (rc *rootCmdConfig) nodeStore(ctx context.Context) (tree.NodeStore, func(), error) {
	client, err := rc.redisClient()
	if err != nil {
		return nil, nil, err
	}
	ns := redisstore.New(client, rc.global.RedisPrefix, treejson.NewNodeEncodeDecoder())
	return ns, func() {
		ns.Close(ctx)
		client.Close()
	}, nil
}

/*
loadTree reads the tree in the JSON file at treeInput or, when that is
empty, the tree with root redisRoot in the Redis node store.
*/
func (rc *rootCmdConfig) loadTree(ctx context.Context, treeInput, redisRoot string) (*tree.Tree[string, string], error) {
	c := tree.StringCodec()
	if treeInput != "" {
		rc.logger.Debug("reading tree from file", "tree", treeInput)
		root, err := treejson.ReadJSONTreeFromFile(treeInput, c)
		if err != nil {
			return nil, err
		}
		return tree.New(root), nil
	}
	ns, release, err := rc.nodeStore(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	rc.logger.Debug("loading tree from redis", "root", redisRoot)
	root, err := tree.Load(ctx, ns, redisRoot, c)
	if err != nil {
		return nil, err
	}
	return tree.New(root), nil
}

func validateTreeSource(treeInput, redisRoot string) error {
	if treeInput == "" && redisRoot == "" {
		return fmt.Errorf("one of the tree or redis-root flags must be set")
	}
	if treeInput != "" && redisRoot != "" {
		return fmt.Errorf("cannot set both tree and redis-root flags at the same time")
	}
	return nil
}
