package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"course-catalog/internal/logger"
	"course-catalog/internal/mappers"
	"course-catalog/internal/store"
)

// Store keeps one hash per partition (field = sort key, value = item JSON)
// and one hash per course title (field = partition key, value = createdAt).
type Store struct {
	rdb    *goredis.Client
	prefix string
	log    *logger.Logger
}

var _ store.Store = (*Store)(nil)

func Open(ctx context.Context, addr, prefix string, log *logger.Logger) (*Store, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("redisstore: missing address")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redisstore: ping: %w", err)
	}
	return New(rdb, prefix, log), nil
}

func New(rdb *goredis.Client, prefix string, log *logger.Logger) *Store {
	if prefix = strings.TrimSpace(prefix); prefix == "" {
		prefix = "catalog"
	}
	return &Store{rdb: rdb, prefix: prefix, log: logger.OrNop(log).With("store", "redis")}
}

func (s *Store) partKey(pk string) string { return s.prefix + ":part:" + pk }
func (s *Store) titleKey(title string) string { return s.prefix + ":title:" + title }

// BatchPut pipelines one HSET per item. Items whose command failed are
// returned as unprocessed.
func (s *Store) BatchPut(ctx context.Context, items []mappers.Item) ([]mappers.Item, error) {
	if err := store.CheckBatch(items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	// owner[i] is the item index command i belongs to
	var owner []int
	cmds, err := s.rdb.Pipelined(ctx, func(p goredis.Pipeliner) error {
		for i, it := range items {
			data, err := json.Marshal(it)
			if err != nil {
				return fmt.Errorf("encode %s: %w", it.Key(), err)
			}
			p.HSet(ctx, s.partKey(it.PartitionKey), it.SortKey, data)
			owner = append(owner, i)
			if it.Type == mappers.TypeCourse {
				p.HSet(ctx, s.titleKey(it.Title), it.PartitionKey, it.CreatedAt)
				owner = append(owner, i)
			}
		}
		return nil
	})
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil && len(cmds) == 0 {
		return nil, fmt.Errorf("redisstore: pipeline: %w", err)
	}

	failed := make(map[int]bool)
	for i, cmd := range cmds {
		if cmd.Err() != nil && i < len(owner) {
			failed[owner[i]] = true
			s.log.Debug("item write failed", "key", items[owner[i]].Key(), "error", cmd.Err())
		}
	}
	var unprocessed []mappers.Item
	for i, it := range items {
		if failed[i] {
			unprocessed = append(unprocessed, it)
		}
	}
	return unprocessed, nil
}

func (s *Store) FindCourse(ctx context.Context, title string) (mappers.Item, bool, error) {
	owners, err := s.rdb.HGetAll(ctx, s.titleKey(title)).Result()
	if err != nil {
		return mappers.Item{}, false, fmt.Errorf("redisstore: title index %q: %w", title, err)
	}
	if len(owners) == 0 {
		return mappers.Item{}, false, nil
	}

	pks := make([]string, 0, len(owners))
	for pk := range owners {
		pks = append(pks, pk)
	}
	sort.Slice(pks, func(i, j int) bool {
		if owners[pks[i]] != owners[pks[j]] {
			return owners[pks[i]] < owners[pks[j]]
		}
		return pks[i] < pks[j]
	})

	for _, pk := range pks {
		id := strings.TrimPrefix(pk, "COURSE#")
		raw, err := s.rdb.HGet(ctx, s.partKey(pk), mappers.CourseSortKey(id)).Bytes()
		if errors.Is(err, goredis.Nil) {
			continue
		}
		if err != nil {
			return mappers.Item{}, false, fmt.Errorf("redisstore: get %s: %w", pk, err)
		}
		var it mappers.Item
		if err := json.Unmarshal(raw, &it); err != nil {
			return mappers.Item{}, false, fmt.Errorf("redisstore: decode %s: %w", pk, err)
		}
		if it.Title == title {
			return it, true, nil
		}
	}
	return mappers.Item{}, false, nil
}

// Partition returns the items under pk ordered by sort key.
func (s *Store) Partition(ctx context.Context, pk string) ([]mappers.Item, error) {
	fields, err := s.rdb.HGetAll(ctx, s.partKey(pk)).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: read %s: %w", pk, err)
	}
	out := make([]mappers.Item, 0, len(fields))
	for sk, raw := range fields {
		var it mappers.Item
		if err := json.Unmarshal([]byte(raw), &it); err != nil {
			return nil, fmt.Errorf("redisstore: decode %s|%s: %w", pk, sk, err)
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortKey < out[j].SortKey })
	return out, nil
}

func (s *Store) Prune(ctx context.Context, pk string, keep []string) error {
	items, err := s.Partition(ctx, pk)
	if err != nil {
		return err
	}
	set := store.KeepSet(keep)
	var stale []string
	for _, it := range items {
		if !set[it.SortKey] {
			stale = append(stale, it.SortKey)
		}
	}
	if len(stale) == 0 {
		return nil
	}
	_, err = s.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		for _, it := range items {
			if it.Type == mappers.TypeCourse && !set[it.SortKey] {
				p.HDel(ctx, s.titleKey(it.Title), pk)
			}
		}
		p.HDel(ctx, s.partKey(pk), stale...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redisstore: prune %s: %w", pk, err)
	}
	return nil
}

func (s *Store) Close() error { return s.rdb.Close() }
