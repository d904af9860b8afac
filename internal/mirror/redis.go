package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"tillpos/internal/till"
)

// RedisStore implements Store on a redis instance. The full-state document is
// a hash (HSET gives the per-field last-writer-wins merge), order documents
// live under per-order keys indexed by a creation-time sorted set, and the
// live subscription rides pub/sub: every collection write publishes a nudge
// and subscribers re-list.
type RedisStore struct {
	rdb    *redis.Client
	shopID string
}

// NewRedisStore builds a store scoped to one shop id.
func NewRedisStore(rdb *redis.Client, shopID string) *RedisStore {
	return &RedisStore{rdb: rdb, shopID: shopID}
}

func (s *RedisStore) stateKey() string   { return fmt.Sprintf("shop:%s:state", s.shopID) }
func (s *RedisStore) orderSeqKey() string { return fmt.Sprintf("shop:%s:orders:seq", s.shopID) }
func (s *RedisStore) orderKey(id string) string {
	return fmt.Sprintf("shop:%s:order:%s", s.shopID, id)
}
func (s *RedisStore) orderIndexKey() string { return fmt.Sprintf("shop:%s:orders:index", s.shopID) }
func (s *RedisStore) ordersChannel() string { return fmt.Sprintf("shop:%s:orders:changed", s.shopID) }

// MergeState implements Store. Each top-level state field becomes one hash
// field holding its JSON encoding.
func (s *RedisStore) MergeState(ctx context.Context, state till.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	values := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		values[k] = string(v)
	}
	values["updatedAt"] = time.Now().UTC().Format(time.RFC3339Nano)
	return s.rdb.HSet(ctx, s.stateKey(), values).Err()
}

// LoadState implements Store.
func (s *RedisStore) LoadState(ctx context.Context) (till.State, bool, error) {
	var state till.State
	fields, err := s.rdb.HGetAll(ctx, s.stateKey()).Result()
	if err != nil {
		return state, false, err
	}
	if len(fields) == 0 {
		return state, false, nil
	}
	delete(fields, "updatedAt")
	doc := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		doc[k] = json.RawMessage(v)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return state, false, err
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return state, false, err
	}
	return state, true, nil
}

type orderDoc struct {
	till.Order
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateOrder implements Store.
func (s *RedisStore) CreateOrder(ctx context.Context, o till.Order) (string, error) {
	seq, err := s.rdb.Incr(ctx, s.orderSeqKey()).Result()
	if err != nil {
		return "", err
	}
	id := fmt.Sprintf("o%d", seq)
	now := time.Now().UTC()
	o.RemoteID = id
	raw, err := json.Marshal(orderDoc{Order: o, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		return "", err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.orderKey(id), raw, 0)
	pipe.ZAdd(ctx, s.orderIndexKey(), &redis.Z{Score: float64(now.UnixNano()), Member: id})
	pipe.Publish(ctx, s.ordersChannel(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// UpdateOrder implements Store. The whole document is rewritten; the creation
// index entry is untouched so ordering stays by creation time.
func (s *RedisStore) UpdateOrder(ctx context.Context, remoteID string, o till.Order) error {
	key := s.orderKey(remoteID)
	existing, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return fmt.Errorf("order document %s not found", remoteID)
	}
	if err != nil {
		return err
	}
	var doc orderDoc
	if err := json.Unmarshal(existing, &doc); err != nil {
		return err
	}
	o.RemoteID = remoteID
	doc.Order = o
	doc.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, key, raw, 0)
	pipe.Publish(ctx, s.ordersChannel(), remoteID)
	_, err = pipe.Exec(ctx)
	return err
}

// FindOrderByNo implements Store with a collection scan; order volumes are a
// single day's worth for one shop.
func (s *RedisStore) FindOrderByNo(ctx context.Context, orderNo int) (string, error) {
	ids, err := s.rdb.ZRevRange(ctx, s.orderIndexKey(), 0, -1).Result()
	if err != nil {
		return "", err
	}
	for _, id := range ids {
		raw, err := s.rdb.Get(ctx, s.orderKey(id)).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return "", err
		}
		var doc orderDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		if doc.OrderNo == orderNo {
			return id, nil
		}
	}
	return "", fmt.Errorf("no order document with orderNo %d", orderNo)
}

// ListOrders implements Store, newest first.
func (s *RedisStore) ListOrders(ctx context.Context) ([]till.Order, error) {
	ids, err := s.rdb.ZRevRange(ctx, s.orderIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	orders := make([]till.Order, 0, len(ids))
	for _, id := range ids {
		raw, err := s.rdb.Get(ctx, s.orderKey(id)).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, err
		}
		var doc orderDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		doc.Order.RemoteID = id
		orders = append(orders, doc.Order)
	}
	return orders, nil
}

// SubscribeOrders implements Store. The channel receives the current
// collection immediately and after every published change, and closes when
// ctx is cancelled.
func (s *RedisStore) SubscribeOrders(ctx context.Context) (<-chan []till.Order, error) {
	sub := s.rdb.Subscribe(ctx, s.ordersChannel())
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}
	out := make(chan []till.Order, 1)
	go func() {
		defer close(out)
		defer sub.Close()
		deliver := func() {
			orders, err := s.ListOrders(ctx)
			if err != nil {
				return
			}
			select {
			case out <- orders:
			case <-ctx.Done():
			}
		}
		deliver()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				deliver()
			}
		}
	}()
	return out, nil
}
