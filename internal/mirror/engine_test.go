package mirror

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tillpos/internal/till"
)

// fakeStore records every call and can be told to fail.
type fakeStore struct {
	mu sync.Mutex

	merges      []till.State
	creates     []till.Order
	updates     map[string]till.Order
	byNo        map[int]string
	remoteState *till.State
	ordersCh    chan []till.Order

	failMerge  error
	failCreate error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		updates: map[string]till.Order{},
		byNo:    map[int]string{},
	}
}

func (f *fakeStore) MergeState(ctx context.Context, s till.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMerge != nil {
		return f.failMerge
	}
	f.merges = append(f.merges, s)
	return nil
}

func (f *fakeStore) LoadState(ctx context.Context) (till.State, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.remoteState == nil {
		return till.State{}, false, nil
	}
	return *f.remoteState, true, nil
}

func (f *fakeStore) CreateOrder(ctx context.Context, o till.Order) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return "", f.failCreate
	}
	f.creates = append(f.creates, o)
	id := fmt.Sprintf("o%d", len(f.creates))
	f.byNo[o.OrderNo] = id
	return id, nil
}

func (f *fakeStore) UpdateOrder(ctx context.Context, remoteID string, o till.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates[remoteID] = o
	return nil
}

func (f *fakeStore) FindOrderByNo(ctx context.Context, orderNo int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byNo[orderNo]
	if !ok {
		return "", errors.New("order not mirrored")
	}
	return id, nil
}

func (f *fakeStore) ListOrders(ctx context.Context) ([]till.Order, error) {
	return nil, nil
}

func (f *fakeStore) SubscribeOrders(ctx context.Context) (<-chan []till.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ordersCh = make(chan []till.Order, 4)
	return f.ordersCh, nil
}

func (f *fakeStore) mergeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.merges)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestEngine_DebounceCoalescesBursts(t *testing.T) {
	store := newFakeStore()
	e := NewEngine(store, WithDebounce(40*time.Millisecond))
	defer e.Close()

	// A burst of changes inside the quiet window lands as one write.
	for i := 1; i <= 5; i++ {
		e.StateChanged(till.State{NextOrderNo: i})
	}

	waitFor(t, func() bool { return store.mergeCount() == 1 })
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, store.mergeCount())

	store.mu.Lock()
	pushed := store.merges[0]
	store.mu.Unlock()
	assert.Equal(t, 5, pushed.NextOrderNo, "only the latest snapshot survives the window")

	status := e.Status()
	assert.NotNil(t, status.LastPushAt)
	assert.Empty(t, status.LastError)
}

func TestEngine_AutosyncOffDropsChanges(t *testing.T) {
	store := newFakeStore()
	e := NewEngine(store, WithDebounce(10*time.Millisecond))
	defer e.Close()

	e.SetAutosync(false)
	e.StateChanged(till.State{NextOrderNo: 2})

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, store.mergeCount())
	assert.False(t, e.Status().AutosyncEnabled)
}

func TestEngine_MergeFailureSurfacesInStatus(t *testing.T) {
	store := newFakeStore()
	store.failMerge = errors.New("connection refused")
	e := NewEngine(store, WithDebounce(10*time.Millisecond))
	defer e.Close()

	e.StateChanged(till.State{NextOrderNo: 2})

	waitFor(t, func() bool { return e.Status().LastError != "" })
	assert.Contains(t, e.Status().LastError, "connection refused")
}

func TestEngine_OrderCommittedAttachesRemoteID(t *testing.T) {
	store := newFakeStore()
	e := NewEngine(store, WithDebounce(time.Hour))
	defer e.Close()

	var mu sync.Mutex
	attached := map[int]string{}
	e.Bind(func(orderNo int, remoteID string) {
		mu.Lock()
		attached[orderNo] = remoteID
		mu.Unlock()
	}, nil)

	e.OrderCommitted(till.Order{OrderNo: 1})

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return attached[1] != ""
	})
	mu.Lock()
	assert.Equal(t, "o1", attached[1])
	mu.Unlock()
}

func TestEngine_OrderSettledFallsBackToLookup(t *testing.T) {
	store := newFakeStore()
	store.byNo[3] = "o9"
	e := NewEngine(store, WithDebounce(time.Hour))
	defer e.Close()

	// No RemoteID on the local order: the engine must find it by number.
	e.OrderSettled(till.Order{OrderNo: 3, State: till.OrderDone})

	waitFor(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		_, ok := store.updates["o9"]
		return ok
	})

	store.mu.Lock()
	assert.Equal(t, till.OrderDone, store.updates["o9"].State)
	store.mu.Unlock()
}

func TestEngine_OrderSettledUsesKnownRemoteID(t *testing.T) {
	store := newFakeStore()
	e := NewEngine(store, WithDebounce(time.Hour))
	defer e.Close()

	e.OrderSettled(till.Order{OrderNo: 4, RemoteID: "o4", State: till.OrderVoided})

	waitFor(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		_, ok := store.updates["o4"]
		return ok
	})
}

func TestEngine_RealtimeReplacesOrders(t *testing.T) {
	store := newFakeStore()
	e := NewEngine(store, WithDebounce(time.Hour))
	defer e.Close()

	var mu sync.Mutex
	var got []till.Order
	e.Bind(nil, func(orders []till.Order) {
		mu.Lock()
		got = orders
		mu.Unlock()
	})

	require.NoError(t, e.SetRealtime(true))
	assert.True(t, e.Status().RealtimeEnabled)

	store.mu.Lock()
	store.ordersCh <- []till.Order{{OrderNo: 12}}
	store.mu.Unlock()

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1 && got[0].OrderNo == 12
	})

	require.NoError(t, e.SetRealtime(false))
	assert.False(t, e.Status().RealtimeEnabled)
}

func TestEngine_PullReadsRemoteState(t *testing.T) {
	store := newFakeStore()
	e := NewEngine(store, WithDebounce(time.Hour))
	defer e.Close()

	_, ok, err := e.Pull(context.Background())
	require.NoError(t, err)
	assert.False(t, ok, "nothing mirrored yet")

	store.mu.Lock()
	store.remoteState = &till.State{NextOrderNo: 9}
	store.mu.Unlock()

	state, ok, err := e.Pull(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 9, state.NextOrderNo)
	assert.NotNil(t, e.Status().LastPullAt)
}
