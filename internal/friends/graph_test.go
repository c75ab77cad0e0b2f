package friends

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gamefriends/backend/internal/models"
	"github.com/gamefriends/backend/internal/repositories"
)

type recordingStore struct {
	upserts  []requestWrite
	updates  []requestWrite
	accepts  []requestWrite
	removals [][2]string

	incoming []string
	friends  []string
	err      error
}

type requestWrite struct {
	from, to, status string
}

func (s *recordingStore) UpsertRequest(_ context.Context, from, to, status string, _ time.Time) error {
	if s.err != nil {
		return s.err
	}
	s.upserts = append(s.upserts, requestWrite{from, to, status})
	return nil
}

func (s *recordingStore) UpdateRequestStatus(_ context.Context, from, to, status string) error {
	if s.err != nil {
		return s.err
	}
	s.updates = append(s.updates, requestWrite{from, to, status})
	return nil
}

func (s *recordingStore) AcceptRequest(_ context.Context, from, to, status string) error {
	if s.err != nil {
		return s.err
	}
	s.accepts = append(s.accepts, requestWrite{from, to, status})
	return nil
}

func (s *recordingStore) DeleteRelationship(_ context.Context, user, friend string) error {
	if s.err != nil {
		return s.err
	}
	s.removals = append(s.removals, [2]string{user, friend})
	return nil
}

func (s *recordingStore) ListIncomingRequests(_ context.Context, _, _ string) ([]string, error) {
	return s.incoming, s.err
}

func (s *recordingStore) ListFriends(_ context.Context, _ string) ([]string, error) {
	return s.friends, s.err
}

type stubUserFinder struct {
	known map[string]bool
	err   error
}

func (f stubUserFinder) FindByName(_ context.Context, name string) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	if !f.known[name] {
		return models.User{}, repositories.ErrNotFound
	}
	return models.User{Name: name}, nil
}

func TestGraphSendRequest(t *testing.T) {
	store := &recordingStore{}
	graph := NewGraph(store, stubUserFinder{known: map[string]bool{"bob": true}})

	if err := graph.SendRequest(context.Background(), "alice", "bob"); err != nil {
		t.Fatalf("send request: %v", err)
	}

	if len(store.upserts) != 1 {
		t.Fatalf("expected one upsert, got %d", len(store.upserts))
	}
	if got := store.upserts[0]; got != (requestWrite{"alice", "bob", "pending"}) {
		t.Fatalf("unexpected upsert %+v", got)
	}
}

func TestGraphSendRequestUnknownTarget(t *testing.T) {
	store := &recordingStore{}
	graph := NewGraph(store, stubUserFinder{})

	if err := graph.SendRequest(context.Background(), "alice", "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(store.upserts) != 0 {
		t.Fatalf("expected no writes for unknown target")
	}
}

func TestGraphSendRequestToSelf(t *testing.T) {
	// A request to oneself is not special cased: the (alice, alice) pair
	// moves to pending like any other registered target.
	store := &recordingStore{}
	graph := NewGraph(store, stubUserFinder{known: map[string]bool{"alice": true}})

	if err := graph.SendRequest(context.Background(), "alice", "alice"); err != nil {
		t.Fatalf("send request to self: %v", err)
	}
	if len(store.upserts) != 1 || store.upserts[0] != (requestWrite{"alice", "alice", "pending"}) {
		t.Fatalf("unexpected upserts %+v", store.upserts)
	}
}

func TestGraphSendRequestLookupFailure(t *testing.T) {
	boom := errors.New("db down")
	graph := NewGraph(&recordingStore{}, stubUserFinder{err: boom})

	if err := graph.SendRequest(context.Background(), "alice", "bob"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped lookup error, got %v", err)
	}
}

func TestGraphAccept(t *testing.T) {
	store := &recordingStore{}
	graph := NewGraph(store, stubUserFinder{})

	if err := graph.Accept(context.Background(), "bob", "alice"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	// The request row is keyed (from, to); bob accepting alice's request
	// targets the (alice, bob) pair.
	if len(store.accepts) != 1 || store.accepts[0] != (requestWrite{"alice", "bob", "accepted"}) {
		t.Fatalf("unexpected accept writes %+v", store.accepts)
	}
}

func TestGraphReject(t *testing.T) {
	store := &recordingStore{}
	graph := NewGraph(store, stubUserFinder{})

	if err := graph.Reject(context.Background(), "bob", "alice"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	if len(store.updates) != 1 || store.updates[0] != (requestWrite{"alice", "bob", "rejected"}) {
		t.Fatalf("unexpected reject writes %+v", store.updates)
	}
}

func TestGraphRemove(t *testing.T) {
	store := &recordingStore{}
	graph := NewGraph(store, stubUserFinder{})

	if err := graph.Remove(context.Background(), "alice", "bob"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if len(store.removals) != 1 || store.removals[0] != [2]string{"alice", "bob"} {
		t.Fatalf("unexpected removals %+v", store.removals)
	}
}

func TestGraphListOperations(t *testing.T) {
	store := &recordingStore{incoming: []string{"carol"}, friends: []string{"bob"}}
	graph := NewGraph(store, stubUserFinder{})

	incoming, err := graph.ListIncoming(context.Background(), "alice")
	if err != nil || len(incoming) != 1 || incoming[0] != "carol" {
		t.Fatalf("unexpected incoming %v (err %v)", incoming, err)
	}

	friends, err := graph.ListFriends(context.Background(), "alice")
	if err != nil || len(friends) != 1 || friends[0] != "bob" {
		t.Fatalf("unexpected friends %v (err %v)", friends, err)
	}
}

func TestGraphStoreFailuresPropagate(t *testing.T) {
	boom := errors.New("db down")
	graph := NewGraph(&recordingStore{err: boom}, stubUserFinder{known: map[string]bool{"bob": true}})
	ctx := context.Background()

	if err := graph.SendRequest(ctx, "alice", "bob"); !errors.Is(err, boom) {
		t.Fatalf("send: expected store error, got %v", err)
	}
	if err := graph.Accept(ctx, "bob", "alice"); !errors.Is(err, boom) {
		t.Fatalf("accept: expected store error, got %v", err)
	}
	if err := graph.Reject(ctx, "bob", "alice"); !errors.Is(err, boom) {
		t.Fatalf("reject: expected store error, got %v", err)
	}
	if err := graph.Remove(ctx, "alice", "bob"); !errors.Is(err, boom) {
		t.Fatalf("remove: expected store error, got %v", err)
	}
	if _, err := graph.ListIncoming(ctx, "alice"); !errors.Is(err, boom) {
		t.Fatalf("incoming: expected store error, got %v", err)
	}
	if _, err := graph.ListFriends(ctx, "alice"); !errors.Is(err, boom) {
		t.Fatalf("friends: expected store error, got %v", err)
	}
}
