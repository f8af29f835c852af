package app

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ambergeldar/video-chat/internal/core"
	"github.com/ambergeldar/video-chat/internal/domain"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	fail   bool
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("send failed")
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {}

func (f *fakeConn) received() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func TestJoinCapacity(t *testing.T) {
	r := NewRooms()
	room := domain.RoomID("R1")

	if err := r.Join(room, "a", &fakeConn{}); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if err := r.Join(room, "b", &fakeConn{}); err != nil {
		t.Fatalf("second join: %v", err)
	}
	if err := r.Join(room, "c", &fakeConn{}); !errors.Is(err, domain.ErrRoomFull) {
		t.Errorf("third join: want ErrRoomFull, got %v", err)
	}
	if n := r.MemberCount(room); n != 2 {
		t.Errorf("member count after rejected join: want 2, got %d", n)
	}
}

func TestLeaveIdempotent(t *testing.T) {
	r := NewRooms()
	room := domain.RoomID("R1")

	if err := r.Join(room, "a", &fakeConn{}); err != nil {
		t.Fatalf("join: %v", err)
	}
	r.Leave(room, "a")
	r.Leave(room, "a")
	r.Leave("never-existed", "a")

	if n := r.MemberCount(room); n != 0 {
		t.Errorf("member count: want 0, got %d", n)
	}
}

func TestEmptyRoomIsCollected(t *testing.T) {
	r := NewRooms()
	room := domain.RoomID("R1")

	if err := r.Join(room, "a", &fakeConn{}); err != nil {
		t.Fatalf("join: %v", err)
	}
	r.Leave(room, "a")

	if got := r.List(); len(got) != 0 {
		t.Errorf("vacated room still listed: %v", got)
	}

	// A vacated ID behaves exactly like a brand new room.
	if err := r.Join(room, "b", &fakeConn{}); err != nil {
		t.Errorf("rejoin of vacated room: %v", err)
	}
}

func TestConcurrentJoinNeverOverfills(t *testing.T) {
	r := NewRooms()
	room := domain.RoomID("busy")

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = r.Join(room, core.SessionID(fmt.Sprintf("s%d", i)), &fakeConn{})
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, err := range errs {
		if err == nil {
			admitted++
		} else if !errors.Is(err, domain.ErrRoomFull) {
			t.Errorf("unexpected join error: %v", err)
		}
	}
	if admitted != 2 {
		t.Errorf("admitted: want 2, got %d", admitted)
	}
	if n := r.MemberCount(room); n != 2 {
		t.Errorf("member count: want 2, got %d", n)
	}
}

func TestBroadcastExcludesSenderAndIsolatesFailures(t *testing.T) {
	r := NewRooms()
	room := domain.RoomID("R1")
	bad := &fakeConn{fail: true}
	good := &fakeConn{}

	if err := r.Join(room, "bad", bad); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := r.Join(room, "good", good); err != nil {
		t.Fatalf("join: %v", err)
	}

	res := r.Broadcast(room, "", core.Frame("hello"))
	if res.SentTo != 1 {
		t.Errorf("sent_to: want 1, got %d", res.SentTo)
	}
	if len(res.Dropped) != 1 || res.Dropped[0] != "bad" {
		t.Errorf("dropped: want [bad], got %v", res.Dropped)
	}
	if good.received() != 1 {
		t.Errorf("good conn frames: want 1, got %d", good.received())
	}

	res = r.Broadcast(room, "good", core.Frame("again"))
	if good.received() != 1 {
		t.Errorf("sender received its own broadcast")
	}
	if res.SentTo != 0 {
		t.Errorf("sent_to with failing peer: want 0, got %d", res.SentTo)
	}
}
