// Package admin holds the admin console's view of trader accounts.
package admin

import (
	"context"
	"fmt"
	"sync"

	"github.com/junaidrashid-git/bidaya-api/models"
)

// Backend is the user-management half of the API. *client.Client
// satisfies it.
type Backend interface {
	PendingUsers(ctx context.Context) ([]models.User, error)
	ApprovedTraders(ctx context.Context) ([]models.User, error)
	BannedUsers(ctx context.Context) ([]models.User, error)
	Approve(ctx context.Context, id uint) error
	Reject(ctx context.Context, id uint) error
	Ban(ctx context.Context, id uint) error
	Unban(ctx context.Context, id uint) error
	Promote(ctx context.Context, id uint) error
	SetNickname(ctx context.Context, id uint, nickname string) error
}

// Entry is one account as the console shows it. Nickname is what the
// backend last returned; PendingNickname is an edit not yet reconciled by a
// refetch.
type Entry struct {
	User            models.User
	Nickname        string
	PendingNickname *string
}

// Display is the nickname to show, preferring an unconfirmed edit.
func (e Entry) Display() string {
	if e.PendingNickname != nil {
		return *e.PendingNickname
	}
	return e.Nickname
}

type Roster struct {
	backend Backend

	mu      sync.RWMutex
	pending []Entry
	traders []Entry
	banned  []Entry
	edits   map[uint]edit

	// seq numbers edits; clock ticks each time an edit request completes.
	seq   uint64
	clock uint64
}

// edit is an optimistic nickname. done is the clock value when its request
// succeeded, zero while still in flight.
type edit struct {
	value string
	seq   uint64
	done  uint64
}

func NewRoster(backend Backend) *Roster {
	return &Roster{backend: backend, edits: map[uint]edit{}}
}

// Refresh refetches all three lists. The refetched value replaces every
// edit whose request had completed before the fetch began; edits still in
// flight stay pending.
func (r *Roster) Refresh(ctx context.Context) error {
	r.mu.RLock()
	started := r.clock
	r.mu.RUnlock()

	pending, err := r.backend.PendingUsers(ctx)
	if err != nil {
		return fmt.Errorf("pending users: %w", err)
	}
	traders, err := r.backend.ApprovedTraders(ctx)
	if err != nil {
		return fmt.Errorf("approved traders: %w", err)
	}
	banned, err := r.backend.BannedUsers(ctx)
	if err != nil {
		return fmt.Errorf("banned users: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.edits {
		if e.done != 0 && e.done <= started {
			delete(r.edits, id)
		}
	}
	r.pending = r.entries(pending)
	r.traders = r.entries(traders)
	r.banned = r.entries(banned)
	return nil
}

func (r *Roster) entries(users []models.User) []Entry {
	out := make([]Entry, 0, len(users))
	for _, u := range users {
		e := Entry{User: u, Nickname: u.AdminNickname}
		if ed, ok := r.edits[u.ID]; ok {
			nick := ed.value
			e.PendingNickname = &nick
		}
		out = append(out, e)
	}
	return out
}

func (r *Roster) Pending() []Entry { return r.snapshot(&r.pending) }
func (r *Roster) Traders() []Entry { return r.snapshot(&r.traders) }
func (r *Roster) Banned() []Entry  { return r.snapshot(&r.banned) }

func (r *Roster) snapshot(list *[]Entry) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, len(*list))
	copy(out, *list)
	return out
}

// SetNickname shows nickname immediately and sends it. A failed request
// rolls the pending edit back unless a newer edit replaced it meanwhile.
func (r *Roster) SetNickname(ctx context.Context, id uint, nickname string) error {
	r.mu.Lock()
	r.seq++
	mine := r.seq
	prev, hadPrev := r.edits[id]
	r.edits[id] = edit{value: nickname, seq: mine}
	r.relabel(id)
	r.mu.Unlock()

	err := r.backend.SetNickname(ctx, id, nickname)

	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.edits[id]
	if !ok || cur.seq != mine {
		if err != nil {
			return fmt.Errorf("set nickname: %w", err)
		}
		return nil
	}
	if err != nil {
		if hadPrev {
			r.edits[id] = prev
		} else {
			delete(r.edits, id)
		}
		r.relabel(id)
		return fmt.Errorf("set nickname: %w", err)
	}
	r.clock++
	cur.done = r.clock
	r.edits[id] = cur
	return nil
}

// relabel re-applies edits for id to the cached lists. Caller holds mu.
func (r *Roster) relabel(id uint) {
	for _, list := range []*[]Entry{&r.pending, &r.traders, &r.banned} {
		for i := range *list {
			e := &(*list)[i]
			if e.User.ID != id {
				continue
			}
			e.PendingNickname = nil
			if ed, ok := r.edits[id]; ok {
				nick := ed.value
				e.PendingNickname = &nick
			}
		}
	}
}

// Approve, Reject, Ban, Unban and Promote call the backend and refetch.
func (r *Roster) Approve(ctx context.Context, id uint) error {
	return r.act(ctx, "approve", id, r.backend.Approve)
}

func (r *Roster) Reject(ctx context.Context, id uint) error {
	return r.act(ctx, "reject", id, r.backend.Reject)
}

func (r *Roster) Ban(ctx context.Context, id uint) error {
	return r.act(ctx, "ban", id, r.backend.Ban)
}

func (r *Roster) Unban(ctx context.Context, id uint) error {
	return r.act(ctx, "unban", id, r.backend.Unban)
}

func (r *Roster) Promote(ctx context.Context, id uint) error {
	return r.act(ctx, "promote", id, r.backend.Promote)
}

func (r *Roster) act(ctx context.Context, name string, id uint, call func(context.Context, uint) error) error {
	if err := call(ctx, id); err != nil {
		return fmt.Errorf("%s user %d: %w", name, id, err)
	}
	return r.Refresh(ctx)
}
