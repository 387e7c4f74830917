package reconcile

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpkit/internal/authenticator/entity"
)

// State is the sync state of a local entry.
type State uint8

const (
	StateSynced State = iota
	StatePendingSync
	StatePendingToDelete
)

func (s State) String() string {
	switch s {
	case StateSynced:
		return "Synced"
	case StatePendingSync:
		return "PendingSync"
	case StatePendingToDelete:
		return "PendingToDelete"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

type Operation uint8

const (
	// OperationUpsert stores the remote entry locally.
	OperationUpsert Operation = iota
	// OperationPush uploads the local entry.
	OperationPush
	// OperationDeleteLocal removes the local entry only.
	OperationDeleteLocal
	// OperationDeleteLocalAndRemote removes the entry on both sides.
	OperationDeleteLocalAndRemote
)

func (o Operation) String() string {
	switch o {
	case OperationUpsert:
		return "Upsert"
	case OperationPush:
		return "Push"
	case OperationDeleteLocal:
		return "DeleteLocal"
	case OperationDeleteLocalAndRemote:
		return "DeleteLocalAndRemote"
	default:
		return fmt.Sprintf("Operation(%d)", o)
	}
}

// RemoteEntry is an entry as stored by the sync server. Times are unix
// milliseconds.
type RemoteEntry struct {
	RemoteID   string
	Entry      entity.Entry
	ModifyTime int64
}

// LocalEntry is an entry as stored on the device. ModifyTime is the last
// remote modify time seen for it; LocalModifyTime is set while a local edit
// has not been pushed.
type LocalEntry struct {
	Entry           entity.Entry
	State           State
	ModifyTime      int64
	LocalModifyTime *int64
}

// EntryOperation is one step for the caller to apply. RemoteID is empty for
// entries that have no remote counterpart.
type EntryOperation struct {
	RemoteID  string
	Entry     entity.Entry
	Operation Operation
}

// Reconcile compares the remote and local snapshots, matched by entry id.
//
// Remote entries are visited first in input order, then local entries with no
// remote counterpart in input order. The result keeps that order.
func Reconcile(remote []RemoteEntry, local []LocalEntry) []EntryOperation {
	byID := lo.KeyBy(local, func(l LocalEntry) string { return l.Entry.ID })
	seen := make(map[string]struct{}, len(remote))

	ops := make([]EntryOperation, 0, len(remote)+len(local))
	for _, r := range remote {
		seen[r.Entry.ID] = struct{}{}

		l, ok := byID[r.Entry.ID]
		if !ok {
			ops = append(ops, upsert(r))
			continue
		}

		if op, ok := resolve(r, l); ok {
			ops = append(ops, op)
		}
	}

	for _, l := range local {
		if _, ok := seen[l.Entry.ID]; ok {
			continue
		}

		switch l.State {
		case StatePendingSync:
			ops = append(ops, EntryOperation{Entry: l.Entry, Operation: OperationPush})
		case StateSynced, StatePendingToDelete:
			ops = append(ops, EntryOperation{Entry: l.Entry, Operation: OperationDeleteLocal})
		}
	}

	return ops
}

// resolve handles an entry present on both sides. ok is false when nothing
// needs to happen.
func resolve(r RemoteEntry, l LocalEntry) (EntryOperation, bool) {
	switch l.State {
	case StateSynced:
		if l.Entry.Equal(r.Entry) {
			return EntryOperation{}, false
		}
		return upsert(r), true

	case StatePendingSync:
		if pushWins(r, l) {
			return EntryOperation{RemoteID: r.RemoteID, Entry: l.Entry, Operation: OperationPush}, true
		}
		return upsert(r), true

	case StatePendingToDelete:
		return EntryOperation{RemoteID: r.RemoteID, Entry: r.Entry, Operation: OperationDeleteLocalAndRemote}, true

	default:
		return EntryOperation{}, false
	}
}

// pushWins decides a conflict between a pending local edit and the remote copy.
func pushWins(r RemoteEntry, l LocalEntry) bool {
	if r.ModifyTime == l.ModifyTime {
		// The remote copy has not moved since we last saw it.
		if l.LocalModifyTime != nil {
			return true
		}
		// Same content under a new remote id: take the remote to link them.
		return !l.Entry.Equal(r.Entry)
	}

	if l.LocalModifyTime == nil {
		return false
	}
	return *l.LocalModifyTime >= r.ModifyTime
}

func upsert(r RemoteEntry) EntryOperation {
	return EntryOperation{RemoteID: r.RemoteID, Entry: r.Entry, Operation: OperationUpsert}
}
