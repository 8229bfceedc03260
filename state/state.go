// Package state holds what the console shows across views: the short domain,
// the operator, their groups and which dialogs are open. A Store is created
// by the caller and passed to whatever needs it.
package state

import (
	"sync"

	"shortlink-admin/types"
)

// Modal names a dialog of the console.
type Modal string

const (
	ModalCreateLink  Modal = "createLink"
	ModalBatchCreate Modal = "batchCreate"
	ModalEditLink    Modal = "editLink"
	ModalQRCode      Modal = "qrCode"
	ModalStats       Modal = "stats"
	ModalGroup       Modal = "group"
)

// Store is safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	domain      string
	user        *types.User
	groups      []types.Group
	selectedGid string
	modals      map[Modal]bool
}

// New returns an empty store for the given short domain.
func New(domain string) *Store {
	return &Store{domain: domain, modals: make(map[Modal]bool)}
}

func (s *Store) Domain() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.domain
}

func (s *Store) SetDomain(domain string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.domain = domain
}

// User returns the logged in operator, if known.
func (s *Store) User() (types.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return types.User{}, false
	}
	return *s.user, true
}

func (s *Store) SetUser(u types.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
}

// Groups returns a copy of the known groups.
func (s *Store) Groups() []types.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Group, len(s.groups))
	copy(out, s.groups)
	return out
}

// SetGroups replaces the groups. A selection that no longer exists falls
// back to the first group.
func (s *Store) SetGroups(groups []types.Group) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups = append([]types.Group(nil), groups...)
	for _, g := range s.groups {
		if g.Gid == s.selectedGid {
			return
		}
	}
	s.selectedGid = ""
	if len(s.groups) > 0 {
		s.selectedGid = s.groups[0].Gid
	}
}

// SelectedGroup returns the group currently shown.
func (s *Store) SelectedGroup() (types.Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.groups {
		if g.Gid == s.selectedGid {
			return g, true
		}
	}
	return types.Group{}, false
}

// SelectGroup switches to gid and reports whether it is a known group.
func (s *Store) SelectGroup(gid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.groups {
		if g.Gid == gid {
			s.selectedGid = gid
			return true
		}
	}
	return false
}

func (s *Store) OpenModal(m Modal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modals[m] = true
}

func (s *Store) CloseModal(m Modal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.modals, m)
}

func (s *Store) ModalOpen(m Modal) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modals[m]
}

// Reset forgets the operator, their groups and every open dialog. The domain is kept.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.groups = nil
	s.selectedGid = ""
	s.modals = make(map[Modal]bool)
}
