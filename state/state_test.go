package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"shortlink-admin/types"
)

func TestStore(t *testing.T) {
	s := New("nurl.ink")
	assert.Equal(t, "nurl.ink", s.Domain())

	_, ok := s.User()
	assert.False(t, ok)
	s.SetUser(types.User{Username: "alice"})
	u, ok := s.User()
	assert.True(t, ok)
	assert.Equal(t, "alice", u.Username)

	t.Run("groups and selection", func(t *testing.T) {
		s.SetGroups([]types.Group{{Gid: "a"}, {Gid: "b"}})
		g, ok := s.SelectedGroup()
		assert.True(t, ok)
		assert.Equal(t, "a", g.Gid, "first group is selected by default")

		assert.True(t, s.SelectGroup("b"))
		assert.False(t, s.SelectGroup("zzz"))
		s.SetGroups([]types.Group{{Gid: "c"}, {Gid: "b"}})
		g, _ = s.SelectedGroup()
		assert.Equal(t, "b", g.Gid, "existing selection survives a refresh")

		s.SetGroups([]types.Group{{Gid: "c"}})
		g, _ = s.SelectedGroup()
		assert.Equal(t, "c", g.Gid)

		groups := s.Groups()
		groups[0].Name = "mutated"
		assert.Empty(t, s.Groups()[0].Name, "Groups returns a copy")
	})

	t.Run("modals", func(t *testing.T) {
		assert.False(t, s.ModalOpen(ModalCreateLink))
		s.OpenModal(ModalCreateLink)
		assert.True(t, s.ModalOpen(ModalCreateLink))
		s.CloseModal(ModalCreateLink)
		assert.False(t, s.ModalOpen(ModalCreateLink))
	})

	t.Run("reset", func(t *testing.T) {
		s.OpenModal(ModalStats)
		s.Reset()
		_, ok := s.User()
		assert.False(t, ok)
		assert.Empty(t, s.Groups())
		assert.False(t, s.ModalOpen(ModalStats))
		assert.Equal(t, "nurl.ink", s.Domain())
	})

	t.Run("independent instances", func(t *testing.T) {
		other := New("x.io")
		other.SetUser(types.User{Username: "bob"})
		_, ok := s.User()
		assert.False(t, ok)
	})
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := New("nurl.ink")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetGroups([]types.Group{{Gid: "a"}, {Gid: "b"}})
			s.OpenModal(ModalGroup)
		}()
		go func() {
			defer wg.Done()
			s.SelectGroup("b")
			_ = s.Groups()
			_ = s.ModalOpen(ModalGroup)
		}()
	}
	wg.Wait()
	assert.Len(t, s.Groups(), 2)
}
