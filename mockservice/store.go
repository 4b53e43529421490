package mockservice

import (
	"sync"

	"github.com/contract-tests/items-contract-tests/servicedef"
)

type itemStore struct {
	items map[servicedef.ItemID]servicedef.Item
	order []servicedef.ItemID
	lock  sync.Mutex
}

func newItemStore() *itemStore {
	return &itemStore{items: make(map[servicedef.ItemID]servicedef.Item)}
}

func (s *itemStore) add(item servicedef.Item) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.items[item.ID] = item
	s.order = append(s.order, item.ID)
}

func (s *itemStore) get(id servicedef.ItemID) (servicedef.Item, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	item, ok := s.items[id]
	return item, ok
}

func (s *itemStore) put(item servicedef.Item) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		return false
	}
	s.items[item.ID] = item
	return true
}

func (s *itemStore) remove(id servicedef.ItemID) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// list returns one page of an owner's items in creation order, and the owner's total count.
func (s *itemStore) list(ownerID string, offset, limit int) ([]servicedef.Item, int) {
	s.lock.Lock()
	defer s.lock.Unlock()
	page := []servicedef.Item{}
	count := 0
	for _, id := range s.order {
		item := s.items[id]
		if item.OwnerID != ownerID {
			continue
		}
		if count >= offset && len(page) < limit {
			page = append(page, item)
		}
		count++
	}
	return page, count
}

func (s *itemStore) count() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.items)
}
