package repositories

import (
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"gridchat/contract"
	"gridchat/domain"
	apperrors "gridchat/errors"
)

// category is the persisted form of an inventory folder.
type category struct {
	ID     uuid.UUID `cbor:"1,keyasint"`
	Parent uuid.UUID `cbor:"2,keyasint"`
	Name   string    `cbor:"3,keyasint"`
}

// card is the persisted form of a calling card item. Creator carries
// the peer identity; the item ID is storage-assigned and never used
// for matching.
type card struct {
	ID      uuid.UUID `cbor:"1,keyasint"`
	Parent  uuid.UUID `cbor:"2,keyasint"`
	Creator uuid.UUID `cbor:"3,keyasint"`
	Name    string    `cbor:"4,keyasint"`
}

// InventoryStore is a BadgerDB-backed implementation of the inventory
// contract. Keys are "cat:{parent}:{id}" and "item:{parent}:{id}" so a
// prefix scan yields one folder's direct descendants. Fetch
// completions fire synchronously once the scan lands in the cache,
// which the consumers must tolerate anyway.
type InventoryStore struct {
	db  *badger.DB
	log *slog.Logger

	categories map[uuid.UUID][]category                // direct child folders per parent
	items      map[uuid.UUID][]contract.InventoryItem // direct items per parent
	itemParent map[uuid.UUID]uuid.UUID                // reverse index for deletes
}

func NewInventoryStore(db *badger.DB, log *slog.Logger) *InventoryStore {
	return &InventoryStore{
		db:         db,
		log:        log,
		categories: make(map[uuid.UUID][]category),
		items:      make(map[uuid.UUID][]contract.InventoryItem),
		itemParent: make(map[uuid.UUID]uuid.UUID),
	}
}

// FetchCategoryDescendants loads one folder's direct descendants from
// disk into the cache and completes. Storage errors are handed to the
// completion; the caller owns the retry policy.
func (s *InventoryStore) FetchCategoryDescendants(categoryID uuid.UUID, onComplete func(err error)) {
	err := s.db.View(func(txn *badger.Txn) error {
		if err := s.scanCategories(txn, categoryID); err != nil {
			return err
		}
		return s.scanItems(txn, categoryID)
	})
	onComplete(err)
}

func (s *InventoryStore) scanCategories(txn *badger.Txn, parent uuid.UUID) error {
	prefix := []byte(fmt.Sprintf("cat:%s:", parent))
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	var children []category
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		err := it.Item().Value(func(value []byte) error {
			var cat category
			if err := cbor.Unmarshal(value, &cat); err != nil {
				return err
			}
			children = append(children, cat)
			return nil
		})
		if err != nil {
			return err
		}
	}
	s.categories[parent] = children
	return nil
}

func (s *InventoryStore) scanItems(txn *badger.Txn, parent uuid.UUID) error {
	prefix := []byte(fmt.Sprintf("item:%s:", parent))
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	var cards []contract.InventoryItem
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		err := it.Item().Value(func(value []byte) error {
			var c card
			if err := cbor.Unmarshal(value, &c); err != nil {
				return err
			}
			cards = append(cards, contract.InventoryItem{
				ID: c.ID, Parent: c.Parent, Creator: c.Creator, Name: c.Name,
			})
			return nil
		})
		if err != nil {
			return err
		}
	}
	s.items[parent] = cards
	for _, c := range cards {
		s.itemParent[c.ID] = parent
	}
	return nil
}

// CreateCategory persists a new folder under parent and completes with
// its storage-assigned ID. The completion always fires; a storage
// error is handed to it and the caller owns the retry policy.
func (s *InventoryStore) CreateCategory(parent uuid.UUID, name string, onComplete func(created uuid.UUID, err error)) {
	cat := category{ID: uuid.New(), Parent: parent, Name: name}
	if err := s.put(fmt.Sprintf("cat:%s:%s", parent, cat.ID), cat); err != nil {
		onComplete(uuid.Nil, err)
		return
	}
	s.categories[parent] = append(s.categories[parent], cat)
	onComplete(cat.ID, nil)
}

// CreateItem persists a calling card for owner under parent. Storage
// errors are handed to the completion, which always fires.
func (s *InventoryStore) CreateItem(parent uuid.UUID, owner domain.PeerID, onComplete func(item contract.InventoryItem, err error)) {
	c := card{ID: uuid.New(), Parent: parent, Creator: owner, Name: fmt.Sprintf("Calling card: %s", owner)}
	if err := s.put(fmt.Sprintf("item:%s:%s", parent, c.ID), c); err != nil {
		onComplete(contract.InventoryItem{}, err)
		return
	}
	item := contract.InventoryItem{ID: c.ID, Parent: c.Parent, Creator: c.Creator, Name: c.Name}
	s.items[parent] = append(s.items[parent], item)
	s.itemParent[c.ID] = parent
	onComplete(item, nil)
}

// DeleteItem removes a card by its storage ID.
func (s *InventoryStore) DeleteItem(item uuid.UUID) error {
	parent, ok := s.itemParent[item]
	if !ok {
		return apperrors.ErrItemNotFound
	}
	key := fmt.Sprintf("item:%s:%s", parent, item)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return err
	}
	delete(s.itemParent, item)
	s.items[parent] = lo.Reject(s.items[parent], func(it contract.InventoryItem, _ int) bool {
		return it.ID == item
	})
	return nil
}

// FindCategoryByName returns the child folder of parent with the given
// name. More than one match is inconsistent server state: it is logged
// and the first is picked deterministically for this cache view.
func (s *InventoryStore) FindCategoryByName(parent uuid.UUID, name string) (uuid.UUID, bool) {
	matches := lo.Filter(s.categories[parent], func(cat category, _ int) bool {
		return cat.Name == name
	})
	switch len(matches) {
	case 0:
		return uuid.Nil, false
	case 1:
		return matches[0].ID, true
	default:
		s.log.Warn("Multiple folders share a singleton name, picking first",
			"parent", parent, "name", name, "count", len(matches))
		return matches[0].ID, true
	}
}

// ItemsUnder returns the cached direct items of a folder. Callers get
// their own slice; the cache is never aliased out.
func (s *InventoryStore) ItemsUnder(categoryID uuid.UUID) []contract.InventoryItem {
	items := make([]contract.InventoryItem, len(s.items[categoryID]))
	copy(items, s.items[categoryID])
	return items
}

// ChildCategories returns the cached direct child folder IDs.
func (s *InventoryStore) ChildCategories(parent uuid.UUID) []uuid.UUID {
	return lo.Map(s.categories[parent], func(cat category, _ int) uuid.UUID {
		return cat.ID
	})
}

func (s *InventoryStore) put(key string, value any) error {
	bytes, err := cbor.Marshal(value)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}
