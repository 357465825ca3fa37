//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"github.com/google/uuid"

	"gridchat/domain"
)

// RelationshipObserver is the single-method contract every observer of
// the relationship tracker implements, global or peer-scoped. The mask
// is the OR of all change kinds accumulated since the last pass.
type RelationshipObserver interface {
	Changed(mask domain.ChangeMask)
}

// ObserverFunc adapts a plain function to RelationshipObserver.
type ObserverFunc func(mask domain.ChangeMask)

func (f ObserverFunc) Changed(mask domain.ChangeMask) { f(mask) }

// Transport is the outbound side of the message system: the tracker
// pushes local rights changes to the server through it.
type Transport interface {
	SendRightsGrant(ctx context.Context, peer domain.PeerID, rights domain.Rights) error
}

// InventoryItem is a calling card as the inventory service returns it.
// Cards are matched by Creator (the peer identity), never by ID, since
// item IDs are assigned server-side.
type InventoryItem struct {
	ID      uuid.UUID
	Parent  uuid.UUID
	Creator domain.PeerID
	Name    string
}

// Inventory is the persisted folder/item store the friend card
// synchronizer reconciles against. Exactly these operations are
// consumed; completions may fire synchronously if cached and always
// fire exactly once, carrying the storage error when the write failed.
type Inventory interface {
	FetchCategoryDescendants(category uuid.UUID, onComplete func(err error))
	CreateCategory(parent uuid.UUID, name string, onComplete func(created uuid.UUID, err error))
	CreateItem(parent uuid.UUID, owner domain.PeerID, onComplete func(item InventoryItem, err error))
	DeleteItem(item uuid.UUID) error
	FindCategoryByName(parent uuid.UUID, name string) (uuid.UUID, bool)
	ItemsUnder(category uuid.UUID) []InventoryItem
	ChildCategories(parent uuid.UUID) []uuid.UUID
}

// NameResolver resolves a peer to a display name. Cache-backed: the
// callback may be invoked synchronously when the name is already known.
type NameResolver interface {
	ResolveDisplayName(peer domain.PeerID, onComplete func(name string))
}

// AvatarChecker answers whether a participant is a real avatar or a
// telephony bridge endpoint.
type AvatarChecker interface {
	IsAvatar(peer domain.PeerID) bool
}

// AvatarCheckerFunc adapts a plain function to AvatarChecker.
type AvatarCheckerFunc func(peer domain.PeerID) bool

func (f AvatarCheckerFunc) IsAvatar(peer domain.PeerID) bool { return f(peer) }

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
