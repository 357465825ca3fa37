package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"gridchat/domain"
	"gridchat/friendcards"
	"gridchat/internal"
	"gridchat/repositories"
	"gridchat/resolver"
)

// seedFriends is a fixed friend list standing in for the login snapshot.
type seedFriends struct {
	peers []domain.PeerID
}

func (s seedFriends) Friends() []domain.PeerID { return s.peers }

func (s seedFriends) IsFriend(peer domain.PeerID) bool {
	for _, p := range s.peers {
		if p == peer {
			return true
		}
	}
	return false
}

// Seeds a local badger store and name index with a small friend list,
// so the viewer and the cards inspector have something to show without
// a server session.
func main() {
	badgerPath := flag.String("badger", "/tmp/gridchat/badger", "Path to badger DB")
	blugePath := flag.String("bluge", "/tmp/gridchat/bluge", "Path to the name index")
	flag.Parse()

	log := internal.GetLoggerFromString("info")

	db, err := badger.Open(badger.DefaultOptions(*badgerPath).WithLoggingLevel(badger.WARNING))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Opening badger: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	nameIndex, err := bluge.OpenWriter(bluge.DefaultConfig(*blugePath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Opening name index: %v\n", err)
		os.Exit(1)
	}
	defer nameIndex.Close()

	samples := []string{
		"Alice Lumen",
		"Bob Vantive",
		"Charlie Oh",
		"Daria Ninetails",
	}

	names := resolver.NewService(log, nameIndex)
	friends := seedFriends{}
	for _, name := range samples {
		peer := uuid.New()
		friends.peers = append(friends.peers, peer)
		names.Learn(peer, name)
	}

	root := uuid.New()
	inventory := repositories.NewInventoryStore(db, log)
	sync := friendcards.NewSynchronizer(log, inventory, friends, root)
	sync.SyncFolders()
	if !sync.IsReady() {
		fmt.Fprintln(os.Stderr, "Folder sync never reached readiness")
		os.Exit(1)
	}

	fmt.Printf("Seeded %d friend cards under root %s\n", len(friends.peers), root)
	fmt.Printf("Run the viewer with INVENTORY_ROOT_ID=%s\n", root)
}
