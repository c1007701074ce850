/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package ledgertest provides an in-memory ledger shared by simulated organizations.
// Transactions read committed state only and their writes become visible on Commit,
// as on a peer.
package ledgertest

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
	"github.com/hyperledger/fabric-protos-go/ledger/queryresult"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	implicitCollectionPrefix = "_implicit_org_"
	explicitCollectionSuffix = "PrivateCollection"
	// DefaultSharedCollection is defined by New with every org as member
	DefaultSharedCollection = "assetCollection"
)

// Event is a chaincode event emitted by a committed transaction
type Event struct {
	TxID    string
	Name    string
	Payload []byte
}

type collection struct {
	members map[string]bool
	data    map[string][]byte
}

// Ledger holds the committed world state, the private collections and the key histories
type Ledger struct {
	mu          sync.RWMutex
	state       map[string][]byte
	validation  map[string][]byte
	collections map[string]*collection
	history     map[string][]*queryresult.KeyModification
	events      []*Event
	seq         int
	clock       time.Time
}

// New returns an empty ledger. For every org it defines the implicit collection,
// the explicit <org>PrivateCollection, and the shared collection with all orgs as members.
func New(orgs ...string) *Ledger {
	l := &Ledger{
		state:       map[string][]byte{},
		validation:  map[string][]byte{},
		collections: map[string]*collection{},
		history:     map[string][]*queryresult.KeyModification{},
		clock:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, org := range orgs {
		l.DefineCollection(implicitCollectionPrefix+org, org)
		l.DefineCollection(org+explicitCollectionSuffix, org)
	}
	l.DefineCollection(DefaultSharedCollection, orgs...)
	return l
}

// DefineCollection creates or replaces the membership of a collection, keeping its data
func (l *Ledger) DefineCollection(name string, members ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.collections[name]
	if !ok {
		c = &collection{data: map[string][]byte{}}
		l.collections[name] = c
	}
	c.members = map[string]bool{}
	for _, m := range members {
		c.members[m] = true
	}
}

// NewTx opens a transaction endorsed by a peer of peerOrg and submitted by client
func (l *Ledger) NewTx(peerOrg string, client *Identity) *Tx {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	ts := l.clock.Add(time.Duration(seq) * time.Second)
	l.mu.Unlock()

	return &Tx{
		ledger:    l,
		peerOrg:   peerOrg,
		client:    client,
		txID:      fmt.Sprintf("%064x", sha256.Sum256([]byte(fmt.Sprintf("tx-%d", seq)))),
		timestamp: timestamppb.New(ts),
		transient: map[string][]byte{},
	}
}

// State returns the committed public value of key
func (l *Ledger) State(key string) []byte {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state[key]
}

// PrivateState returns the committed value of key in a collection, regardless of membership
func (l *Ledger) PrivateState(collection, key string) []byte {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.collections[collection]
	if !ok {
		return nil
	}
	return c.data[key]
}

// ValidationParameter returns the committed key-level endorsement policy of key
func (l *Ledger) ValidationParameter(key string) []byte {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.validation[key]
}

// Events returns the events of all committed transactions, oldest first
func (l *Ledger) Events() []*Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	res := make([]*Event, len(l.events))
	copy(res, l.events)
	return res
}

// PutRaw commits value under key outside any transaction. Useful to plant malformed entries.
func (l *Ledger) PutRaw(key string, value []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state[key] = value
}

func (l *Ledger) readCollection(peerOrg, name string) (*collection, error) {
	c, ok := l.collections[name]
	if !ok {
		return nil, errors.Errorf("collection [%s] is not defined", name)
	}
	if !c.members[peerOrg] {
		return nil, errors.Errorf("peer of [%s] is not a member of collection [%s]", peerOrg, name)
	}
	return c, nil
}

func (l *Ledger) hash(name, key string) ([]byte, error) {
	c, ok := l.collections[name]
	if !ok {
		return nil, errors.Errorf("collection [%s] is not defined", name)
	}
	v, ok := c.data[key]
	if !ok {
		return nil, nil
	}
	return Hash(v), nil
}

func (l *Ledger) commit(tx *Tx) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, w := range tx.writes {
		if len(w.collection) != 0 {
			if _, ok := l.collections[w.collection]; !ok {
				return errors.Errorf("collection [%s] is not defined", w.collection)
			}
		}
	}
	for _, w := range tx.writes {
		switch {
		case w.validation:
			l.validation[w.key] = w.value
		case len(w.collection) != 0:
			c := l.collections[w.collection]
			if w.delete {
				delete(c.data, w.key)
			} else {
				c.data[w.key] = w.value
			}
		default:
			if w.delete {
				delete(l.state, w.key)
				delete(l.validation, w.key)
			} else {
				l.state[w.key] = w.value
			}
			l.history[w.key] = append(l.history[w.key], &queryresult.KeyModification{
				TxId:      tx.txID,
				Value:     w.value,
				Timestamp: tx.timestamp,
				IsDelete:  w.delete,
			})
		}
	}
	if tx.event != nil {
		l.events = append(l.events, tx.event)
	}
	return nil
}

// sortedKeys returns the keys of m in [start, end), end empty meaning unbounded
func sortedKeys(m map[string][]byte, start, end string) []string {
	var keys []string
	for k := range m {
		if strings.Compare(k, start) < 0 {
			continue
		}
		if len(end) != 0 && strings.Compare(k, end) >= 0 {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
