/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package booking

import (
	"time"

	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/ledger"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/state"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/common/services/logging"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/common/utils/collections/iterators"
)

var logger = logging.MustGetLogger()

// CommissionList keeps booking commissions in the world state, keyed by agent then booking
// under the list namespace. The commission class is only carried in the payload.
type CommissionList struct {
	store *state.Store[*BookingCommission]
}

func NewCommissionList(namespace string) (*CommissionList, error) {
	if len(namespace) == 0 {
		return nil, errors.Wrapf(errors.Validation, "empty booking namespace")
	}
	store, err := state.NewStore[*BookingCommission](namespace, state.JSONCodec[BookingCommission, *BookingCommission]{}, state.WithClass(Class(namespace)))
	if err != nil {
		return nil, err
	}
	return &CommissionList{store: store}, nil
}

// New returns an offered commission stamped with the transaction time
func (l *CommissionList) New(ctx *ledger.Context, bookingID, agent string, amount float64) (*BookingCommission, error) {
	now, err := txTime(ctx)
	if err != nil {
		return nil, err
	}
	c := &BookingCommission{
		ObjectType:       l.store.Class(),
		BookingID:        bookingID,
		Agent:            agent,
		CommissionAmount: amount,
		Status:           Offered,
		CreatedTime:      now,
		UpdatedTime:      now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Add stores a commission the agent does not have yet for the booking
func (l *CommissionList) Add(ctx *ledger.Context, c *BookingCommission) error {
	ws := state.WorldState(ctx.Stub())
	exists, err := l.store.Exists(ws, c.KeyParts()...)
	if err != nil {
		return err
	}
	if exists {
		return errors.Kindf(errors.AlreadyExists, nil, "booking commission [%s] of agent [%s]", c.BookingID, c.Agent)
	}
	return l.store.Add(ws, c)
}

// Update overwrites the amount and status of an existing commission.
// The key and the creation time are kept.
func (l *CommissionList) Update(ctx *ledger.Context, bookingID, agent string, amount float64, status string) (*BookingCommission, error) {
	c, err := l.Get(ctx, bookingID, agent)
	if err != nil {
		return nil, err
	}
	now, err := txTime(ctx)
	if err != nil {
		return nil, err
	}
	c.CommissionAmount = amount
	c.Status = status
	c.UpdatedTime = now
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := l.store.Update(state.WorldState(ctx.Stub()), c); err != nil {
		return nil, err
	}
	logger.Debugf("commission [%s] of [%s] is now [%s]", bookingID, agent, status)
	return c, nil
}

func (l *CommissionList) Get(ctx *ledger.Context, bookingID, agent string) (*BookingCommission, error) {
	return l.store.Get(state.WorldState(ctx.Stub()), agent, bookingID)
}

func (l *CommissionList) Exists(ctx *ledger.Context, bookingID, agent string) (bool, error) {
	return l.store.Exists(state.WorldState(ctx.Stub()), agent, bookingID)
}

// Delete removes a commission, it fails with NotFound when there is none
func (l *CommissionList) Delete(ctx *ledger.Context, bookingID, agent string) error {
	ws := state.WorldState(ctx.Stub())
	exists, err := l.store.Exists(ws, agent, bookingID)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Kindf(errors.NotFound, nil, "booking commission [%s] of agent [%s]", bookingID, agent)
	}
	return l.store.Delete(ws, agent, bookingID)
}

// ByAgent returns the commissions of agent ordered by booking. Entries that do not decode are skipped.
func (l *CommissionList) ByAgent(ctx *ledger.Context, agent string) ([]*BookingCommission, error) {
	if len(agent) == 0 {
		return nil, errors.Wrapf(errors.Validation, "agent empty")
	}
	it, err := l.store.ScanPartial(state.WorldState(ctx.Stub()), agent)
	if err != nil {
		return nil, err
	}
	entries, err := iterators.ReadAllPointers[state.Entry[*BookingCommission]](it)
	if err != nil {
		return nil, err
	}
	return decoded(entries), nil
}

// All returns every stored entry of the namespace, whether it decodes or not
func (l *CommissionList) All(ctx *ledger.Context) ([]*CommissionEntry, error) {
	it, err := l.store.ScanAll(state.WorldState(ctx.Stub()))
	if err != nil {
		return nil, err
	}
	return iterators.ReadAllPointers(iterators.Map[state.Entry[*BookingCommission], CommissionEntry](it, func(e *state.Entry[*BookingCommission]) (*CommissionEntry, error) {
		if !e.Decoded() {
			return &CommissionEntry{Key: e.Key, Raw: string(e.Raw)}, nil
		}
		return &CommissionEntry{Key: e.Key, Record: e.Record}, nil
	}))
}

// Page returns at most pageSize commissions starting at bookmark
func (l *CommissionList) Page(ctx *ledger.Context, pageSize int32, bookmark string) (*CommissionPage, error) {
	page, err := l.store.ScanPage(state.WorldState(ctx.Stub()), pageSize, bookmark)
	if err != nil {
		return nil, err
	}
	return &CommissionPage{
		Commissions:         decoded(page.Entries),
		FetchedRecordsCount: page.Fetched,
		Bookmark:            page.Bookmark,
	}, nil
}

func decoded(entries []*state.Entry[*BookingCommission]) []*BookingCommission {
	commissions := make([]*BookingCommission, 0, len(entries))
	for _, e := range entries {
		if !e.Decoded() {
			logger.Warnf("skipping booking commission [%s]: %s", e.Key, e.DecodeErr)
			continue
		}
		commissions = append(commissions, e.Record)
	}
	return commissions
}

func txTime(ctx *ledger.Context) (string, error) {
	ts, err := ctx.TxTime()
	if err != nil {
		return "", err
	}
	return ts.Format(time.RFC3339), nil
}
