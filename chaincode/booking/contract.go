/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package booking

import (
	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/config"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/ledger"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// ContractName is the name clients prefix transactions with, as in BookingCommission:RetrieveBookingCommission
const ContractName = "BookingCommission"

// Contract records the commissions agents earn on bookings
type Contract struct {
	contractapi.Contract

	list      *CommissionList
	peerMSPID ledger.PeerMSPIDFunc
}

func NewContract(c *config.Config) (*Contract, error) {
	list, err := NewCommissionList(c.Booking.Namespace)
	if err != nil {
		return nil, err
	}
	contract := &Contract{list: list, peerMSPID: c.PeerMSPID()}
	contract.Name = ContractName
	contract.Info.Title = "BookingCommissionTransfer"
	contract.Info.Description = "Smart contract for apply booking commission"
	contract.Info.Version = "1.0.0"
	return contract, nil
}

func (s *Contract) GetEvaluateTransactions() []string {
	return []string{
		"RetrieveBookingCommission",
		"RetrieveBookingCommissionsByAgent",
		"RetrieveAllBookingCommissions",
		"RetrieveBookingCommissionsWithPagination",
		"BookingCommissionExists",
	}
}

func (s *Contract) context(ctx contractapi.TransactionContextInterface) *ledger.Context {
	return ledger.FromTransactionContext(ctx, s.peerMSPID)
}

// CreateBookingCommission offers agent a commission on a booking
func (s *Contract) CreateBookingCommission(ctx contractapi.TransactionContextInterface, bookingID string, commissionAmount float64, agent string) error {
	lctx := s.context(ctx)
	c, err := s.list.New(lctx, bookingID, agent, commissionAmount)
	if err != nil {
		return err
	}
	return s.list.Add(lctx, c)
}

// UpdateBookingCommission sets the amount and status of an existing commission
func (s *Contract) UpdateBookingCommission(ctx contractapi.TransactionContextInterface, bookingID string, commissionAmount float64, agent string, status string) error {
	_, err := s.list.Update(s.context(ctx), bookingID, agent, commissionAmount, status)
	return notExisting(err, bookingID, agent)
}

func (s *Contract) DeleteBookingCommission(ctx contractapi.TransactionContextInterface, bookingID string, agent string) error {
	return notExisting(s.list.Delete(s.context(ctx), bookingID, agent), bookingID, agent)
}

func (s *Contract) RetrieveBookingCommission(ctx contractapi.TransactionContextInterface, bookingID string, agent string) (*BookingCommission, error) {
	c, err := s.list.Get(s.context(ctx), bookingID, agent)
	if err != nil {
		return nil, notExisting(err, bookingID, agent)
	}
	return c, nil
}

func (s *Contract) RetrieveBookingCommissionsByAgent(ctx contractapi.TransactionContextInterface, agent string) ([]*BookingCommission, error) {
	return s.list.ByAgent(s.context(ctx), agent)
}

// RetrieveAllBookingCommissions returns every entry of the namespace, values that are not commissions included
func (s *Contract) RetrieveAllBookingCommissions(ctx contractapi.TransactionContextInterface) ([]*CommissionEntry, error) {
	return s.list.All(s.context(ctx))
}

func (s *Contract) RetrieveBookingCommissionsWithPagination(ctx contractapi.TransactionContextInterface, pageSize int32, bookmark string) (*CommissionPage, error) {
	return s.list.Page(s.context(ctx), pageSize, bookmark)
}

func (s *Contract) BookingCommissionExists(ctx contractapi.TransactionContextInterface, bookingID string, agent string) (bool, error) {
	return s.list.Exists(s.context(ctx), bookingID, agent)
}

func notExisting(err error, bookingID, agent string) error {
	if errors.Kind(err) == errors.NotFound {
		return errors.Kindf(errors.NotFound, nil, "booking commission [%s] of agent [%s] does not exist", bookingID, agent)
	}
	return err
}
