/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package booking

import (
	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
)

// Statuses of a booking commission
const (
	Offered   = "OF"
	Booked    = "BK"
	Paid      = "PD"
	Cancelled = "CX"
)

var statuses = map[string]struct{}{
	Offered:   {},
	Booked:    {},
	Paid:      {},
	Cancelled: {},
}

// ValidStatus tells whether status is one a commission can be in
func ValidStatus(status string) bool {
	_, ok := statuses[status]
	return ok
}

// Class returns the class of the commissions kept under namespace
func Class(namespace string) string {
	return namespace + ".booking"
}

// BookingCommission is the commission an agent earns on a booking.
// An agent has at most one commission per booking.
type BookingCommission struct {
	ObjectType       string  `json:"class"`
	BookingID        string  `json:"bookingId"`
	Agent            string  `json:"agent"`
	CommissionAmount float64 `json:"commissionAmount"`
	Status           string  `json:"status"`
	CreatedTime      string  `json:"createdTime"`
	UpdatedTime      string  `json:"updatedTime"`
}

func (c *BookingCommission) Class() string { return c.ObjectType }

func (c *BookingCommission) KeyParts() []string { return []string{c.Agent, c.BookingID} }

func (c *BookingCommission) Validate() error {
	if len(c.BookingID) == 0 {
		return errors.Wrapf(errors.Validation, "booking id empty")
	}
	if len(c.Agent) == 0 {
		return errors.Wrapf(errors.Validation, "agent of booking [%s] empty", c.BookingID)
	}
	if c.CommissionAmount < 0 {
		return errors.Wrapf(errors.Validation, "commission of booking [%s] must not be negative, got [%v]", c.BookingID, c.CommissionAmount)
	}
	if !ValidStatus(c.Status) {
		return errors.Wrapf(errors.Validation, "unknown status [%s] for booking [%s]", c.Status, c.BookingID)
	}
	return nil
}

// CommissionEntry is an element of RetrieveAllBookingCommissions.
// Stored values that are not commissions are passed through in Raw.
type CommissionEntry struct {
	Key    string             `json:"key"`
	Record *BookingCommission `json:"record,omitempty" metadata:",optional"`
	Raw    string             `json:"raw,omitempty" metadata:",optional"`
}

// CommissionPage is a page of RetrieveBookingCommissionsWithPagination
type CommissionPage struct {
	Commissions         []*BookingCommission `json:"commissions"`
	FetchedRecordsCount int32                `json:"fetchedRecordsCount"`
	Bookmark            string               `json:"bookmark"`
}
