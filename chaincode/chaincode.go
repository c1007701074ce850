/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package chaincode

import (
	"os"

	"github.com/hyperledger-labs/fabric-state-contracts/chaincode/assettransfer"
	"github.com/hyperledger-labs/fabric-state-contracts/chaincode/booking"
	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/config"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/common/services/logging"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

var logger = logging.MustGetLogger()

// New bundles the contracts the configuration describes into one chaincode
func New(c *config.Config) (*contractapi.ContractChaincode, error) {
	assets, err := assettransfer.NewContract(c)
	if err != nil {
		return nil, errors.Wrapf(err, "failed creating asset transfer contract")
	}
	bookings, err := booking.NewContract(c)
	if err != nil {
		return nil, errors.Wrapf(err, "failed creating booking commission contract")
	}
	cc, err := contractapi.NewChaincode(assets, bookings)
	if err != nil {
		return nil, errors.Wrapf(err, "failed creating chaincode")
	}
	cc.Info.Title = "state-contracts"
	cc.Info.Version = "1.0.0"
	cc.DefaultContract = assettransfer.ContractName
	return cc, nil
}

// Serve runs the chaincode until it fails, either launched by the peer or as an external service
func Serve(c *config.Config) error {
	cc, err := New(c)
	if err != nil {
		return err
	}
	if !c.IsExternalService() {
		logger.Infof("starting chaincode launched by the peer")
		return cc.Start()
	}

	tls, err := tlsProperties(c.Server.TLS)
	if err != nil {
		return err
	}
	server := &shim.ChaincodeServer{
		CCID:     c.Chaincode.ID,
		Address:  c.Server.Address,
		CC:       cc,
		TLSProps: tls,
	}
	logger.Infof("starting chaincode service [%s] on [%s], tls enabled [%v]", c.Chaincode.ID, c.Server.Address, c.Server.TLS.Enabled)
	return server.Start()
}

func tlsProperties(c config.TLS) (shim.TLSProperties, error) {
	if !c.Enabled {
		return shim.TLSProperties{Disabled: true}, nil
	}
	key, err := os.ReadFile(c.Key)
	if err != nil {
		return shim.TLSProperties{}, errors.Wrapf(err, "failed reading tls key [%s]", c.Key)
	}
	cert, err := os.ReadFile(c.Cert)
	if err != nil {
		return shim.TLSProperties{}, errors.Wrapf(err, "failed reading tls cert [%s]", c.Cert)
	}
	props := shim.TLSProperties{Key: key, Cert: cert}
	if len(c.ClientCACert) != 0 {
		if props.ClientCACerts, err = os.ReadFile(c.ClientCACert); err != nil {
			return shim.TLSProperties{}, errors.Wrapf(err, "failed reading client ca cert [%s]", c.ClientCACert)
		}
	}
	return props, nil
}
