/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"os"
	"reflect"
	"strings"

	"github.com/hyperledger-labs/fabric-state-contracts/pkg/utils/errors"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/ledger"
	"github.com/hyperledger-labs/fabric-state-contracts/platform/chaincode/pvt"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables overriding configuration keys.
// Example: CHAINCODE_COLLECTIONS_NAMING sets collections.naming.
const EnvPrefix = "CHAINCODE"

type TLS struct {
	Enabled      bool   `mapstructure:"enabled"`
	Key          string `mapstructure:"key"`
	Cert         string `mapstructure:"cert"`
	ClientCACert string `mapstructure:"clientCACert"`
}

type Server struct {
	// Address, when set, runs the chaincode as an external service listening on it
	Address string `mapstructure:"address"`
	TLS     TLS    `mapstructure:"tls"`
}

type Chaincode struct {
	// ID is the package id the peer knows the chaincode service by
	ID string `mapstructure:"id"`
}

type Peer struct {
	// MSPID is the org of the peer the chaincode serves. A peer-launched chaincode reads it
	// from CORE_PEER_LOCALMSPID, an external service must be told.
	MSPID string `mapstructure:"mspid"`
}

type Logging struct {
	Spec   string `mapstructure:"spec"`
	Format string `mapstructure:"format"`
}

type Collections struct {
	Naming pvt.Scheme `mapstructure:"naming"`
	Shared string     `mapstructure:"shared"`
}

type Namespace struct {
	Namespace string `mapstructure:"namespace"`
}

// Config is built once at startup and handed to each contract
type Config struct {
	Chaincode   Chaincode   `mapstructure:"chaincode"`
	Server      Server      `mapstructure:"server"`
	Peer        Peer        `mapstructure:"peer"`
	Logging     Logging     `mapstructure:"logging"`
	Collections Collections `mapstructure:"collections"`
	Booking     Namespace   `mapstructure:"booking"`
	Asset       Namespace   `mapstructure:"asset"`
}

// IsExternalService tells whether the chaincode runs as a service the peer connects to
func (c *Config) IsExternalService() bool {
	return len(c.Server.Address) != 0
}

// PeerMSPID returns the configured peer org, nil when the environment of the peer provides it
func (c *Config) PeerMSPID() ledger.PeerMSPIDFunc {
	if len(c.Peer.MSPID) == 0 {
		return nil
	}
	mspID := c.Peer.MSPID
	return func() (string, error) { return mspID, nil }
}

// Router returns the private collection router the configuration selects
func (c *Config) Router() (*pvt.Router, error) {
	naming, err := pvt.NamingFor(c.Collections.Naming)
	if err != nil {
		return nil, err
	}
	return pvt.NewRouter(naming, c.Collections.Shared)
}

// SetDefaults registers every key with its default, so that environment overrides apply to all of them
func SetDefaults(v *viper.Viper) {
	v.SetDefault("chaincode.id", "")
	v.SetDefault("server.address", "")
	v.SetDefault("server.tls.enabled", false)
	v.SetDefault("server.tls.key", "")
	v.SetDefault("server.tls.cert", "")
	v.SetDefault("server.tls.clientCACert", "")
	v.SetDefault("peer.mspid", "")
	v.SetDefault("logging.spec", "info")
	v.SetDefault("logging.format", "")
	v.SetDefault("collections.naming", string(pvt.Implicit))
	v.SetDefault("collections.shared", "assetCollection")
	v.SetDefault("booking.namespace", "org.bookingnet.commission")
	v.SetDefault("asset.namespace", "asset")
}

// NewViper returns a viper instance with defaults and environment overrides.
// If path is not empty, the file it points to is read as well.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if len(path) != 0 {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Kindf(errors.Validation, err, "config file [%s] not accessible", path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Kindf(errors.Validation, err, "error when reading config file [%s]", path)
		}
	}
	return v, nil
}

// Load reads the configuration from defaults, the optional file at path and the environment
func Load(path string) (*Config, error) {
	v, err := NewViper(path)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// FromViper decodes and validates the configuration held by v
func FromViper(v *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := v.Unmarshal(c, viper.DecodeHook(mapstructure.DecodeHookFuncType(schemeDecodeHook))); err != nil {
		return nil, errors.Kindf(errors.Validation, err, "failed decoding configuration")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the settings that would otherwise fail at the first transaction
func (c *Config) Validate() error {
	if len(c.Collections.Shared) == 0 {
		return errors.Wrapf(errors.Validation, "collections.shared must be set")
	}
	if len(c.Booking.Namespace) == 0 || len(c.Asset.Namespace) == 0 {
		return errors.Wrapf(errors.Validation, "booking.namespace and asset.namespace must be set")
	}
	if c.IsExternalService() && len(c.Chaincode.ID) == 0 {
		return errors.Wrapf(errors.Validation, "chaincode.id must be set to run as an external service")
	}
	if c.IsExternalService() && len(c.Peer.MSPID) == 0 {
		return errors.Wrapf(errors.Validation, "peer.mspid must be set to run as an external service")
	}
	if c.Server.TLS.Enabled && (len(c.Server.TLS.Key) == 0 || len(c.Server.TLS.Cert) == 0) {
		return errors.Wrapf(errors.Validation, "server.tls.key and server.tls.cert must be set when TLS is enabled")
	}
	return nil
}

var schemeType = reflect.TypeOf(pvt.Scheme(""))

// schemeDecodeHook rejects unknown collection naming schemes while decoding
func schemeDecodeHook(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	if t != schemeType || f.Kind() != reflect.String {
		return data, nil
	}
	naming, err := pvt.NamingFor(pvt.Scheme(reflect.ValueOf(data).String()))
	if err != nil {
		return nil, err
	}
	return naming.Scheme(), nil
}
