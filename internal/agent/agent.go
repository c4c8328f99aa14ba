// Package agent assembles the subsystems into a running tool server.
package agent

import (
	"fmt"
	"time"

	"github.com/Klingon-tech/strata-agent/config"
	"github.com/Klingon-tech/strata-agent/internal/broadcast"
	"github.com/Klingon-tech/strata-agent/internal/log"
	"github.com/Klingon-tech/strata-agent/internal/nonce"
	"github.com/Klingon-tech/strata-agent/internal/query"
	"github.com/Klingon-tech/strata-agent/internal/rpc"
	"github.com/Klingon-tech/strata-agent/internal/stacking"
	"github.com/Klingon-tech/strata-agent/internal/wallet"
	"github.com/Klingon-tech/strata-agent/pkg/tx"
)

// Agent owns the wired subsystems and the tool server lifecycle.
type Agent struct {
	cfg      *config.Config
	identity *wallet.Identity
	client   *query.Client
	server   *rpc.Server
}

// New wires an agent from configuration and an already resolved identity.
func New(cfg *config.Config, id *wallet.Identity) (*Agent, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if id == nil {
		return nil, fmt.Errorf("identity is nil")
	}
	if id.Network != cfg.Network {
		return nil, fmt.Errorf("identity is for %s, config says %s", id.Network, cfg.Network)
	}

	var client *query.Client
	if cfg.Node.TimeoutSeconds > 0 {
		client = query.NewWithTimeout(cfg.Node.URL, cfg.Node.APIKey,
			time.Duration(cfg.Node.TimeoutSeconds)*time.Second)
	} else {
		client = query.New(cfg.Node.URL, cfg.Node.APIKey)
	}

	a := &Agent{
		cfg:      cfg,
		identity: id,
		client:   client,
	}

	if cfg.RPC.Enabled {
		deps := rpc.Deps{
			Identity:  id,
			Client:    client,
			Sequencer: nonce.NewSequencer(client, cfg.Network),
			Builder:   tx.NewBuilder(cfg.Network, schedule(cfg.Fees)),
			Caster:    broadcast.New(cfg.Node.URL, cfg.Node.APIKey, cfg.Network),
			Checker:   stacking.NewChecker(client, cfg.Network),
			Network:   cfg.Network,
		}
		addr := fmt.Sprintf("%s:%d", cfg.RPC.Addr, cfg.RPC.Port)
		a.server = rpc.New(addr, deps, cfg.RPC)
	}

	return a, nil
}

// schedule applies configured fee overrides onto the default schedule.
func schedule(fees config.FeeConfig) tx.Schedule {
	s := tx.DefaultSchedule()
	if fees.TransferMicro > 0 {
		s.Transfer = fees.TransferMicro
	}
	if fees.ContractCallMicro > 0 {
		s.ContractCall = fees.ContractCallMicro
	}
	return s.WithDelegateFeeRate(fees.DelegateRate)
}

// Start brings up the tool server, if enabled.
func (a *Agent) Start() error {
	log.Info().
		Str("network", string(a.cfg.Network)).
		Str("address", a.identity.AddressString()).
		Str("node", a.cfg.Node.URL).
		Msg("agent starting")

	if a.server == nil {
		log.Warn().Msg("tool server disabled by config")
		return nil
	}
	if err := a.server.Start(); err != nil {
		return fmt.Errorf("start tool server: %w", err)
	}
	log.Info().Str("listen", a.server.Addr()).Msg("tool server listening")
	return nil
}

// Stop shuts the agent down and wipes key material.
func (a *Agent) Stop() {
	if a.server != nil {
		if err := a.server.Stop(); err != nil {
			log.Error().Err(err).Msg("tool server shutdown")
		}
	}
	a.identity.Zero()
	log.Info().Msg("agent stopped")
}

// ServerAddr returns the tool server's listen address, or "" when disabled.
func (a *Agent) ServerAddr() string {
	if a.server == nil {
		return ""
	}
	return a.server.Addr()
}
