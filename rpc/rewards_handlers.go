package rpc

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"syndeo/crypto"
)

type memberParams struct {
	Caller string `json:"caller"`
	Member string `json:"member"`
}

type setAdminParams struct {
	Caller   string `json:"caller"`
	NewAdmin string `json:"newAdmin"`
}

type setMaxPointsParams struct {
	Caller    string `json:"caller"`
	MaxPoints uint64 `json:"maxPoints"`
}

type awardParams struct {
	Caller    string `json:"caller"`
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

type distributeParams struct {
	Caller string  `json:"caller"`
	Amount *string `json:"amount,omitempty"`
}

type depositParams struct {
	Amount string `json:"amount"`
}

type addressParams struct {
	Address string `json:"address"`
}

type listEventsParams struct {
	After uint64 `json:"after"`
}

type summaryResult struct {
	AssignedPoints uint64 `json:"assignedPoints"`
	MembersAwarded int    `json:"membersAwarded"`
	Funds          string `json:"funds"`
}

type availablePointsResult struct {
	Address   string `json:"address"`
	Available uint64 `json:"available"`
}

type balanceResult struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

type membersResult struct {
	Admin   string   `json:"admin"`
	Members []string `json:"members"`
}

func decodeParams(req *RPCRequest, out interface{}) error {
	if len(req.Params) != 1 {
		return fmt.Errorf("exactly one parameter object expected")
	}
	return json.Unmarshal(req.Params[0], out)
}

func decodeAccount(field, value string) ([20]byte, error) {
	addr, err := crypto.DecodeAddress(strings.TrimSpace(value))
	if err != nil {
		return [20]byte{}, fmt.Errorf("invalid %s address: %w", field, err)
	}
	return addr.Raw(), nil
}

func encodeAccount(raw [20]byte) string {
	return crypto.MustNewAddress(crypto.SyndeoPrefix, raw[:]).String()
}

func parseAmount(value string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(strings.TrimSpace(value), 10)
	if !ok {
		return nil, fmt.Errorf("invalid decimal amount %q", value)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("amount cannot be negative")
	}
	return amount, nil
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params memberParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := decodeAccount("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	member, err := decodeAccount("member", params.Member)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}

	s.mu.Lock()
	err = s.engine.AddMember(caller, member)
	s.mu.Unlock()
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"added": true})
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params memberParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := decodeAccount("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	member, err := decodeAccount("member", params.Member)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}

	s.mu.Lock()
	err = s.engine.RemoveMember(caller, member)
	s.mu.Unlock()
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"removed": true})
}

func (s *Server) handleSetAdmin(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params setAdminParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := decodeAccount("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	newAdmin, err := decodeAccount("newAdmin", params.NewAdmin)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}

	s.mu.Lock()
	err = s.engine.SetAdmin(caller, newAdmin)
	s.mu.Unlock()
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"admin": encodeAccount(newAdmin)})
}

func (s *Server) handleSetMaxPointsPerSender(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params setMaxPointsParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := decodeAccount("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}

	s.mu.Lock()
	err = s.engine.SetMaxPointsPerSender(caller, params.MaxPoints)
	s.mu.Unlock()
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]uint64{"maxPoints": params.MaxPoints})
}

func (s *Server) handleAward(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params awardParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := decodeAccount("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	recipient, err := decodeAccount("recipient", params.Recipient)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}

	s.mu.Lock()
	err = s.engine.Award(caller, recipient, params.Amount)
	available := s.engine.SenderAvailablePoints(caller)
	s.mu.Unlock()
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]uint64{"availablePoints": available})
}

func (s *Server) handleDistributeRewards(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params distributeParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := decodeAccount("caller", params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	var explicit *big.Int
	if params.Amount != nil {
		explicit, err = parseAmount(*params.Amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
			return
		}
	}

	// Distribution is the one operation that moves funds for several
	// recipients; revert the account state on failure so the operation
	// stays all-or-nothing.
	s.mu.Lock()
	snap := s.state.Snapshot()
	err = s.engine.DistributeRewards(caller, explicit)
	if err != nil {
		s.state.Revert(snap)
	}
	pool := s.state.PoolBalance()
	s.mu.Unlock()
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"poolBalance": pool.String()})
}

func (s *Server) handlePoolDeposit(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params depositParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}

	s.mu.Lock()
	err = s.state.CreditPool(amount)
	pool := s.state.PoolBalance()
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeServerError, err.Error(), nil)
		return
	}
	writeResult(w, req.ID, map[string]string{"poolBalance": pool.String()})
}

func (s *Server) handleGetRewardsSummary(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	s.mu.Lock()
	sum := s.engine.RewardsSummary()
	s.mu.Unlock()

	writeResult(w, req.ID, summaryResult{
		AssignedPoints: sum.AssignedPoints,
		MembersAwarded: sum.MembersAwarded,
		Funds:          sum.Funds.String(),
	})
}

func (s *Server) handleGetAvailablePoints(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params addressParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	addr, err := decodeAccount("address", params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}

	s.mu.Lock()
	available := s.engine.SenderAvailablePoints(addr)
	s.mu.Unlock()

	writeResult(w, req.ID, availablePointsResult{
		Address:   encodeAccount(addr),
		Available: available,
	})
}

func (s *Server) handleGetMaxPointsPerSender(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	s.mu.Lock()
	max := s.engine.MaxPointsPerSender()
	s.mu.Unlock()
	writeResult(w, req.ID, map[string]uint64{"maxPoints": max})
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params addressParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	addr, err := decodeAccount("address", params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}

	s.mu.Lock()
	balance := s.state.Balance(addr)
	s.mu.Unlock()

	writeResult(w, req.ID, balanceResult{
		Address: encodeAccount(addr),
		Balance: balance.String(),
	})
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	s.mu.Lock()
	admin := s.engine.Admin()
	members := s.engine.Members()
	s.mu.Unlock()

	encoded := make([]string, len(members))
	for i, m := range members {
		encoded[i] = encodeAccount(m)
	}
	writeResult(w, req.ID, membersResult{Admin: encodeAccount(admin), Members: encoded})
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params listEventsParams
	if len(req.Params) > 0 {
		if err := decodeParams(req, &params); err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
			return
		}
	}
	if s.events == nil {
		writeResult(w, req.ID, []eventResult{})
		return
	}
	recs := s.events.Since(params.After)
	out := make([]eventResult, 0, len(recs))
	for _, rec := range recs {
		out = append(out, newEventResult(rec))
	}
	writeResult(w, req.ID, out)
}
