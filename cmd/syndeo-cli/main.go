package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"syndeo/cmd/internal/passphrase"
	"syndeo/crypto"
)

const keystorePassEnv = "SYNDEO_KEYSTORE_PASS"

var rpcEndpoint = defaultRPCEndpoint() // Defaults to localhost, can be overridden via RPC_URL or --rpc flag
var rpcAuthToken = os.Getenv("SYNDEO_RPC_TOKEN")

func main() {
	args := os.Args[1:]
	var err error
	rpcEndpoint = defaultRPCEndpoint()
	args, err = applyGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if len(args) < 1 {
		printUsage()
		return
	}

	command := args[0]
	switch command {
	case "generate-key":
		path := "syndeo.keystore"
		if len(args) > 1 {
			path = args[1]
		}
		generateKey(path)
	case "balance":
		if len(args) < 2 {
			fmt.Println("Error: Please provide an address.")
			printUsage()
			return
		}
		getBalance(args[1])
	case "summary":
		getSummary()
	case "available":
		if len(args) < 2 {
			fmt.Println("Error: Please provide an address.")
			printUsage()
			return
		}
		getAvailable(args[1])
	case "max-points":
		getMaxPoints()
	case "members":
		listMembers()
	case "events":
		var after uint64
		if len(args) > 1 {
			after, err = strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				fmt.Println("Error: Invalid sequence number.")
				return
			}
		}
		listEvents(after)
	case "add-member":
		if len(args) < 3 {
			fmt.Println("Usage: add-member <caller> <member>")
			return
		}
		addMember(args[1], args[2])
	case "remove-member":
		if len(args) < 3 {
			fmt.Println("Usage: remove-member <caller> <member>")
			return
		}
		removeMember(args[1], args[2])
	case "set-admin":
		if len(args) < 3 {
			fmt.Println("Usage: set-admin <caller> <newAdmin>")
			return
		}
		setAdmin(args[1], args[2])
	case "set-max-points":
		if len(args) < 3 {
			fmt.Println("Usage: set-max-points <caller> <maxPoints>")
			return
		}
		maxPoints, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			fmt.Println("Error: Invalid point amount.")
			return
		}
		setMaxPoints(args[1], maxPoints)
	case "award":
		if len(args) < 4 {
			fmt.Println("Usage: award <caller> <recipient> <amount>")
			return
		}
		amount, err := strconv.ParseUint(args[3], 10, 64)
		if err != nil {
			fmt.Println("Error: Invalid point amount.")
			return
		}
		award(args[1], args[2], amount)
	case "distribute":
		if len(args) < 2 {
			fmt.Println("Usage: distribute <caller> [amount]")
			return
		}
		amount := ""
		if len(args) > 2 {
			amount = args[2]
		}
		distribute(args[1], amount)
	case "deposit":
		if len(args) < 2 {
			fmt.Println("Usage: deposit <amount>")
			return
		}
		deposit(args[1])
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
	}
}

func printUsage() {
	fmt.Println(`Usage: syndeo-cli [--rpc <url>] <command> [args]

Key management:
  generate-key [file]                 Generate a key and save it to an encrypted keystore

Queries:
  balance <address>                   Show the fund balance of an address
  summary                             Show assigned points, awarded members and pooled funds
  available <address>                 Show the points a sender may still award this period
  max-points                          Show the per-sender point cap
  members                             List the registered members and the admin
  events [after]                      List ledger events after the given sequence number

Mutations (require SYNDEO_RPC_TOKEN):
  add-member <caller> <member>        Register a member (admin only)
  remove-member <caller> <member>     Remove a member (admin only)
  set-admin <caller> <newAdmin>       Hand the admin role to another account
  set-max-points <caller> <n>         Replace the per-sender point cap
  award <caller> <recipient> <n>      Award points to another member
  distribute <caller> [amount]        Pay out pooled rewards and reset the period
  deposit <amount>                    Deposit funds into the reward pool`)
}

func defaultRPCEndpoint() string {
	if v := strings.TrimSpace(os.Getenv("RPC_URL")); v != "" {
		return v
	}
	return "http://localhost:8650/rpc"
}

func applyGlobalFlags(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--rpc" {
			if i+1 >= len(args) {
				return nil, fmt.Errorf("missing value for --rpc")
			}
			rpcEndpoint = args[i+1]
			i++
			continue
		}
		if strings.HasPrefix(arg, "--rpc=") {
			rpcEndpoint = strings.TrimPrefix(arg, "--rpc=")
			continue
		}
		out = append(out, arg)
	}
	return out, nil
}

func generateKey(path string) {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		fmt.Printf("Error generating key: %v\n", err)
		os.Exit(1)
	}

	pass, err := passphrase.NewSource(keystorePassEnv).Confirm()
	if err != nil {
		fmt.Printf("Error resolving passphrase: %v\n", err)
		os.Exit(1)
	}
	if err := crypto.SaveToKeystore(path, key, pass); err != nil {
		fmt.Printf("Error saving keystore: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated new key and saved to %s\n", path)
	fmt.Printf("Your address is: %s\n", key.PubKey().Address().String())
}

func getBalance(addr string) {
	result, err := callRPC("syndeo_getBalance", map[string]interface{}{"address": addr}, false)
	if err != nil {
		fmt.Printf("Error fetching balance: %v\n", err)
		return
	}
	var out struct {
		Address string `json:"address"`
		Balance string `json:"balance"`
	}
	if err := json.Unmarshal(result, &out); err != nil {
		fmt.Printf("Error decoding response: %v\n", err)
		return
	}
	fmt.Printf("Balance of %s: %s\n", out.Address, out.Balance)
}

func getSummary() {
	result, err := callRPC("syndeo_getRewardsSummary", nil, false)
	if err != nil {
		fmt.Printf("Error fetching summary: %v\n", err)
		return
	}
	var out struct {
		AssignedPoints uint64 `json:"assignedPoints"`
		MembersAwarded int    `json:"membersAwarded"`
		Funds          string `json:"funds"`
	}
	if err := json.Unmarshal(result, &out); err != nil {
		fmt.Printf("Error decoding response: %v\n", err)
		return
	}
	fmt.Printf("Assigned points: %d\n", out.AssignedPoints)
	fmt.Printf("Members awarded: %d\n", out.MembersAwarded)
	fmt.Printf("Pooled funds:    %s\n", out.Funds)
}

func getAvailable(addr string) {
	result, err := callRPC("syndeo_getAvailablePoints", map[string]interface{}{"address": addr}, false)
	if err != nil {
		fmt.Printf("Error fetching available points: %v\n", err)
		return
	}
	var out struct {
		Address   string `json:"address"`
		Available uint64 `json:"available"`
	}
	if err := json.Unmarshal(result, &out); err != nil {
		fmt.Printf("Error decoding response: %v\n", err)
		return
	}
	fmt.Printf("%s may award %d more points this period\n", out.Address, out.Available)
}

func getMaxPoints() {
	result, err := callRPC("syndeo_getMaxPointsPerSender", nil, false)
	if err != nil {
		fmt.Printf("Error fetching cap: %v\n", err)
		return
	}
	var out struct {
		MaxPoints uint64 `json:"maxPoints"`
	}
	if err := json.Unmarshal(result, &out); err != nil {
		fmt.Printf("Error decoding response: %v\n", err)
		return
	}
	fmt.Printf("Per-sender point cap: %d\n", out.MaxPoints)
}

func listMembers() {
	result, err := callRPC("syndeo_listMembers", nil, false)
	if err != nil {
		fmt.Printf("Error fetching members: %v\n", err)
		return
	}
	var out struct {
		Admin   string   `json:"admin"`
		Members []string `json:"members"`
	}
	if err := json.Unmarshal(result, &out); err != nil {
		fmt.Printf("Error decoding response: %v\n", err)
		return
	}
	fmt.Printf("Admin: %s\n", out.Admin)
	fmt.Printf("Members (%d):\n", len(out.Members))
	for _, member := range out.Members {
		fmt.Printf("  - %s\n", member)
	}
}

func listEvents(after uint64) {
	result, err := callRPC("syndeo_listEvents", map[string]interface{}{"after": after}, false)
	if err != nil {
		fmt.Printf("Error fetching events: %v\n", err)
		return
	}
	var out []struct {
		Sequence   uint64            `json:"sequence"`
		Type       string            `json:"type"`
		Attributes map[string]string `json:"attributes"`
	}
	if err := json.Unmarshal(result, &out); err != nil {
		fmt.Printf("Error decoding response: %v\n", err)
		return
	}
	for _, evt := range out {
		fmt.Printf("#%d %s", evt.Sequence, evt.Type)
		for key, value := range evt.Attributes {
			fmt.Printf(" %s=%s", key, value)
		}
		fmt.Println()
	}
}

func addMember(caller, member string) {
	_, err := callRPC("syndeo_addMember", map[string]interface{}{
		"caller": caller,
		"member": member,
	}, true)
	if err != nil {
		fmt.Printf("Error adding member: %v\n", err)
		return
	}
	fmt.Printf("Member %s registered\n", member)
}

func removeMember(caller, member string) {
	_, err := callRPC("syndeo_removeMember", map[string]interface{}{
		"caller": caller,
		"member": member,
	}, true)
	if err != nil {
		fmt.Printf("Error removing member: %v\n", err)
		return
	}
	fmt.Printf("Member %s removed\n", member)
}

func setAdmin(caller, newAdmin string) {
	_, err := callRPC("syndeo_setAdmin", map[string]interface{}{
		"caller":   caller,
		"newAdmin": newAdmin,
	}, true)
	if err != nil {
		fmt.Printf("Error setting admin: %v\n", err)
		return
	}
	fmt.Printf("Admin role handed to %s\n", newAdmin)
}

func setMaxPoints(caller string, maxPoints uint64) {
	_, err := callRPC("syndeo_setMaxPointsPerSender", map[string]interface{}{
		"caller":    caller,
		"maxPoints": maxPoints,
	}, true)
	if err != nil {
		fmt.Printf("Error setting cap: %v\n", err)
		return
	}
	fmt.Printf("Per-sender point cap set to %d\n", maxPoints)
}

func award(caller, recipient string, amount uint64) {
	result, err := callRPC("syndeo_award", map[string]interface{}{
		"caller":    caller,
		"recipient": recipient,
		"amount":    amount,
	}, true)
	if err != nil {
		fmt.Printf("Error awarding points: %v\n", err)
		return
	}
	var out struct {
		AvailablePoints uint64 `json:"availablePoints"`
	}
	if err := json.Unmarshal(result, &out); err != nil {
		fmt.Printf("Error decoding response: %v\n", err)
		return
	}
	fmt.Printf("Awarded %d points to %s (%d remaining this period)\n", amount, recipient, out.AvailablePoints)
}

func distribute(caller, amount string) {
	params := map[string]interface{}{"caller": caller}
	if strings.TrimSpace(amount) != "" {
		params["amount"] = amount
	}
	result, err := callRPC("syndeo_distributeRewards", params, true)
	if err != nil {
		fmt.Printf("Error distributing rewards: %v\n", err)
		return
	}
	var out struct {
		PoolBalance string `json:"poolBalance"`
	}
	if err := json.Unmarshal(result, &out); err != nil {
		fmt.Printf("Error decoding response: %v\n", err)
		return
	}
	fmt.Printf("Rewards distributed, pool balance is now %s\n", out.PoolBalance)
}

func deposit(amount string) {
	result, err := callRPC("pool_deposit", map[string]interface{}{"amount": amount}, true)
	if err != nil {
		fmt.Printf("Error depositing funds: %v\n", err)
		return
	}
	var out struct {
		PoolBalance string `json:"poolBalance"`
	}
	if err := json.Unmarshal(result, &out); err != nil {
		fmt.Printf("Error decoding response: %v\n", err)
		return
	}
	fmt.Printf("Deposited %s, pool balance is now %s\n", amount, out.PoolBalance)
}

func callRPC(method string, param interface{}, requireAuth bool) (json.RawMessage, error) {
	payload := map[string]interface{}{"jsonrpc": "2.0", "id": 1, "method": method}
	if param != nil {
		payload["params"] = []interface{}{param}
	} else {
		payload["params"] = []interface{}{}
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequest(http.MethodPost, rpcEndpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if requireAuth {
		if rpcAuthToken == "" {
			return nil, fmt.Errorf("privileged RPC call requires SYNDEO_RPC_TOKEN to be set")
		}
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(rpcAuthToken))
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", rpcEndpoint, err)
	}
	defer resp.Body.Close()

	var rpcResp struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("failed to decode response from node")
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("error from node: %s", rpcResp.Error.Message)
	}
	return rpcResp.Result, nil
}
