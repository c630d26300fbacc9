package rpc

import (
	"strconv"

	"syndeo/core/events"
)

type eventResult struct {
	Sequence   uint64            `json:"sequence"`
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// newEventResult flattens a recorded event into strings suitable for JSON.
// Addresses render as bech32, fund amounts as decimal strings.
func newEventResult(rec events.Recorded) eventResult {
	out := eventResult{
		Sequence:   rec.Sequence,
		Type:       rec.Event.EventType(),
		Attributes: map[string]string{},
	}
	switch evt := rec.Event.(type) {
	case events.RewardsMemberAdded:
		out.Attributes["member"] = encodeAccount(evt.Member)
	case events.RewardsMemberRemoved:
		out.Attributes["member"] = encodeAccount(evt.Member)
	case events.RewardsAdminChanged:
		out.Attributes["oldAdmin"] = encodeAccount(evt.OldAdmin)
		out.Attributes["newAdmin"] = encodeAccount(evt.NewAdmin)
	case events.RewardsMaxPointsUpdated:
		out.Attributes["oldMax"] = formatUint(evt.OldMax)
		out.Attributes["newMax"] = formatUint(evt.NewMax)
	case events.RewardsPointsAwarded:
		out.Attributes["sender"] = encodeAccount(evt.Sender)
		out.Attributes["recipient"] = encodeAccount(evt.Recipient)
		out.Attributes["amount"] = formatUint(evt.Amount)
		out.Attributes["newRecipient"] = formatBool(evt.NewRecipient)
	case events.RewardsRewardPaid:
		out.Attributes["recipient"] = encodeAccount(evt.Recipient)
		out.Attributes["amount"] = evt.Amount.String()
		out.Attributes["points"] = formatUint(evt.Points)
	case events.RewardsDistributionCompleted:
		out.Attributes["totalRewards"] = evt.TotalRewards.String()
		out.Attributes["totalPoints"] = formatUint(evt.TotalPoints)
		out.Attributes["recipients"] = formatInt(evt.Recipients)
		out.Attributes["remainder"] = evt.Remainder.String()
	}
	return out
}

func formatUint(v uint64) string { return strconv.FormatUint(v, 10) }

func formatInt(v int) string { return strconv.Itoa(v) }

func formatBool(v bool) string { return strconv.FormatBool(v) }
