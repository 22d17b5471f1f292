package factory

import (
	"time"

	"github.com/kreana/goapi/domain"
)

const ReceiptStatusSuccess = 1

// Receipt of a committed transaction, one transaction per block
type Receipt struct {
	TxHash      domain.TxHash      `json:"transactionHash" bson:"txHash"`
	BlockNumber domain.BlockNumber `json:"blockNumber" bson:"blockNumber"`
	From        domain.Address     `json:"from" bson:"from"`
	Method      string             `json:"method" bson:"method"`
	Value       string             `json:"value" bson:"value"`
	Status      int                `json:"status" bson:"status"`
	Logs        []Log              `json:"logs" bson:"logs"`
	Timestamp   time.Time          `json:"timestamp" bson:"timestamp"`
}

// Event is a receipt log as it is fanned out to subscribers
type Event struct {
	TxHash      domain.TxHash      `json:"transactionHash"`
	BlockNumber domain.BlockNumber `json:"blockNumber"`
	Log
}

func (r *Receipt) Events() []Event {
	res := make([]Event, 0, len(r.Logs))
	for _, l := range r.Logs {
		res = append(res, Event{TxHash: r.TxHash, BlockNumber: r.BlockNumber, Log: l})
	}
	return res
}
