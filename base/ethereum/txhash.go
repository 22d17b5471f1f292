package ethereum

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// TxHash derives a deterministic transaction hash from its block number, sender, method and payload
func TxHash(blockNumber uint64, from string, method string, payload []byte) string {
	var bn [8]byte
	binary.BigEndian.PutUint64(bn[:], blockNumber)
	return crypto.Keccak256Hash(bn[:], common.HexToAddress(from).Bytes(), []byte(method), payload).Hex()
}
