package ethereum

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

func GenerateKey() (*ecdsa.PrivateKey, *ecdsa.PublicKey, error) {
	if privateKey, err := crypto.GenerateKey(); err != nil {
		return nil, nil, err
	} else {
		publicKey := privateKey.Public().(*ecdsa.PublicKey)
		return privateKey, publicKey, nil
	}
}

// AddressOf returns the checksummed address of a public key
func AddressOf(pub *ecdsa.PublicKey) string {
	return crypto.PubkeyToAddress(*pub).Hex()
}

// EncodeKey hex encodes the private key without 0x prefix
func EncodeKey(key *ecdsa.PrivateKey) string {
	return hexutil.Encode(crypto.FromECDSA(key))[2:]
}

// DecodeKey accepts a hex private key with or without 0x prefix
func DecodeKey(s string) (*ecdsa.PrivateKey, error) {
	if len(s) > 1 && s[:2] == "0x" {
		s = s[2:]
	}
	return crypto.HexToECDSA(s)
}
