package ethereum

import (
	"bytes"
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

func ValidateMsgSignature(message []byte, signature, signer string) (bool, error) {
	return validateSignature(message, signature, signer, true)
}

func ValidateHashSignature(hash []byte, signature, signer string) (bool, error) {
	return validateSignature(hash, signature, signer, false)
}

// SignMsg produces a personal_sign style signature with V in 27/28
func SignMsg(message []byte, key *ecdsa.PrivateKey) (string, error) {
	sig, err := crypto.Sign(accounts.TextHash(message), key)
	if err != nil {
		return "", err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}

func validateSignature(data []byte, signature, signer string, applyTextHash bool) (bool, error) {
	hash := data
	if applyTextHash {
		hash = accounts.TextHash(data)
	}
	address := common.HexToAddress(signer)
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return false, err
	}
	recoveredAddress, err := ecRecover(hash, sig)
	if err != nil {
		return false, err
	}
	return bytes.Equal(address.Bytes(), recoveredAddress.Bytes()), nil
}

// ecRecover returns the address for the account that was used to create the signature.
func ecRecover(data []byte, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes long", crypto.SignatureLength)
	}

	// eth_sign responses come with V in either 0/1 or 27/28
	if sig[crypto.RecoveryIDOffset] < 27 {
		sig[crypto.RecoveryIDOffset] += 27
	}

	if sig[crypto.RecoveryIDOffset] != 27 && sig[crypto.RecoveryIDOffset] != 28 {
		return common.Address{}, fmt.Errorf("invalid Ethereum signature (V is not 27 or 28)")
	}

	sig[crypto.RecoveryIDOffset] -= 27

	rpk, err := crypto.SigToPub(data, sig)
	if err != nil {
		return common.Address{}, err
	}

	return crypto.PubkeyToAddress(*rpk), nil
}
