package domain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"
)

var (
	Big0     = big.NewInt(0)
	Big1     = big.NewInt(1)
	BigBasis = big.NewInt(BasisPoints)
)

// BasisPoints is the denominator of fees and margins
const BasisPoints = 10000

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

// IsValid checks the 0x prefixed hex form, mixed case addresses must carry a correct checksum
func (a Address) IsValid() bool {
	s := string(a)
	if !strings.HasPrefix(s, "0x") || !common.IsHexAddress(s) {
		return false
	}
	if strings.ToLower(s) == s || strings.ToUpper(s[2:]) == s[2:] {
		return true
	}
	return common.HexToAddress(s).Hex() == s
}

type TokenId string

func (i TokenId) String() string {
	return string(i)
}

type BlockNumber uint64

type TxHash string

func (h TxHash) ToLower() TxHash {
	return TxHash(strings.ToLower(string(h)))
}

// ParseWei parses a base 10 wei amount
func ParseWei(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, xerrors.Errorf("%w: %q", ErrInvalidNumberFormat, s)
	}
	return v, nil
}

var weiPerEther = decimal.New(1, 18)

// WeiToEther formats a wei amount as an ether decimal string
func WeiToEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, 0).Div(weiPerEther).String()
}
