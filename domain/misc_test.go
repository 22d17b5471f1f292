package domain

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type MiscTestSuite struct {
	suite.Suite
}

func TestMiscTestSuite(t *testing.T) {
	suite.Run(t, new(MiscTestSuite))
}

func (s *MiscTestSuite) TestAddressIsValid() {
	tests := []struct {
		desc    string
		address Address
		valid   bool
	}{
		{desc: "empty", address: "", valid: false},
		{desc: "too short", address: "0x000", valid: false},
		{desc: "missing prefix", address: "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", valid: false},
		{desc: "missing prefix checksummed", address: "5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", valid: false},
		{desc: "upper case prefix", address: "0X5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", valid: false},
		{desc: "lower case", address: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", valid: true},
		{desc: "upper case", address: "0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED", valid: true},
		{desc: "checksummed", address: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", valid: true},
		{desc: "bad checksum", address: "0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", valid: false},
		{desc: "zero address", address: EmptyAddress, valid: true},
	}
	for _, t := range tests {
		s.Equal(t.valid, t.address.IsValid(), t.desc)
	}
}

func (s *MiscTestSuite) TestWei() {
	v, err := ParseWei("1500000000000000000")
	s.Require().NoError(err)
	s.Equal("1.5", WeiToEther(v))
	s.Equal("0", WeiToEther(nil))

	_, err = ParseWei("-1")
	s.ErrorIs(err, ErrInvalidNumberFormat)
	_, err = ParseWei("1e18")
	s.ErrorIs(err, ErrInvalidNumberFormat)
}
