package types

import (
	"encoding/hex"
	"strings"

	abytes "github.com/axismarkets/axis-go/types/bytes"
	"github.com/axismarkets/axis-go/types/xerrors"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

const AddrSize = 20

type Address = abytes.HexBytes

func RandAddress() Address {
	return abytes.RandBytes(AddrSize)
}

func ZeroAddress() Address {
	return abytes.ZeroBytes(AddrSize)
}

// ModuleAddress derives the deterministic address of a protocol-owned
// account (treasury, staking pool, insurance fund, ...) from its name.
func ModuleAddress(name string) Address {
	return Address(ethcrypto.Keccak256([]byte("axis/module/" + name))[12:])
}

func HexToAddress(_hex string) (Address, error) {
	if strings.HasPrefix(_hex, "0x") {
		_hex = _hex[2:]
	}
	bzAddr, err := hex.DecodeString(_hex)
	if err != nil {
		return nil, xerrors.From(err)
	}
	if len(bzAddr) != AddrSize {
		return nil, xerrors.New("error of address length: address length should be 20 bytes")
	}
	return bzAddr, nil
}
