package crypto

import (
	"crypto/ecdsa"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

var ErrInvalidAddress = errors.New("invalid account address")

// ParseAddress 校验并解析 0x 开头的 20 字节账户地址。
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if s == "" || !common.IsHexAddress(s) {
		return common.Address{}, ErrInvalidAddress
	}
	return common.HexToAddress(s), nil
}

// 生成 secp256k1 公私钥对，地址为公钥 keccak 的后 20 字节
func GenerateKeyPair() (*ecdsa.PrivateKey, common.Address, error) {
	priv, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, common.Address{}, err
	}
	return priv, ethcrypto.PubkeyToAddress(priv.PublicKey), nil
}

// SignText 以 EIP-191 personal_sign 方式签名，返回 0x 开头的 65 字节签名。
func SignText(priv *ecdsa.PrivateKey, text string) (string, error) {
	if priv == nil {
		return "", errors.New("nil private key")
	}
	sig, err := ethcrypto.Sign(accounts.TextHash([]byte(text)), priv)
	if err != nil {
		return "", err
	}
	// 钱包返回的 V 为 27/28
	sig[ethcrypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}

func PrivateKeyToHex(priv *ecdsa.PrivateKey) (string, error) {
	if priv == nil {
		return "", errors.New("nil private key")
	}
	return hexutil.Encode(ethcrypto.FromECDSA(priv)), nil
}

func HexToPrivateKey(s string) (*ecdsa.PrivateKey, error) {
	return ethcrypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
}
