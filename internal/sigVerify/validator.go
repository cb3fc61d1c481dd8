package sigVerify

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

var ErrSignatureMismatch = errors.New("signature does not match address")

// 恢复 personal_sign 签名者地址，兼容 V=0/1 与 V=27/28
func RecoverSigner(msg string, sigHex string) (common.Address, error) {
	sig, err := hexutil.Decode(sigHex)
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid signature: %w", err)
	}
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("invalid signature length: %d", len(sig))
	}
	sig = append([]byte(nil), sig...)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(TextHash(msg), sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// 验证签名是否由 addr 对 msg 做出
func VerifyPersonalSignature(addr common.Address, msg string, sigHex string) error {
	signer, err := RecoverSigner(msg, sigHex)
	if err != nil {
		return err
	}
	if signer != addr {
		return ErrSignatureMismatch
	}
	return nil
}
